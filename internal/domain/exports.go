package domain

import (
	interfaces "wasp/internal/domain/interfaces"
	types "wasp/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact
// imports across the rest of the module.
type (
	ContactID           = types.ContactID
	RegistrationID      = types.RegistrationID
	KeyID               = types.KeyID
	Fingerprint         = types.Fingerprint
	X25519Public        = types.X25519Public
	X25519Private       = types.X25519Private
	Ed25519Public       = types.Ed25519Public
	Ed25519Private      = types.Ed25519Private
	Identity            = types.Identity
	IdentityPublic      = types.IdentityPublic
	SignedPreKey        = types.SignedPreKey
	SignedPreKeyPublic  = types.SignedPreKeyPublic
	OneTimePreKey       = types.OneTimePreKey
	OneTimePreKeyPublic = types.OneTimePreKeyPublic
	PreKeyBundle        = types.PreKeyBundle
	RatchetHeader       = types.RatchetHeader
	RatchetState        = types.RatchetState
	SkippedKeyID        = types.SkippedKeyID
	SkippedKeyCache     = types.SkippedKeyCache
	Session             = types.Session
	PendingX3DHContext  = types.PendingX3DHContext
	PendingSession      = types.PendingSession
	Envelope            = types.Envelope
	MessageType         = types.MessageType
	DecryptedMessage    = types.DecryptedMessage
	AccountProfile      = types.AccountProfile
	MediaKey            = types.MediaKey
	EncryptedMedia      = types.EncryptedMedia
)

const (
	MaxCache = types.MaxCache
	MaxSkip  = types.MaxSkip
)

const (
	MessageTypeText   = types.MessageTypeText
	MessageTypeMedia  = types.MessageTypeMedia
	MessageTypeSystem = types.MessageTypeSystem
)

// Interface aliases expose domain interfaces from the interfaces
// subpackage.
type (
	IdentityService     = interfaces.IdentityService
	PreKeyService       = interfaces.PreKeyService
	SessionManager      = interfaces.SessionManager
	MessageService      = interfaces.MessageService
	RelayClient         = interfaces.RelayClient
	IdentityStore       = interfaces.IdentityStore
	PreKeyStore         = interfaces.PreKeyStore
	PreKeyBundleStore   = interfaces.PreKeyBundleStore
	SessionStore        = interfaces.SessionStore
	PendingSessionStore = interfaces.PendingSessionStore
	AccountStore        = interfaces.AccountStore
)
