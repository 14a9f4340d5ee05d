package message

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

// Service sends and receives messages over the relay using the session
// manager for X3DH and Double Ratchet bookkeeping.
//
// High-level flow:
//   - Send: if no session exists with the peer yet, fetch their pre-key
//     bundle and run X3DH to create one; the first envelope carries the
//     X3DH material the receiver needs. Subsequent sends reuse the stored
//     session.
//   - Receive: fetch envelopes, establishing a session from the sender's
//     pre-key material on first contact, decrypt in order, persist ratchet
//     state, then ack only what was processed.
type Service struct {
	serverURL    string
	idStore      domain.IdentityStore
	preKeyStore  domain.PreKeyStore
	sessionStore domain.SessionStore
	pendingStore domain.PendingSessionStore
	bundleStore  domain.PreKeyBundleStore
	sessionMgr   domain.SessionManager
	relayClient  domain.RelayClient
	log          *zap.Logger
}

// New constructs a Message Service with the given stores, session manager,
// and relay client. serverURL identifies the relay for bundle caching. log
// receives the security-relevant events spec.md §7 calls out for
// user-facing surfacing (signature failures, session conflicts, auth
// failures); a nil logger is replaced with zap.NewNop().
func New(
	serverURL string,
	idStore domain.IdentityStore,
	preKeyStore domain.PreKeyStore,
	sessionStore domain.SessionStore,
	pendingStore domain.PendingSessionStore,
	bundleStore domain.PreKeyBundleStore,
	sessionMgr domain.SessionManager,
	relayClient domain.RelayClient,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		serverURL:    serverURL,
		idStore:      idStore,
		preKeyStore:  preKeyStore,
		sessionStore: sessionStore,
		pendingStore: pendingStore,
		bundleStore:  bundleStore,
		sessionMgr:   sessionMgr,
		relayClient:  relayClient,
		log:          log,
	}
}

// SendMessage encrypts and posts plaintext to the relay.
//
// If no session with to exists, one is created via X3DH against a freshly
// fetched pre-key bundle; the resulting PendingSession is persisted before
// the first envelope is even built, so a crash between session creation
// and send still leaves the X3DH material recoverable on retry.
func (s *Service) SendMessage(ctx context.Context, passphrase string, me, to types.ContactID, plaintext []byte) error {
	identity, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return err
	}

	session, found, err := s.sessionStore.LoadSession(passphrase, to)
	if err != nil {
		return err
	}

	var envelope types.Envelope
	if !found {
		pending, found, err := s.pendingStore.LoadPending(passphrase, to)
		if err != nil {
			return err
		}
		if !found {
			bundle, err := s.fetchOrCachedBundle(ctx, to)
			if err != nil {
				return err
			}
			pending, err = s.sessionMgr.CreateOutgoing(identity, bundle)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidSignature) {
					s.log.Warn("peer pre-key bundle signature invalid, refusing to start session",
						zap.String("to", to.String()), zap.Error(err))
				}
				return err
			}
			if err := s.pendingStore.SavePending(passphrase, to, pending); err != nil {
				return err
			}
		}

		var newSession types.Session
		newSession, envelope, err = s.sessionMgr.EncryptFirst(pending, plaintext)
		if err != nil {
			return err
		}
		session = newSession
		if err := s.sessionStore.SaveSession(passphrase, session); err != nil {
			return err
		}
		if err := s.pendingStore.DeletePending(passphrase, to); err != nil {
			return err
		}
	} else {
		var newSession types.Session
		newSession, envelope, err = s.sessionMgr.Encrypt(session, plaintext)
		if err != nil {
			return err
		}
		session = newSession
		// Persist the advanced ratchet before the network call so a crash
		// after sending never leaves the local chain behind the one we
		// told the peer we advanced to.
		if err := s.sessionStore.SaveSession(passphrase, session); err != nil {
			return err
		}
	}

	envelope.From = me
	return s.relayClient.SendEnvelope(ctx, to, envelope)
}

func (s *Service) fetchOrCachedBundle(ctx context.Context, contact types.ContactID) (types.PreKeyBundle, error) {
	bundle, err := s.relayClient.FetchPreKeyBundle(ctx, contact)
	if err != nil {
		cached, ok, cacheErr := s.bundleStore.LoadPreKeyBundle(s.serverURL, contact)
		if cacheErr != nil || !ok {
			return types.PreKeyBundle{}, err
		}
		return cached, nil
	}
	_ = s.bundleStore.SavePreKeyBundle(s.serverURL, bundle)
	return bundle, nil
}

// ReceiveMessages fetches pending envelopes for me and decrypts each in
// order. Processing stops at the first envelope it cannot handle so later
// ones remain queued for a subsequent call; only the successfully
// processed prefix is acknowledged to the relay. Pre-key messages are
// always processed against the current signed pre-key.
func (s *Service) ReceiveMessages(ctx context.Context, passphrase string, me types.ContactID, limit int) (msgs []types.DecryptedMessage, err error) {
	envelopes, err := s.relayClient.FetchEnvelopes(ctx, me, limit)
	if err != nil {
		return nil, err
	}

	identity, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}

	out := make([]types.DecryptedMessage, 0, len(envelopes))
	processed := 0
	defer func() {
		if processed > 0 {
			if ackErr := s.relayClient.AckEnvelopes(ctx, me, processed); ackErr != nil && err == nil {
				err = fmt.Errorf("ack %d envelopes: %w", processed, ackErr)
			}
		}
	}()

	for i, envelope := range envelopes {
		from := envelope.From

		existing, found, err := s.sessionStore.LoadSession(passphrase, from)
		if err != nil {
			return out, err
		}
		var existingPtr *types.Session
		if found {
			existingPtr = &existing
		}

		spkID, ok, err := s.preKeyStore.CurrentSignedPreKeyID(passphrase)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, fmt.Errorf("wasp: no signed pre-key available to establish session with %s", from)
		}
		spk, ok, err := s.preKeyStore.LoadSignedPreKey(passphrase, spkID)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, fmt.Errorf("wasp: signed pre-key %d not found", spkID)
		}

		opkLookup := func(id types.KeyID) (types.OneTimePreKey, bool) {
			k, ok, err := s.preKeyStore.ConsumeOneTimePreKey(passphrase, id)
			if err != nil {
				return types.OneTimePreKey{}, false
			}
			return k, ok
		}

		next, decrypted, err := s.sessionMgr.DecryptIncoming(identity, spk, opkLookup, existingPtr, envelope)
		if err != nil {
			s.logDecryptFailure(from, err)
			return out, fmt.Errorf("decrypt from %q failed: %w", from, err)
		}
		next.ContactID = from
		decrypted.From = from

		if err := s.sessionStore.SaveSession(passphrase, next); err != nil {
			return out, fmt.Errorf("save session %q: %w", from, err)
		}

		out = append(out, decrypted)
		processed = i + 1
	}

	return out, nil
}

// logDecryptFailure records a decrypt failure at the severity spec.md §7
// assigns it. InvalidSignature and SessionConflict are the two kinds the
// spec calls out as warranting a safety-number-style warning to the end
// user, so they log at Warn; routine auth failures (a replayed or
// corrupted message) are Debug since the ratchet's own state is untouched
// and the caller already treats them as a dropped message, not a fault.
func (s *Service) logDecryptFailure(from types.ContactID, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSignature):
		s.log.Warn("pre-key bundle signature invalid", zap.String("from", from.String()), zap.Error(err))
	case errors.Is(err, domain.ErrSessionConflict):
		s.log.Warn("registration id conflict, possible safety-number change", zap.String("from", from.String()), zap.Error(err))
	case errors.Is(err, domain.ErrTooManySkipped):
		s.log.Warn("too many skipped messages in ratchet", zap.String("from", from.String()), zap.Error(err))
	case errors.Is(err, domain.ErrAuthFailure):
		s.log.Debug("dropping message that failed authentication", zap.String("from", from.String()))
	default:
		s.log.Debug("dropping undecryptable envelope", zap.String("from", from.String()), zap.Error(err))
	}
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
