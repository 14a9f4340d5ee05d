package interfaces

import (
	"context"

	types "wasp/internal/domain/types"
)

// RelayClient is how the core talks to the transport relay. The relay is a
// dumb forwarder (spec.md §6.4): it is trusted only to eventually deliver
// accepted bytes, never to see plaintext, preserve ordering, or dedupe.
type RelayClient interface {
	RegisterPreKeyBundle(ctx context.Context, bundle types.PreKeyBundle) error
	FetchPreKeyBundle(ctx context.Context, userID types.ContactID) (types.PreKeyBundle, error)
	ReplenishOneTimePreKeys(ctx context.Context, userID types.ContactID, keys []types.OneTimePreKeyPublic) error
	RotateSignedPreKey(ctx context.Context, userID types.ContactID, spk types.SignedPreKeyPublic) error

	SendEnvelope(ctx context.Context, userID types.ContactID, envelope types.Envelope) error
	FetchEnvelopes(ctx context.Context, userID types.ContactID, limit int) ([]types.Envelope, error)
	AckEnvelopes(ctx context.Context, userID types.ContactID, count int) error
	FetchAccountCanary(ctx context.Context, userID types.ContactID) (string, error)
}
