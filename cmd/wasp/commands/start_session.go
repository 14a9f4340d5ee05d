package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wasp/internal/domain/types"
)

// startSessionCmd runs X3DH against a peer's published pre-key bundle and
// persists the resulting PendingSession, warming the session ahead of the
// first actual send so that call doesn't pay the bundle-fetch latency.
func startSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-session <peer-id>",
		Short: "Run X3DH against a peer's pre-key bundle and cache the pending session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			peer := types.ContactID(args[0])
			ctx := context.Background()

			identity, err := wire.IdentityStore.LoadIdentity(passphrase)
			if err != nil {
				return fmt.Errorf("loading local identity: %w", err)
			}

			bundle, err := wire.Relay.FetchPreKeyBundle(ctx, peer)
			if err != nil {
				return fmt.Errorf("fetching pre-key bundle for %q: %w", peer, err)
			}

			pending, err := wire.SessionMgr.CreateOutgoing(identity, bundle)
			if err != nil {
				return fmt.Errorf("running X3DH against %q: %w", peer, err)
			}

			if err := wire.PendingStore.SavePending(passphrase, peer, pending); err != nil {
				return fmt.Errorf("saving pending session: %w", err)
			}

			fmt.Printf("Session warmed with %s\n", peer)
			return nil
		},
	}
}
