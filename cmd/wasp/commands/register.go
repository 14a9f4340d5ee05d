package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wasp/internal/domain/types"
)

const defaultOneTimePreKeyBatch = 100

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <user-id>",
		Short: "Generate pre-keys and publish your bundle to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			userID := types.ContactID(args[0])
			ctx := context.Background()

			if prior, ok, err := wire.AccountStore.LoadAccountProfile(wire.RelayURL, userID); err != nil {
				return fmt.Errorf("checking existing account profile: %w", err)
			} else if ok {
				fmt.Printf("Re-registering %s (previous registration id %d)\n", userID, prior.RegistrationID)
			}

			if _, err := wire.PreKey.GenerateAndStoreSignedPreKey(passphrase); err != nil {
				return fmt.Errorf("generating signed pre-key: %w", err)
			}
			opks, err := wire.PreKey.GenerateAndStoreOneTimePreKeys(passphrase, defaultOneTimePreKeyBatch)
			if err != nil {
				return fmt.Errorf("generating one-time pre-keys: %w", err)
			}

			bundle, err := wire.PreKey.BuildPreKeyBundle(passphrase, userID)
			if err != nil {
				return fmt.Errorf("assembling bundle: %w", err)
			}
			if err := wire.Relay.RegisterPreKeyBundle(ctx, bundle); err != nil {
				return fmt.Errorf("registering with relay: %w", err)
			}

			// The bundle already offers one OPK; push the rest of the
			// freshly generated batch so the relay has a full queue to
			// hand out.
			rest := make([]types.OneTimePreKeyPublic, 0, len(opks))
			for _, k := range opks {
				if bundle.OneTimePreKey == nil || k.ID != bundle.OneTimePreKey.ID {
					rest = append(rest, k)
				}
			}
			if len(rest) > 0 {
				if err := wire.Relay.ReplenishOneTimePreKeys(ctx, userID, rest); err != nil {
					return fmt.Errorf("replenishing one-time pre-keys: %w", err)
				}
			}

			canary, err := wire.Relay.FetchAccountCanary(ctx, userID)
			if err != nil {
				return fmt.Errorf("fetching canary: %w", err)
			}
			profile := types.AccountProfile{
				ServerURL:      wire.RelayURL,
				UserID:         userID,
				RegistrationID: bundle.RegistrationID,
				Canary:         canary,
			}
			if err := wire.AccountStore.SaveAccountProfile(profile); err != nil {
				return fmt.Errorf("saving account profile: %w", err)
			}

			fmt.Printf("Registered %s with %d one-time pre-keys (canary %s)\n", userID, len(opks), canary)
			return nil
		},
	}
}
