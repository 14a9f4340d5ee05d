package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wasp/internal/domain/types"
)

// rotateCmd generates a fresh signed pre-key and publishes it to the relay.
// The previous one stays in the local store, but incoming pre-key messages
// are processed against the newest one only.
func rotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-spk",
		Short: "Rotate the signed pre-key and republish it to the relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if me == "" {
				return fmt.Errorf("--me required")
			}

			spk, err := wire.PreKey.GenerateAndStoreSignedPreKey(passphrase)
			if err != nil {
				return fmt.Errorf("generating signed pre-key: %w", err)
			}
			if err := wire.Relay.RotateSignedPreKey(context.Background(), types.ContactID(me), spk); err != nil {
				return fmt.Errorf("publishing rotated signed pre-key: %w", err)
			}
			fmt.Printf("Rotated signed pre-key (id=%d)\n", spk.ID)
			return nil
		},
	}
}
