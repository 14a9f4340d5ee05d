package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wasp/internal/domain/types"
)

// send <peer> <message>: encrypt and send a message to <peer>.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer-id> <message>",
		Short: "Encrypt and send a message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if me == "" {
				return fmt.Errorf("--me required")
			}
			peer := types.ContactID(args[0])
			msg := []byte(args[1])

			if err := wire.Messages.SendMessage(context.Background(), passphrase, types.ContactID(me), peer, msg); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
}
