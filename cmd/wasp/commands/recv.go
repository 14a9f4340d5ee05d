package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wasp/internal/domain/types"
)

// recv: fetch and decrypt queued messages for --me.
func recvCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and decrypt your queued messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if me == "" {
				return fmt.Errorf("--me required")
			}

			msgs, err := wire.Messages.ReceiveMessages(context.Background(), passphrase, types.ContactID(me), limit)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Printf("[%s] %s\n", m.From, string(m.Plaintext))
			}
			if len(msgs) == 0 {
				fmt.Println("no new messages")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max envelopes to fetch (0 = relay default)")
	return cmd
}
