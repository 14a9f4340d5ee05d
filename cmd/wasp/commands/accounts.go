package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List locally known registered accounts, across all relay servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := wire.AccountStore.ListAccountProfiles()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Println("No registered accounts.")
				return nil
			}
			for _, p := range profiles {
				fmt.Printf("%s @ %s  (registration id %d, canary %s)\n", p.UserID, p.ServerURL, p.RegistrationID, p.Canary)
			}
			return nil
		},
	}
}
