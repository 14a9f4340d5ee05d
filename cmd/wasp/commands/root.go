package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wasp/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string
	me         string

	wire *app.Wire
)

// Execute builds the root cobra command and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:   "wasp",
		Short: "End-to-end encrypted messenger core, as a CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".wasp")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			w, err := app.NewWire(app.Config{Home: home, RelayURL: relayURL})
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.wasp)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting local key material")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:8080", "relay base URL")
	root.PersistentFlags().StringVar(&me, "me", "", "this device's contact id (as registered with the relay)")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		registerCmd(),
		rotateCmd(),
		startSessionCmd(),
		sendCmd(),
		recvCmd(),
		accountsCmd(),
	)
	return root.Execute()
}
