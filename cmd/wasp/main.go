package main

import (
	"os"

	"wasp/cmd/wasp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
