// Package main implements nutrinoctl, the operator CLI for Nutrino.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nutrinoctl",
		Short: "Operator tooling for the Nutrino backend",
		Long: `nutrinoctl runs the document parser offline and mints bearer tokens
for local testing against a Nutrino server.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newParseCmd())
	root.AddCommand(newTokenCmd())
	return root
}
