package main

import (
	"os"

	"github.com/spf13/cobra"

	"tokengate/internal/interfaces/cli/migrate"
	"tokengate/internal/interfaces/cli/serve"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tokengate",
		Short: "Token-gated Telegram group access bot",
		Long:  `Tokengate keeps Telegram groups exclusive to Solana token holders, with tiered access and periodic balance verification.`,
	}

	rootCmd.AddCommand(
		serve.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
