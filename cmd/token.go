package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syamace/syaos/internal/api"
	"github.com/syamace/syaos/internal/config"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Mint a bearer token for a user",
	Long: `token signs a bearer token for the given username with the configured
auth secret. Tokens are provisioned out of band; the gateway only
validates them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if len(cfg.AuthSecret) < 32 {
			return config.ErrWeakAuthSecret
		}

		v := api.NewTokenValidator([]byte(cfg.AuthSecret), cfg.TokenGrace)
		token := v.Sign(args[0], time.Now().Add(tokenTTL))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
