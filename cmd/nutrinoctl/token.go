package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/security"
)

func newTokenCmd() *cobra.Command {
	var (
		configPath string
		userID     string
		email      string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with the configured secret",
		Long: `Mint a bearer token for a user, signed with auth.jwt_secret from the
configuration. Intended for local development and smoke tests.

Examples:
  nutrinoctl token --user user-1 --email cook@example.com
  curl -H "Authorization: Bearer $(nutrinoctl token --user user-1)" localhost:5000/api/profile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret is not configured")
			}

			token, err := security.NewAuthService(cfg.Auth, nil, zap.NewNop()).IssueToken(userID, email, name)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "configuration file path")
	cmd.Flags().StringVar(&userID, "user", "", "user ID placed in the token subject")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
