package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/task-tracker/internal/core/service"
	"github.com/99minutos/task-tracker/pkg/logger"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for an existing user",
	Long:  "Signs a development JWT for the user with the given email using JWT_SECRET.",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		st, err := openStores(ctx, cfg, logger.Get())
		if err != nil {
			return err
		}
		defer st.close(context.Background())

		auth := service.NewAuthService(st.users, st.members, cfg.JWTSecret, ttl, logger.Component("auth"))
		token, _, err := auth.IssueToken(ctx, email)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("email", "", "email of the user the token is issued for")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(tokenCmd)
}
