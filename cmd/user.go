package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/99minutos/task-tracker/internal/core/ports"
	"github.com/99minutos/task-tracker/internal/core/service"
	"github.com/99minutos/task-tracker/pkg/logger"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user, optionally as a team member",
	Long: `Creates a user account. With --role the user also joins the team;
use --role manager to bootstrap the first manager.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		log := logger.Get()

		st, err := openStores(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.close(context.Background())

		auth := service.NewAuthService(st.users, st.members, cfg.JWTSecret, 0, logger.Component("auth"))
		user, err := auth.RegisterUser(ctx, ports.RegisterUserInput{Name: name, Email: email, Role: role})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "created user %s <%s> id=%s\n", user.Name, user.Email, user.ID)
		if role != "" {
			fmt.Fprintf(out, "team role: %s\n", role)
		}
		return nil
	},
}

func init() {
	userCreateCmd.Flags().String("name", "", "display name")
	userCreateCmd.Flags().String("email", "", "email address (unique)")
	userCreateCmd.Flags().String("role", "", "team role: manager or employee (empty for no membership)")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
