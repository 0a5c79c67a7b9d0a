package main

import (
	"fmt"

	"github.com/2beens/fittrack/internal/auth"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email> <password>",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		// registering does not touch redis, tokens are only issued on login
		authService := auth.NewAuthService(auth.NewUsersRepo(pool), auth.DefaultTTL, nil)
		user, err := authService.Register(ctx, auth.Credentials{Email: args[0], Password: args[1]})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		color.Green("✓ created user %s", user.Email)
		fmt.Printf("  %s %d\n", color.New(color.Faint).Sprint("id"), user.ID)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
