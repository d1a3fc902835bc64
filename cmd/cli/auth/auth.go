package auth

import (
	"fmt"
	"net/http"

	"github.com/Kushal-np/SocialMedia/cmd/cli/client"
	"github.com/Kushal-np/SocialMedia/cmd/cli/config"
	"github.com/spf13/cobra"
)

// Init registers auth commands (signup, login, logout) on the root command.
func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd())
}

func signupCmd() *cobra.Command {
	var fullName, username, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" || password == "" {
				return fmt.Errorf("username, email, and password are required")
			}
			if fullName == "" {
				fullName = username
			}

			var resp struct {
				Token string `json:"token"`
			}
			payload := map[string]string{
				"fullName": fullName,
				"username": username,
				"email":    email,
				"password": password,
			}
			if err := client.Call(http.MethodPost, "/auth/signup", payload, &resp, false); err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			if resp.Token == "" {
				return fmt.Errorf("signup succeeded but no token returned")
			}
			if err := config.SaveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Account created. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "Display name")
	cmd.Flags().StringVar(&username, "username", "", "Unique username")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (at least 6 characters)")

	return cmd
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			var resp struct {
				Token string `json:"token"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.Call(http.MethodPost, "/auth/login", payload, &resp, false); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if resp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
