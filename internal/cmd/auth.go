package cmd

import (
	"github.com/inkwell-social/inkwell-cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	loginProvider string
	loginReturn   string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage authentication with Inkwell",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Inkwell",
	Long:  "Sign in through an OAuth provider (google, github, or facebook)",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService()
		return authSvc.Login(cmd.Context(), loginProvider, loginReturn)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from Inkwell",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService()
		return authSvc.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display current authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService()
		return authSvc.WhoAmI(cmd.Context())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status, including the last probe error",
	RunE: func(cmd *cobra.Command, args []string) error {
		authSvc := service.NewAuthService()
		return authSvc.Status(cmd.Context())
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginProvider, "provider", "google", "OAuth provider: google, github, facebook")
	loginCmd.Flags().StringVar(&loginReturn, "return", "/", "Path to return to after login")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
	authCmd.AddCommand(statusCmd)
}
