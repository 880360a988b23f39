package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/inkwell-social/inkwell-cli/pkg/config"
	"github.com/inkwell-social/inkwell-cli/pkg/errors"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
	"github.com/inkwell-social/inkwell-cli/pkg/output"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell CLI - Social blogging platform",
	Long: `Inkwell CLI is a command-line client for the Inkwell social
blogging platform. Sign in with your provider of choice and keep up
with your notifications in real time, straight from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Init(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			os.Exit(1)
		}

		logger.Init(verbose)

		if !output.ValidateFormat(outputFmt) {
			fmt.Fprintf(os.Stderr, "Error: invalid output format %q (expected text or json)\n", outputFmt)
			os.Exit(1)
		}
		config.SetString("output.format", outputFmt)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *errors.CLIError
		if stderrors.As(err, &cliErr) && cliErr.HasSuggestion() {
			fmt.Fprintf(os.Stderr, "Error: %v\n%s\n", err, cliErr.Suggestion)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/inkwell/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}
