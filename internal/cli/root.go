package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/pmx/internal/storage"
)

var (
	configRoot string
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:           "pmx",
	Short:         "Manage prompt profiles and serve them over MCP",
	Long:          "pmx keeps named prompt profiles under a storage root, installs them as agent\nsystem prompts, and serves them to MCP clients with <{{PLACEHOLDER}}> substitution.",
	SilenceErrors: true,
	SilenceUsage:  true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbosity >= 1 {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Logger.Level(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configRoot, "config", "", "Storage root (default $PMX_CONFIG_FILE or ~/.config/pmx)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Verbose output")
}

// Execute runs the root command. Errors are printed as "Error: <message>"
// and exit with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		red := color.New(color.FgRed)
		red.Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStorage resolves the storage root from --config, the environment or
// the default location.
func openStorage() (*storage.Storage, error) {
	st, err := storage.Discover(configRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	log.Debug().Str("root", st.Path).Msg("storage opened")
	return st, nil
}

func success(cmd *cobra.Command, format string, args ...any) {
	green := color.New(color.FgGreen)
	green.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

func warn(cmd *cobra.Command, format string, args ...any) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
