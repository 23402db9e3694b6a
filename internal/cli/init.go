package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pmx/internal/storage"
)

var (
	initPath     string
	initExamples bool
)

func init() {
	initCmd.Flags().StringVar(&initPath, "path", "", "Directory to create (default $XDG_CONFIG_HOME/pmx or ~/.config/pmx)")
	initCmd.Flags().BoolVar(&initExamples, "with-examples", false, "Seed the repository with example profiles")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new pmx storage root",
	Long: `Creates the storage root with an empty repo/ directory and a default
config.toml. Refuses to touch a path that already exists.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := initPath
	if root == "" {
		var err error
		if root, err = storage.DefaultRoot(); err != nil {
			return err
		}
	}

	st, err := storage.Initialize(root)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	success(cmd, "Initialized pmx storage at %s", st.Path)

	if !initExamples {
		return nil
	}
	created, err := st.Profiles.SeedStarters()
	if err != nil {
		return fmt.Errorf("failed to write example profiles: %w", err)
	}
	for _, name := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "  + %s\n", name)
	}
	return nil
}
