package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	pmxmcp "github.com/ppiankov/pmx/internal/mcp"
	"github.com/ppiankov/pmx/internal/storage"
)

// version is set by ldflags at build time.
var version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and default locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := map[string]string{
			"name":       "pmx",
			"version":    version,
			"mcp_server": pmxmcp.ServerName,
			"root_env":   storage.EnvRoot,
		}
		if root, err := storage.DefaultRoot(); err == nil {
			info["default_root"] = root
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
