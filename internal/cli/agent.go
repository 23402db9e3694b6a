package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pmx/internal/agent"
)

func init() {
	for _, t := range []agent.Target{agent.Claude, agent.Codex} {
		for _, cmd := range agentCommands(t) {
			rootCmd.AddCommand(cmd)
		}
	}
}

// agentCommands builds set-<agent>-profile, reset-<agent>-profile and
// append-<agent>-profile for t.
func agentCommands(t agent.Target) []*cobra.Command {
	slug := strings.ToLower(t.Name)
	file := t.Dir + "/" + t.File

	set := &cobra.Command{
		Use:   fmt.Sprintf("set-%s-profile <name>", slug),
		Short: fmt.Sprintf("Write a profile to ~/%s", file),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := newInstaller()
			if err != nil {
				return err
			}
			dst, err := in.Set(t, args[0])
			if err != nil {
				return fmt.Errorf("failed to set %s profile: %w", t.Name, err)
			}
			success(cmd, "Set %s profile to %q (%s)", t.Name, args[0], dst)
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   fmt.Sprintf("reset-%s-profile", slug),
		Short: fmt.Sprintf("Remove ~/%s", file),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := newInstaller()
			if err != nil {
				return err
			}
			dst, removed, err := in.Reset(t)
			if err != nil {
				return fmt.Errorf("failed to reset %s profile: %w", t.Name, err)
			}
			if !removed {
				warn(cmd, "No %s profile at %s", t.Name, dst)
				return nil
			}
			success(cmd, "Removed %s profile (%s)", t.Name, dst)
			return nil
		},
	}

	appendCmd := &cobra.Command{
		Use:   fmt.Sprintf("append-%s-profile <name>", slug),
		Short: fmt.Sprintf("Append a profile to ~/%s", file),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := newInstaller()
			if err != nil {
				return err
			}
			dst, extended, err := in.Append(t, args[0])
			if err != nil {
				return fmt.Errorf("failed to append %s profile: %w", t.Name, err)
			}
			if extended {
				success(cmd, "Appended %q to %s profile (%s)", args[0], t.Name, dst)
			} else {
				success(cmd, "Set %s profile to %q (%s)", t.Name, args[0], dst)
			}
			return nil
		},
	}

	return []*cobra.Command{set, reset, appendCmd}
}

func newInstaller() (*agent.Installer, error) {
	st, err := openStorage()
	if err != nil {
		return nil, err
	}
	return agent.NewInstaller(st.Config, st.Profiles)
}
