package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ppiankov/pmx/internal/profile"
	"github.com/ppiankov/pmx/internal/prompt"
	"github.com/ppiankov/pmx/internal/template"
)

var (
	listLong      bool
	createFile    string
	editFile      string
	deleteConfirm bool
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profilePathCmd)

	profileListCmd.Flags().BoolVarP(&listLong, "long", "l", false, "Show descriptions and placeholders")
	profileCreateCmd.Flags().StringVarP(&createFile, "file", "f", "", "Read content from file (- for stdin)")
	profileEditCmd.Flags().StringVarP(&editFile, "file", "f", "", "Read new content from file (- for stdin)")
	_ = profileEditCmd.MarkFlagRequired("file")
	profileDeleteCmd.Flags().BoolVarP(&deleteConfirm, "yes", "y", false, "Delete without asking")

	// Root-level alias
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "Show descriptions and placeholders")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage prompt profiles",
	Long:  "Create, inspect, edit and delete the profiles stored under <root>/repo.",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles (alias for profile list)",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a profile's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Long: `Creates <root>/repo/<name>.md. Content is read from --file, or from stdin
when it is not a terminal. Content with nothing but headings, HTML comments
and blank lines is refused. With a terminal on stdin a starter scaffold is
written for profile edit to replace. Fails if the profile already exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileCreate,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Replace the content of an existing profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileEdit,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

var profilePathCmd = &cobra.Command{
	Use:   "path [name]",
	Short: "Print the file path of a profile, or the repository directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfilePath,
}

func runProfileList(cmd *cobra.Command, args []string) error {
	st, err := openStorage()
	if err != nil {
		return err
	}
	names, err := st.Profiles.List()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No profiles found.")
		return nil
	}
	for _, name := range names {
		if !listLong {
			fmt.Fprintln(out, name)
			continue
		}
		content, err := st.Profiles.Read(name)
		if err != nil {
			fmt.Fprintf(out, "  %-24s (error reading: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(out, "  %-24s %s\n", name, prompt.Describe(name, content))
		if ph := template.Extract(content); len(ph) > 0 {
			fmt.Fprintf(out, "  %-24s placeholders: %s\n", "", strings.Join(ph, ", "))
		}
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	st, err := openStorage()
	if err != nil {
		return err
	}
	content, err := st.Profiles.Read(args[0])
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := profile.ValidateName(name); err != nil {
		return err
	}
	content, err := createContent(cmd, name)
	if err != nil {
		return err
	}
	if profile.IsBlank(content) {
		warn(cmd, "Profile creation cancelled - no content added")
		return nil
	}

	st, err := openStorage()
	if err != nil {
		return err
	}
	if err := st.Profiles.Create(name, content); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	path, err := st.Profiles.Resolve(name)
	if err != nil {
		return err
	}
	success(cmd, "Created profile %q at %s", name, path)
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	name := args[0]
	content, err := readContent(cmd, editFile)
	if err != nil {
		return err
	}

	st, err := openStorage()
	if err != nil {
		return err
	}
	if err := st.Profiles.Update(name, content); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	success(cmd, "Updated profile %q", name)
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	st, err := openStorage()
	if err != nil {
		return err
	}
	if !st.Profiles.Exists(name) {
		if err := profile.ValidateName(name); err != nil {
			return err
		}
		return fmt.Errorf("profile %q: %w", name, profile.ErrNotFound)
	}

	if !deleteConfirm {
		content, err := st.Profiles.Read(name)
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Profile %q contents:\n%s\n\n", name, content)
		fmt.Fprintf(out, "Delete profile %q? [y/N] ", name)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			warn(cmd, "Aborted.")
			return nil
		}
	}

	if err := st.Profiles.Delete(name); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	success(cmd, "Deleted profile %q", name)
	return nil
}

func runProfilePath(cmd *cobra.Command, args []string) error {
	st, err := openStorage()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), st.Profiles.Dir())
		return nil
	}
	path, err := st.Profiles.Resolve(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// createContent picks the content for a new profile: --file or piped stdin.
// With a terminal on stdin there is nothing to read, so the starter template
// plus a "Write your profile here." line is written as a scaffold to fill
// in with profile edit.
func createContent(cmd *cobra.Command, name string) (string, error) {
	if createFile != "" {
		return readContent(cmd, createFile)
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return profile.InitProfile(name) + "\nWrite your profile here.\n", nil
	}
	return readContent(cmd, "-")
}

func readContent(cmd *cobra.Command, file string) (string, error) {
	if file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}
