package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pmx/internal/audit"
)

var tailLines int

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the MCP request log",
	Long:  "Commands for verifying and inspecting the log written by pmx mcp --audit-log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of a request log",
	Long:  "Walks the JSONL log and checks that every entry's prev_hash matches the\nSHA-256 of the previous line.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <path>",
	Short: "Show recent request log entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTail,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if !result.Valid {
		return fmt.Errorf("audit log invalid at line %d: %s", result.ErrorLine, result.Error)
	}
	success(cmd, "OK: %d entries verified", result.Lines)
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}

	start := len(lines) - tailLines
	if start < 0 {
		start = 0
	}

	out := cmd.OutOrStdout()
	for _, line := range lines[start:] {
		var e audit.Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			fmt.Fprintln(out, line)
			continue
		}
		name := e.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "%s  %-24s %-24s %s", e.Timestamp, e.Method, name, e.Outcome)
		if e.Error != "" {
			fmt.Fprintf(out, "  (%s)", e.Error)
		}
		fmt.Fprintln(out)
	}
	return nil
}
