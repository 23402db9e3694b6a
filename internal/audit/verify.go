package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult is the outcome of checking a request log.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify walks the log at path and stops at the first line whose prev_hash
// does not match the line before it, or that is not a well-formed entry.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	want := GenesisHash
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if err := checkLine(line, want); err != nil {
			return VerifyResult{Lines: n - 1, Error: err.Error(), ErrorLine: n}
		}
		want = HashLine(line)
	}
	if err := scanner.Err(); err != nil {
		return VerifyResult{Lines: n, Error: fmt.Sprintf("scan: %v", err)}
	}
	return VerifyResult{Valid: true, Lines: n}
}

func checkLine(line []byte, prevHash string) error {
	var e Entry
	if err := json.Unmarshal(line, &e); err != nil {
		return fmt.Errorf("parse error: %v", err)
	}
	if e.Method == "" || e.Outcome == "" {
		return fmt.Errorf("entry is missing method or outcome")
	}
	if e.PrevHash != prevHash {
		if prevHash == GenesisHash {
			return fmt.Errorf("first entry prev_hash is %q, expected genesis hash", e.PrevHash)
		}
		return fmt.Errorf("hash mismatch: expected %s, got %s", prevHash, e.PrevHash)
	}
	return nil
}
