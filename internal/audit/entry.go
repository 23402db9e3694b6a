package audit

// Outcomes recorded for protocol requests.
const (
	OutcomeOK       = "ok"
	OutcomeDisabled = "disabled"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Entry is one line in the request log. Fields are fixed structs so the
// marshalled line, and therefore its hash, is deterministic.
type Entry struct {
	Timestamp string `json:"ts"`
	Method    string `json:"method"`
	Name      string `json:"name,omitempty"`
	Outcome   string `json:"outcome"`
	Error     string `json:"error,omitempty"`
	PrevHash  string `json:"prev_hash"`
}
