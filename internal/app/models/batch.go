package models

import "fmt"

// BatchError is one failed id within a batch operation. Failed ids are
// never dropped silently; every failure carries the id and the underlying
// cause so a human can retry safely.
type BatchError struct {
	ID  string `json:"id"`
	Err error  `json:"-"`
}

func (e BatchError) Error() string {
	return fmt.Sprintf("id %s: %v", e.ID, e.Err)
}

func (e BatchError) Unwrap() error { return e.Err }

// Message exposes the underlying cause for JSON responses.
func (e BatchError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// BatchResult reports a batch delete/update, split into successes and
// per-id failures. Confirmed is false when the confirmation gate was not
// set and the operation was a no-op.
type BatchResult struct {
	Confirmed bool         `json:"confirmed"`
	Deleted   []string     `json:"deleted"`
	Failed    []BatchError `json:"failed"`
	AuditPath string       `json:"audit_path,omitempty"`
}

// Partial reports whether some ids succeeded and some failed.
func (r *BatchResult) Partial() bool {
	return len(r.Deleted) > 0 && len(r.Failed) > 0
}
