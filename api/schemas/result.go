// -- api/schemas/result.go --
package schemas

import "fmt"

// StageResult is the tagged outcome of one wizard stage. A stage either
// succeeded or failed with a reason; there is no partial success even
// though a stage internally performs many UI operations.
type StageResult struct {
	ok     bool
	reason string
}

// OK returns a successful result.
func OK() StageResult {
	return StageResult{ok: true}
}

// Failf returns a failed result with a formatted reason.
func Failf(format string, args ...any) StageResult {
	return StageResult{reason: fmt.Sprintf(format, args...)}
}

// Success reports whether the stage completed.
func (r StageResult) Success() bool { return r.ok }

// Reason returns the failure reason, or "" for a successful result.
func (r StageResult) Reason() string { return r.reason }

func (r StageResult) String() string {
	if r.ok {
		return "success"
	}
	return "failed: " + r.reason
}
