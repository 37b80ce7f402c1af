// -- internal/workflow/stage.go --
package workflow

import (
	"context"

	"github.com/mesaworks/smartpost/api/schemas"
)

// StageFunc executes one unit of the wizard and reports its outcome. It
// must never panic past its boundary and never return a partial result:
// a stage either verified its postcondition or it failed with a reason.
type StageFunc func(ctx context.Context) schemas.StageResult

// StageDef names a stage and binds it to its executing function. The
// orchestrator consumes the ordered list of definitions; order in the
// slice is execution order, and every stage's success is a precondition
// for the next.
type StageDef struct {
	Name string
	Run  StageFunc
}
