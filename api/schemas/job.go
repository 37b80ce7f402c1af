// -- api/schemas/job.go --
package schemas

import (
	"fmt"
	"time"
)

// JobFunction is the posting's functional category. The target wizard
// only accepts a fixed set of values, so anything else is rejected at
// the input boundary rather than deep inside a stage.
type JobFunction string

const (
	FunctionSoftwareDevelopment JobFunction = "Software Development"
	FunctionSales               JobFunction = "Sales"
	FunctionGeneralManagement   JobFunction = "General Management"
	FunctionMarketingGeneral    JobFunction = "Marketing - General"
	FunctionProductManagement   JobFunction = "Product Management"
)

// JobFunctions lists every category the wizard's dropdown accepts, in
// display order.
var JobFunctions = []JobFunction{
	FunctionSoftwareDevelopment,
	FunctionSales,
	FunctionGeneralManagement,
	FunctionMarketingGeneral,
	FunctionProductManagement,
}

// Valid reports whether f is one of the accepted categories.
func (f JobFunction) Valid() bool {
	for _, known := range JobFunctions {
		if f == known {
			return true
		}
	}
	return false
}

// JobRecord describes one job posting to be created. It is assembled by
// the caller (usually from the extractor's output after operator review)
// and treated as read-only for the duration of a workflow run.
//
// Salary ordering (MaxSalary >= MinSalary) is deliberately NOT enforced
// here; the workflow writes whatever it is given and the CLI boundary is
// responsible for rejecting inverted ranges.
type JobRecord struct {
	CompanyName    string      `json:"company_name" validate:"required"`
	JobTitle       string      `json:"job_title" validate:"required"`
	Location       string      `json:"location" validate:"required"`
	JobFunction    JobFunction `json:"job_function" validate:"required"`
	MinSalary      int         `json:"min_salary" validate:"gte=0"`
	MaxSalary      int         `json:"max_salary" validate:"gte=0"`
	JobDescription string      `json:"job_description,omitempty"`
	SalaryBreakup  string      `json:"salary_breakup,omitempty"`
	AIGenerated    bool        `json:"is_ai_generated"`
	PostedBy       string      `json:"posted_by" validate:"required"`
	CreatedAt      time.Time   `json:"created_at,omitempty"`
}

// Summary returns a short human-readable description used in logs and
// notifications.
func (j JobRecord) Summary() string {
	return fmt.Sprintf("%s at %s (%s)", j.JobTitle, j.CompanyName, j.Location)
}
