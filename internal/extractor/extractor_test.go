// -- internal/extractor/extractor_test.go --
package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaworks/smartpost/api/schemas"
)

func TestCleanMarkdownFences(t *testing.T) {
	t.Run("strips json fences", func(t *testing.T) {
		in := "```json\n{\"job_title\": \"Backend Engineer\"}\n```"
		assert.Equal(t, `{"job_title": "Backend Engineer"}`, cleanMarkdownFences(in))
	})

	t.Run("leaves bare json alone", func(t *testing.T) {
		in := `{"job_title": "Backend Engineer"}`
		assert.Equal(t, in, cleanMarkdownFences(in))
	})

	t.Run("strips unlabeled fences", func(t *testing.T) {
		in := "```\n{}\n```"
		assert.Equal(t, "{}", cleanMarkdownFences(in))
	})
}

func TestParseDraft(t *testing.T) {
	t.Run("well formed reply maps onto the record", func(t *testing.T) {
		reply := `{
			"company_name": "Acme Robotics",
			"job_title": "Backend Engineer",
			"location": "Remote",
			"job_function": "Software Development",
			"min_salary": 1200000,
			"max_salary": 1800000,
			"job_description": "Build services.",
			"salary_breakup": "Base + bonus"
		}`

		record, err := parseDraft(reply)
		require.NoError(t, err)

		assert.Equal(t, "Acme Robotics", record.CompanyName)
		assert.Equal(t, schemas.FunctionSoftwareDevelopment, record.JobFunction)
		assert.Equal(t, 1200000, record.MinSalary)
		assert.Equal(t, 1800000, record.MaxSalary)
		assert.True(t, record.AIGenerated, "extracted drafts are machine-generated")
		assert.False(t, record.CreatedAt.IsZero())
	})

	t.Run("quoted and non-numeric salaries coerce permissively", func(t *testing.T) {
		reply := `{
			"company_name": "Acme",
			"job_title": "Analyst",
			"job_function": "Sales",
			"min_salary": "900000",
			"max_salary": "competitive"
		}`

		record, err := parseDraft(reply)
		require.NoError(t, err)
		assert.Equal(t, 900000, record.MinSalary)
		assert.Equal(t, 0, record.MaxSalary, "non-numeric salary text becomes zero, not an error")
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		_, err := parseDraft(`{"company_name": `)
		require.Error(t, err)
	})
}

func TestMatchFunction(t *testing.T) {
	assert.Equal(t, schemas.FunctionSoftwareDevelopment, matchFunction("software development"))
	assert.Equal(t, schemas.FunctionMarketingGeneral, matchFunction("Marketing"))
	assert.Equal(t, schemas.JobFunctions[0], matchFunction("Astronaut"),
		"unknown functions fall back to the first category")
	assert.Equal(t, schemas.JobFunctions[0], matchFunction(""))
}

func TestCoerceSalary(t *testing.T) {
	assert.Equal(t, 1200000, coerceSalary(float64(1200000)))
	assert.Equal(t, 0, coerceSalary(float64(-5)))
	assert.Equal(t, 500000, coerceSalary("500000"))
	assert.Equal(t, 0, coerceSalary("12 LPA"))
	assert.Equal(t, 0, coerceSalary(nil))
	assert.Equal(t, 0, coerceSalary(true))
}
