// -- cmd/post_test.go --
package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaworks/smartpost/api/schemas"
)

func noFlagsChanged(string) bool { return false }

func validFlags() *postFlags {
	return &postFlags{
		company:   "Acme Robotics",
		title:     "Backend Engineer",
		location:  "Remote",
		function:  "Software Development",
		minSalary: 1200000,
		maxSalary: 1800000,
		postedBy:  "ops",
	}
}

func TestBuildJobRecord(t *testing.T) {
	t.Run("flags alone build a valid record", func(t *testing.T) {
		job, err := buildJobRecord(validFlags(), noFlagsChanged)
		require.NoError(t, err)

		assert.Equal(t, "Acme Robotics", job.CompanyName)
		assert.Equal(t, schemas.FunctionSoftwareDevelopment, job.JobFunction)
		assert.False(t, job.CreatedAt.IsZero())
	})

	t.Run("job file is loaded and explicit flags override it", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"company_name": "Acme Robotics",
			"job_title": "Backend Engineer",
			"location": "Pune",
			"job_function": "Software Development",
			"min_salary": 1000000,
			"max_salary": 1500000,
			"posted_by": "ops"
		}`), 0o644))

		flags := &postFlags{jobFile: path, location: "Remote"}
		job, err := buildJobRecord(flags, func(name string) bool { return name == "location" })
		require.NoError(t, err)

		assert.Equal(t, "Remote", job.Location, "explicitly set flag overrides the file")
		assert.Equal(t, "Acme Robotics", job.CompanyName, "file value survives unset flags")
		assert.Equal(t, 1000000, job.MinSalary)
	})

	t.Run("inverted salary range is rejected", func(t *testing.T) {
		flags := validFlags()
		flags.minSalary = 1800000
		flags.maxSalary = 1200000

		_, err := buildJobRecord(flags, noFlagsChanged)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "below minimum salary")
	})

	t.Run("unknown job function is rejected", func(t *testing.T) {
		flags := validFlags()
		flags.function = "Astronaut"

		_, err := buildJobRecord(flags, noFlagsChanged)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown job function")
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		flags := validFlags()
		flags.company = ""

		_, err := buildJobRecord(flags, noFlagsChanged)
		require.Error(t, err)
	})

	t.Run("description file feeds the record", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jd.txt")
		require.NoError(t, os.WriteFile(path, []byte("Build services."), 0o644))

		flags := validFlags()
		flags.descriptionFile = path

		job, err := buildJobRecord(flags, noFlagsChanged)
		require.NoError(t, err)
		assert.Equal(t, "Build services.", job.JobDescription)
	})

	t.Run("unreadable job file is an error", func(t *testing.T) {
		flags := validFlags()
		flags.jobFile = filepath.Join(t.TempDir(), "absent.json")

		_, err := buildJobRecord(flags, noFlagsChanged)
		require.Error(t, err)
	})
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "post")
	assert.Contains(t, names, "extract")
	assert.Equal(t, "smartpost", root.Name())
}
