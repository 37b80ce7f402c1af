// -- internal/workflow/orchestrator_test.go --
package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/api/schemas"
	"github.com/mesaworks/smartpost/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// -- Mocks --

// mockSession records lifecycle calls so tests can assert the teardown and
// artifact-capture guarantees.
type mockSession struct {
	mu              sync.Mutex
	closeCalls      int
	screenshotCalls []string
	screenshotErr   error
}

func (m *mockSession) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
}

func (m *mockSession) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls > 0
}

func (m *mockSession) Screenshot(_ context.Context, _ string, label string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screenshotErr != nil {
		return "", m.screenshotErr
	}
	m.screenshotCalls = append(m.screenshotCalls, label)
	return "artifacts/" + label + ".png", nil
}

func (m *mockSession) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

func (m *mockSession) ScreenshotLabels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.screenshotCalls...)
}

// -- Fixtures --

type testFixture struct {
	orch    *Orchestrator
	session *mockSession
}

// setupTest builds an orchestrator with a mocked session; each test wires
// its own stage pipeline through openRun.
func setupTest(t *testing.T) *testFixture {
	t.Helper()

	return &testFixture{
		orch:    NewOrchestrator(config.NewDefaultConfig(), zap.NewNop()),
		session: &mockSession{},
	}
}

// stage builds a StageDef that records its execution and returns a fixed
// result.
func stage(name string, ran *[]string, result schemas.StageResult) StageDef {
	return StageDef{
		Name: name,
		Run: func(_ context.Context) schemas.StageResult {
			*ran = append(*ran, name)
			return result
		},
	}
}

func testJob() schemas.JobRecord {
	return schemas.JobRecord{
		CompanyName: "Acme Robotics",
		JobTitle:    "Backend Engineer",
		Location:    "Remote",
		JobFunction: schemas.FunctionSoftwareDevelopment,
		MinSalary:   1200000,
		MaxSalary:   1800000,
		PostedBy:    "ops",
	}
}

// -- Tests --

func TestOrchestratorRun(t *testing.T) {
	t.Run("all stages succeeding yields true in order", func(t *testing.T) {
		var ran []string
		f := setupTest(t)
		f.orch.openRun = func(_ context.Context, _ schemas.JobRecord) (runSession, []StageDef, error) {
			return f.session, []StageDef{
				stage("authenticate", &ran, schemas.OK()),
				stage("resolve_company", &ran, schemas.OK()),
				stage("submit_profile", &ran, schemas.OK()),
			}, nil
		}

		ok := f.orch.Run(context.Background(), testJob())

		assert.True(t, ok)
		assert.Equal(t, []string{"authenticate", "resolve_company", "submit_profile"}, ran)
		assert.Equal(t, 1, f.session.CloseCount(), "session must be torn down exactly once")
		assert.Empty(t, f.session.ScreenshotLabels(), "no artifact on a clean run")
	})

	t.Run("first failure aborts the run without executing later stages", func(t *testing.T) {
		var ran []string
		f := setupTest(t)
		f.orch.openRun = func(_ context.Context, _ schemas.JobRecord) (runSession, []StageDef, error) {
			return f.session, []StageDef{
				stage("authenticate", &ran, schemas.OK()),
				stage("resolve_company", &ran, schemas.Failf("company %q not selectable", "Acme Robotics")),
				stage("submit_profile", &ran, schemas.OK()),
			}, nil
		}

		ok := f.orch.Run(context.Background(), testJob())

		assert.False(t, ok)
		assert.Equal(t, []string{"authenticate", "resolve_company"}, ran,
			"no stage may run after the first failure")
		assert.Equal(t, 1, f.session.CloseCount())
	})

	t.Run("authentication failure stops the pipeline at stage one", func(t *testing.T) {
		var ran []string
		f := setupTest(t)
		f.orch.openRun = func(_ context.Context, _ schemas.JobRecord) (runSession, []StageDef, error) {
			return f.session, []StageDef{
				stage("authenticate", &ran, schemas.Failf("credentials rejected by portal")),
				stage("select_posting_cycle", &ran, schemas.OK()),
			}, nil
		}

		ok := f.orch.Run(context.Background(), testJob())

		assert.False(t, ok)
		assert.Equal(t, []string{"authenticate"}, ran)
	})

	t.Run("failing stage triggers a failure screenshot", func(t *testing.T) {
		var ran []string
		f := setupTest(t)
		f.orch.openRun = func(_ context.Context, _ schemas.JobRecord) (runSession, []StageDef, error) {
			return f.session, []StageDef{
				stage("enter_salary_range", &ran, schemas.Failf("minimum salary not writable")),
			}, nil
		}

		ok := f.orch.Run(context.Background(), testJob())

		assert.False(t, ok)
		require.Len(t, f.session.ScreenshotLabels(), 1)
		assert.Equal(t, "enter_salary_range_error", f.session.ScreenshotLabels()[0])
	})

	t.Run("a panicking stage still tears the session down", func(t *testing.T) {
		var ran []string
		f := setupTest(t)
		f.orch.openRun = func(_ context.Context, _ schemas.JobRecord) (runSession, []StageDef, error) {
			return f.session, []StageDef{
				stage("authenticate", &ran, schemas.OK()),
				{Name: "resolve_company", Run: func(_ context.Context) schemas.StageResult {
					panic("unexpected portal state")
				}},
			}, nil
		}

		ok := f.orch.Run(context.Background(), testJob())

		assert.False(t, ok, "a fault must report overall failure")
		assert.Equal(t, 1, f.session.CloseCount(), "teardown must survive a fault")
	})

	t.Run("session open failure reports false without a pipeline", func(t *testing.T) {
		f := setupTest(t)
		f.orch.openRun = func(_ context.Context, _ schemas.JobRecord) (runSession, []StageDef, error) {
			return nil, nil, assert.AnError
		}

		ok := f.orch.Run(context.Background(), testJob())
		assert.False(t, ok)
	})

	t.Run("screenshot failure does not mask the stage failure", func(t *testing.T) {
		var ran []string
		f := setupTest(t)
		f.session.screenshotErr = assert.AnError
		f.orch.openRun = func(_ context.Context, _ schemas.JobRecord) (runSession, []StageDef, error) {
			return f.session, []StageDef{
				stage("submit_profile", &ran, schemas.Failf("profile submit not clickable")),
			}, nil
		}

		ok := f.orch.Run(context.Background(), testJob())
		assert.False(t, ok)
		assert.Equal(t, 1, f.session.CloseCount())
	})
}

func TestPosterStageList(t *testing.T) {
	p := NewPoster(nil, config.NewDefaultConfig(), testJob(), zap.NewNop())
	stages := p.Stages()

	require.Len(t, stages, 17)

	// Ordering is the contract: each stage's success is a precondition for
	// the next, so the pipeline must come out in wizard order.
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
		require.NotNil(t, s.Run, "stage %s must be bound", s.Name)
	}
	assert.Equal(t, []string{
		"authenticate",
		"select_posting_cycle",
		"resolve_company",
		"enter_job_title",
		"select_profile_source",
		"enter_location",
		"select_position_type",
		"select_job_function",
		"select_eligibility_category",
		"enter_salary_range",
		"set_equity_indicator",
		"fill_salary_breakup",
		"fill_job_description",
		"submit_profile",
		"select_applicable_courses",
		"allow_all_eligibility",
		"configure_hiring_workflow",
	}, names)
}
