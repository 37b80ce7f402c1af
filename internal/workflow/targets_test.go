// -- internal/workflow/targets_test.go --
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaworks/smartpost/internal/browser"
)

// primary returns the first (preferred) strategy of a target.
func primary(t *testing.T, target browser.Target) browser.Strategy {
	t.Helper()
	require.NotEmpty(t, target.Strategies)
	return target.Strategies[0]
}

// The portal's markup is the contract these targets encode. The assertions
// below pin the handful of selectors that are easy to regress: ids shared
// between unrelated widgets, dropdown entries that only exist after their
// trigger opened, and buttons distinguished by ng-click handler rather
// than text.
func TestPortalTargets(t *testing.T) {
	t.Run("posting cycle entries live behind the add-profile dropdown", func(t *testing.T) {
		assert.Contains(t, primary(t, addProfileDropdown).Query, "Add Job Profile")

		opt := postingCycleOption("Autumn 2026")
		for _, s := range opt.Strategies {
			assert.Contains(t, s.Query, "dropdown-menu",
				"cycle options must be scoped to the opened menu")
			assert.Contains(t, s.Query, "Autumn 2026")
		}
	})

	t.Run("company search and modal fields are distinct elements", func(t *testing.T) {
		search := primary(t, companySearchInput)
		assert.Equal(t, browser.ByCSS, search.By)
		assert.Equal(t, "#campus_placement", search.Query)

		modal := primary(t, companyModalName)
		assert.Equal(t, "#companyName", modal.Query)
	})

	t.Run("company add button is the modal trigger", func(t *testing.T) {
		for _, s := range companyAddButton.Strategies {
			assert.Contains(t, s.Query, "addNewCompany")
		}
	})

	t.Run("company suggestions are scoped to the open dropdown", func(t *testing.T) {
		sug := primary(t, companySuggestion("Initech"))
		assert.Contains(t, sug.Query, "dropdown-menu")
		assert.Contains(t, sug.Query, "Initech")

		entry := primary(t, companyModalListEntry("Initech"))
		assert.Contains(t, entry.Query, "inline-select-list")
	})

	t.Run("posting source is a chosen-style dropdown", func(t *testing.T) {
		drop := primary(t, profileSourceDropdown)
		assert.Equal(t, browser.ByCSS, drop.By)
		assert.Equal(t, ".chosen-container", drop.Query)

		opt := primary(t, profileSourceOption("Off Campus"))
		assert.Contains(t, opt.Query, "active-result")
		assert.Contains(t, opt.Query, "Off Campus")
	})

	t.Run("equity toggle is the checkbox itself", func(t *testing.T) {
		eq := primary(t, equityCheckbox)
		assert.Equal(t, browser.ByCSS, eq.By)
		assert.Equal(t, "#isEquity", eq.Query)
	})

	t.Run("profile form and submit match the creation page", func(t *testing.T) {
		assert.Equal(t, `form[name="createJobProfileForm"]`, primary(t, profileForm).Query)
		assert.Contains(t, primary(t, profileSubmit).Query, "Create New Job Profile")
	})

	t.Run("course selection goes through the edit modal", func(t *testing.T) {
		assert.Contains(t, primary(t, coursesAddButton).Query, "openEditCourseModal")

		first := primary(t, coursesFirstOption)
		assert.Contains(t, first.Query, "selectedCourses")

		save := primary(t, coursesSaveButton)
		assert.Contains(t, save.Query, "modal-footer")
	})

	t.Run("allow-all eligibility keys on the handler, not button text", func(t *testing.T) {
		assert.Contains(t, primary(t, eligibilityAllowAll).Query, "updateAllEligibileIfNoItemsFlag")
	})

	t.Run("hiring stages add via the pre-named card button", func(t *testing.T) {
		add := primary(t, popularStageAdd("Interview"))
		assert.Contains(t, add.Query, "has-light-border")
		assert.Contains(t, add.Query, "addPopularStage")
		assert.Contains(t, add.Query, "Interview")
	})

	t.Run("final submit is the submitJobProfile button", func(t *testing.T) {
		assert.Contains(t, primary(t, workflowSubmit).Query, "submitJobProfile")
	})

	t.Run("confirm dialog falls back to the Yes button", func(t *testing.T) {
		require.GreaterOrEqual(t, len(confirmDialogOK.Strategies), 2)
		assert.Contains(t, confirmDialogOK.Strategies[1].Query, "Yes")
	})
}
