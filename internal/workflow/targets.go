// -- internal/workflow/targets.go --
package workflow

import (
	"fmt"

	"github.com/mesaworks/smartpost/internal/browser"
)

// Logical targets on the posting portal. Each carries the selectors known
// to work, ordered from the most stable to the most brittle; the locator
// tries them first-match-wins. The portal renders similar widgets with
// inconsistent markup, so several targets need an xpath fallback keyed on
// visible text or an ng-click handler.
var (
	loginEmail    = browser.CSS("login_email", "#email")
	loginPassword = browser.CSS("login_password", "#password")
	loginSubmit   = browser.CSS("login_submit", `button[type="submit"]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//button[contains(normalize-space(), "Login")]`},
	)
	loginErrorBanner = browser.CSS("login_error_banner", ".alert-danger").WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//div[contains(@class, "error")]`},
	)
	// Rendered only after a successful login; the post-login marker.
	dashboardContainer = browser.CSS("dashboard_container", "#ui_container")

	// The posting cycle menu is a dropdown behind this button; its entries
	// stay hidden until the button is clicked.
	addProfileDropdown = browser.XPath("add_profile_dropdown", `//button[contains(normalize-space(), "Add Job Profile")]`)

	companySearchInput = browser.CSS("company_search_input", "#campus_placement")
	companyAddButton   = browser.XPath("company_add_button", `//button[@type="button" and @ng-click="addNewCompany(true);"]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//button[contains(@ng-click, "addNewCompany")]`},
	)
	// The creation modal has its own name field, distinct from the search box.
	companyModalName   = browser.CSS("company_modal_name", "#companyName")
	companyModalSubmit = browser.XPath("company_modal_submit", `//button[@type="submit" and normalize-space()="Add Company"]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//div[contains(@class, "modal")]//button[contains(normalize-space(), "Add Company")]`},
	)
	companyAddedToast = browser.XPath("company_added_toast", `//div[@class="toast-message" and text()="Company added successfully."]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//*[contains(text(), "Company added successfully.")]`},
	)

	jobTitleInput = browser.CSS("job_title_input", "#title")
	locationInput = browser.CSS("location_input", "#location")

	// The posting source is a chosen-style dropdown with no stable id.
	profileSourceDropdown = browser.CSS("profile_source_dropdown", ".chosen-container")

	positionTypeDropdown = browser.CSS("position_type_dropdown", "#position_type_chosen")
	jobFunctionDropdown  = browser.CSS("job_function_dropdown", "#sectorCode_chosen")
	eligibilityDropdown  = browser.CSS("eligibility_dropdown", "#jpCategory_chosen")

	salaryRangeMode = browser.XPath("salary_range_mode", `//div[normalize-space()="Specify Range"]`)
	salaryMinInput  = browser.CSS("salary_min_input", "#ctcMin")
	salaryMaxInput  = browser.CSS("salary_max_input", "#ctcMax")
	equityCheckbox  = browser.CSS("equity_checkbox", "#isEquity")

	profileForm   = browser.CSS("profile_form", `form[name="createJobProfileForm"]`)
	profileSubmit = browser.XPath("profile_submit", `//button[contains(normalize-space(), "Create New Job Profile")]`)

	coursesTab = browser.XPath("courses_tab", `//a[@href="#jp-applicable-courses"]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//span[contains(text(), "Select applicable courses")]`},
		browser.Strategy{By: browser.ByCSS, Query: `a[href="#jp-applicable-courses"]`},
	)
	coursesAddButton = browser.XPath("courses_add_button", `//button[contains(@ng-click, "openEditCourseModal")]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//button[contains(normalize-space(), "Add Eligible Courses")]`},
	)
	// The course list lives in the spawned modal, not under the section tab.
	coursesFirstOption = browser.CSS("courses_first_option", `input[type="checkbox"][checklist-model="selectedCourses"]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//div[contains(@class, "modal-dialog")]//input[@type="checkbox"]`},
	)
	coursesSaveButton = browser.XPath("courses_save_button", `//div[contains(@class, "modal-footer")]//button[contains(@class, "btn-primary") and contains(normalize-space(), "Save")]`).WithFallback(
		browser.Strategy{By: browser.ByCSS, Query: ".modal-footer .btn-primary"},
	)

	eligibilityTab = browser.XPath("eligibility_tab", `//a[@href="#jp-eligibility-criteria"]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//span[contains(text(), "Set eligibility criteria")]`},
		browser.Strategy{By: browser.ByCSS, Query: `a[href="#jp-eligibility-criteria"]`},
	)
	eligibilityAllowAll = browser.XPath("eligibility_allow_all", `//button[contains(@ng-click, "updateAllEligibileIfNoItemsFlag")]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//button[contains(normalize-space(), "Allow all students")]`},
	)

	stagesTab = browser.XPath("stages_tab", `//a[@href="#jp-stages"]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//span[contains(text(), "Setup hiring workflow")]`},
		browser.Strategy{By: browser.ByCSS, Query: `a[href="#jp-stages"]`},
	)
	workflowSubmit = browser.XPath("workflow_submit", `//button[contains(@class, "btn-success") and contains(@ng-click, "submitJobProfile")]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//button[contains(normalize-space(), "Submit Now")]`},
	)

	confirmDialogOK = browser.XPath("confirm_dialog_ok", `//div[contains(@class, "modal-footer")]//button[contains(normalize-space(), "OK")]`).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: `//button[normalize-space()="Yes" and contains(@class, "btn-primary")]`},
		browser.Strategy{By: browser.ByCSS, Query: ".modal .btn-primary"},
	)
	pageErrorBanner = browser.CSS("page_error_banner", ".alert-danger")
)

// postingCycleOption is the menu entry for the configured cycle, scoped to
// the opened dropdown.
func postingCycleOption(cycle string) browser.Target {
	return browser.XPath("posting_cycle_option",
		fmt.Sprintf(`//ul[contains(@class, "dropdown-menu")]//a[contains(normalize-space(), %q)]`, cycle)).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: fmt.Sprintf(`//ul[contains(@class, "dropdown-menu")]//li[contains(normalize-space(), %q)]`, cycle)},
	)
}

// companySuggestion is the dropdown entry matching a searched company.
func companySuggestion(name string) browser.Target {
	return browser.XPath("company_suggestion",
		fmt.Sprintf(`//ul[contains(@class, "dropdown-menu")]/li/a[contains(normalize-space(), %q)]`, name)).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: fmt.Sprintf(`//li[contains(normalize-space(), %q)]`, name)},
	)
}

// companyModalListEntry matches the company inside the creation modal's
// candidate list.
func companyModalListEntry(name string) browser.Target {
	return browser.XPath("company_modal_list_entry",
		fmt.Sprintf(`//ul[contains(@class, "inline-select-list")]/li[contains(normalize-space(), %q)]`, name))
}

// profileSourceOption is an entry in the opened posting-source dropdown.
// The last-resort fallback takes the first rendered option, matching the
// portal's single-entry list for this widget.
func profileSourceOption(option string) browser.Target {
	return browser.XPath("profile_source_option",
		fmt.Sprintf(`//li[contains(@class, "active-result") and contains(normalize-space(), %q)]`, option)).WithFallback(
		browser.Strategy{By: browser.ByCSS, Query: ".active-result"},
	)
}

// chosenOption is an entry inside an opened chosen-style dropdown.
func chosenOption(containerID, option string) browser.Target {
	return browser.XPath("chosen_option",
		fmt.Sprintf(`//div[@id=%q]//li[normalize-space()=%q]`, containerID, option)).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: fmt.Sprintf(`//div[@id=%q]//li[contains(normalize-space(), %q)]`, containerID, option)},
	)
}

// popularStageAdd is the add button inside the pre-named stage card for
// one hiring stage. The cards come pre-rendered; adding a stage is one
// click, no typing.
func popularStageAdd(name string) browser.Target {
	return browser.XPath("popular_stage_add",
		fmt.Sprintf(`//div[contains(@class, "has-light-border") and contains(text(), %q)]//button[contains(@ng-click, "addPopularStage")]`, name))
}

// richTextFrame finds the editor iframe that follows a labelled rich-text
// field. The portal embeds one editor per labelled section; the iframe id
// is generated but always carries the "_ifr" suffix.
func richTextFrame(label string) browser.Target {
	return browser.XPath("richtext_frame",
		fmt.Sprintf(`//label[contains(normalize-space(), %q)]/following::iframe[contains(@id, "_ifr")][1]`, label)).WithFallback(
		browser.Strategy{By: browser.ByXPath, Query: fmt.Sprintf(`//*[contains(normalize-space(), %q)]/following::iframe[contains(@id, "_ifr")][1]`, label)},
	)
}
