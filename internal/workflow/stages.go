// -- internal/workflow/stages.go --
package workflow

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/api/schemas"
)

// Authenticate loads the portal, submits credentials, and verifies the
// post-login marker. An error banner means the credentials were rejected;
// that is fatal immediately, no retry.
func (p *Poster) Authenticate(ctx context.Context) schemas.StageResult {
	if err := p.session.Navigate(ctx, p.cfg.Target.URL); err != nil {
		return schemas.Failf("could not load portal: %v", err)
	}

	if !p.in.SetText(ctx, loginEmail, p.cfg.Target.Username) {
		return schemas.Failf("username field not interactable")
	}
	if !p.in.SetText(ctx, loginPassword, p.cfg.Target.Password) {
		return schemas.Failf("password field not interactable")
	}
	if !p.in.Click(ctx, loginSubmit) {
		return schemas.Failf("login button not clickable")
	}

	// Rejected credentials surface as an error banner within a couple of
	// seconds. Probe for it briefly before committing to the long dashboard
	// wait so bad credentials fail fast.
	if _, rejected := p.in.Locator().ResolveWithin(ctx, loginErrorBanner, 2*time.Second); rejected {
		return schemas.Failf("credentials rejected by portal")
	}

	// The dashboard renders asynchronously; give it the long wait.
	if _, ok := p.in.Locator().ResolveLong(ctx, dashboardContainer); !ok {
		return schemas.Failf("post-login marker never appeared")
	}

	p.logger.Info("Authenticated.", zap.String("user", p.cfg.Target.Username))
	return schemas.OK()
}

// SelectPostingCycle opens the job profile menu and picks the active
// placement cycle. The menu entries stay hidden until the dropdown button
// is clicked, so the open click comes first.
func (p *Poster) SelectPostingCycle(ctx context.Context) schemas.StageResult {
	if !p.in.Click(ctx, addProfileDropdown) {
		return schemas.Failf("job profile menu not clickable")
	}
	cycle := p.cfg.Target.PostingCycle
	if !p.in.Click(ctx, postingCycleOption(cycle)) {
		return schemas.Failf("posting cycle %q not found in menu", cycle)
	}
	p.session.Settle(ctx)
	return schemas.OK()
}

// ResolveCompany searches the company by name and selects the matching
// suggestion. When no suggestion appears, it creates the company through
// the modal sub-flow exactly once, then re-searches and selects. Selecting
// after creation never re-triggers creation.
func (p *Poster) ResolveCompany(ctx context.Context) schemas.StageResult {
	name := p.job.CompanyName

	if p.searchAndSelectCompany(ctx, name) {
		return schemas.OK()
	}

	p.logger.Info("Company not found, creating it.", zap.String("company", name))
	if res := p.createCompany(ctx, name); !res.Success() {
		return res
	}

	if !p.searchAndSelectCompany(ctx, name) {
		return schemas.Failf("company %q not selectable after creation", name)
	}
	return schemas.OK()
}

// searchAndSelectCompany types the name into the search field and clicks
// the matching autocomplete entry.
func (p *Poster) searchAndSelectCompany(ctx context.Context, name string) bool {
	if !p.in.SetText(ctx, companySearchInput, name) {
		return false
	}
	return p.in.Click(ctx, companySuggestion(name))
}

// createCompany runs the secondary modal sub-flow and verifies the success
// toast before returning.
func (p *Poster) createCompany(ctx context.Context, name string) schemas.StageResult {
	if !p.in.Click(ctx, companyAddButton) {
		return schemas.Failf("company creation modal not reachable")
	}
	if !p.in.SetText(ctx, companyModalName, name) {
		return schemas.Failf("company name field in modal not interactable")
	}
	// The modal lists candidate companies as you type. Selecting the exact
	// entry is optional; the submit below works either way.
	if !p.in.Click(ctx, companyModalListEntry(name)) {
		p.logger.Debug("No exact company entry in the modal list.", zap.String("company", name))
	}
	if !p.in.Click(ctx, companyModalSubmit) {
		return schemas.Failf("company modal submit not clickable")
	}
	if _, ok := p.in.Locator().Resolve(ctx, companyAddedToast); !ok {
		return schemas.Failf("company creation not confirmed by portal")
	}
	p.session.Settle(ctx)
	return schemas.OK()
}

// EnterJobTitle populates the title field.
func (p *Poster) EnterJobTitle(ctx context.Context) schemas.StageResult {
	if !p.in.SetText(ctx, jobTitleInput, p.job.JobTitle) {
		return schemas.Failf("job title field not interactable")
	}
	return schemas.OK()
}

// SelectProfileSource selects the fixed posting-source category from its
// chosen-style dropdown.
func (p *Poster) SelectProfileSource(ctx context.Context) schemas.StageResult {
	want := p.cfg.Workflow.ProfileSource
	if !p.in.Click(ctx, profileSourceDropdown) {
		return schemas.Failf("profile source dropdown not clickable")
	}
	if !p.in.Click(ctx, profileSourceOption(want)) {
		return schemas.Failf("profile source %q not selectable", want)
	}
	return schemas.OK()
}

// EnterLocation populates the location field.
func (p *Poster) EnterLocation(ctx context.Context) schemas.StageResult {
	if !p.in.SetText(ctx, locationInput, p.job.Location) {
		return schemas.Failf("location field not interactable")
	}
	return schemas.OK()
}

// SelectPositionType picks the fixed employment type.
func (p *Poster) SelectPositionType(ctx context.Context) schemas.StageResult {
	want := p.cfg.Workflow.PositionType
	if !p.selectChosen(ctx, positionTypeDropdown, "position_type_chosen", want) {
		return schemas.Failf("position type %q not selectable", want)
	}
	return schemas.OK()
}

// SelectJobFunction picks the job function category from the record.
func (p *Poster) SelectJobFunction(ctx context.Context) schemas.StageResult {
	want := string(p.job.JobFunction)
	if !p.selectChosen(ctx, jobFunctionDropdown, "sectorCode_chosen", want) {
		return schemas.Failf("job function %q not selectable", want)
	}
	return schemas.OK()
}

// SelectEligibilityCategory picks the fixed eligibility default.
func (p *Poster) SelectEligibilityCategory(ctx context.Context) schemas.StageResult {
	want := p.cfg.Workflow.EligibilityCategory
	if !p.selectChosen(ctx, eligibilityDropdown, "jpCategory_chosen", want) {
		return schemas.Failf("eligibility category %q not selectable", want)
	}
	return schemas.OK()
}

// EnterSalaryRange switches the compensation widget into range mode and
// writes both bounds. The widget is framework-bound and drops native key
// events, so the values go in through forced assignment; the dispatched
// input event keeps the reactive state in sync.
func (p *Poster) EnterSalaryRange(ctx context.Context) schemas.StageResult {
	if !p.in.Click(ctx, salaryRangeMode) {
		return schemas.Failf("salary range mode not selectable")
	}
	if !p.in.ForceSetValue(ctx, salaryMinInput, strconv.Itoa(p.job.MinSalary)) {
		return schemas.Failf("minimum salary not writable")
	}
	if !p.in.ForceSetValue(ctx, salaryMaxInput, strconv.Itoa(p.job.MaxSalary)) {
		return schemas.Failf("maximum salary not writable")
	}
	return schemas.OK()
}

// SetEquityIndicator toggles the equity indicator. The checkbox is styled
// to intercept native clicks, so it goes through the forced path directly.
func (p *Poster) SetEquityIndicator(ctx context.Context) schemas.StageResult {
	if !p.in.ForceClick(ctx, equityCheckbox) {
		return schemas.Failf("equity indicator not clickable")
	}
	return schemas.OK()
}

// FillSalaryBreakup writes the salary breakdown into its rich-text editor.
func (p *Poster) FillSalaryBreakup(ctx context.Context) schemas.StageResult {
	if !p.writeRichText(ctx, "Salary break-up / Additional Compensation", p.job.SalaryBreakup) {
		return schemas.Failf("salary breakup editor not writable")
	}
	return schemas.OK()
}

// FillJobDescription writes the description into its rich-text editor.
func (p *Poster) FillJobDescription(ctx context.Context) schemas.StageResult {
	if !p.writeRichText(ctx, "Job Description", p.job.JobDescription) {
		return schemas.Failf("job description editor not writable")
	}
	return schemas.OK()
}

// SubmitProfile submits the profile creation form, confirms the dialog,
// and waits for the follow-on wizard tabs to render.
func (p *Poster) SubmitProfile(ctx context.Context) schemas.StageResult {
	if _, ok := p.in.Locator().Resolve(ctx, profileForm); !ok {
		return schemas.Failf("profile form not present at submit time")
	}
	if !p.in.Click(ctx, profileSubmit) {
		return schemas.Failf("profile submit not clickable")
	}
	if !p.confirmDialog(ctx) {
		return schemas.Failf("profile submission dialog not confirmed")
	}
	// The courses tab appearing is the confirmation marker that the
	// profile was created and the post-submit wizard is live.
	if _, ok := p.in.Locator().ResolveLong(ctx, coursesTab); !ok {
		return schemas.Failf("post-submit wizard never rendered")
	}
	p.logger.Info("Job profile created.", zap.String("title", p.job.JobTitle))
	return schemas.OK()
}

// SelectApplicableCourses opens the courses section, opens the course
// selection dialog, selects at least one course, and saves.
func (p *Poster) SelectApplicableCourses(ctx context.Context) schemas.StageResult {
	if !p.navigateSection(ctx, coursesTab) {
		return schemas.Failf("applicable courses section not reachable")
	}
	if !p.in.Click(ctx, coursesAddButton) {
		return schemas.Failf("course selection dialog not reachable")
	}
	if !p.in.SetChecked(ctx, coursesFirstOption, true) {
		return schemas.Failf("no course selectable")
	}
	if !p.in.Click(ctx, coursesSaveButton) {
		return schemas.Failf("courses selection not savable")
	}
	p.session.Settle(ctx)
	return schemas.OK()
}

// AllowAllEligibility opens the eligibility section and applies the
// allow-all action.
func (p *Poster) AllowAllEligibility(ctx context.Context) schemas.StageResult {
	if !p.navigateSection(ctx, eligibilityTab) {
		return schemas.Failf("eligibility section not reachable")
	}
	if !p.in.Click(ctx, eligibilityAllowAll) {
		return schemas.Failf("allow-all control not clickable")
	}
	if !p.confirmDialog(ctx) {
		return schemas.Failf("allow-all dialog not confirmed")
	}
	p.session.Settle(ctx)
	return schemas.OK()
}

// ConfigureHiringWorkflow adds the configured interview stages in order,
// then submits the completed profile. Each stage comes as a pre-named card
// with its own add button; adding is one click per stage, no typing.
//
// The portal shows no positive confirmation after the final submit;
// success is inferred from the absence of an error banner. That is a weak
// postcondition and a known reliability gap, logged as a warning on every
// run rather than silently trusted.
func (p *Poster) ConfigureHiringWorkflow(ctx context.Context) schemas.StageResult {
	if !p.navigateSection(ctx, stagesTab) {
		return schemas.Failf("hiring workflow section not reachable")
	}

	for _, stageName := range p.cfg.Workflow.HiringStages {
		if !p.in.Click(ctx, popularStageAdd(stageName)) {
			return schemas.Failf("could not add hiring stage %q", stageName)
		}
		p.logger.Debug("Hiring stage added.", zap.String("stage", stageName))
		p.session.Settle(ctx)
	}

	if !p.in.Click(ctx, workflowSubmit) {
		return schemas.Failf("final submit not clickable")
	}
	if !p.confirmDialog(ctx) {
		return schemas.Failf("final submission dialog not confirmed")
	}
	p.session.Settle(ctx)

	if _, errored := p.in.Locator().Resolve(ctx, pageErrorBanner); errored {
		return schemas.Failf("portal reported an error after final submission")
	}
	p.logger.Warn("Final submission verified only by absence of an error banner.")
	return schemas.OK()
}
