// -- internal/workflow/poster.go --
package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/api/schemas"
	"github.com/mesaworks/smartpost/internal/browser"
	"github.com/mesaworks/smartpost/internal/config"
)

// Poster holds the per-run state the stages operate on: one session, one
// interactor, and the job record being posted. The job record is read-only
// for the duration of the run.
type Poster struct {
	session *browser.Session
	in      *browser.Interactor
	cfg     *config.Config
	job     schemas.JobRecord
	logger  *zap.Logger
}

// NewPoster binds a job record to a live session.
func NewPoster(session *browser.Session, cfg *config.Config, job schemas.JobRecord, logger *zap.Logger) *Poster {
	return &Poster{
		session: session,
		in:      browser.NewInteractor(session, logger),
		cfg:     cfg,
		job:     job,
		logger:  logger.Named("poster"),
	}
}

// Stages returns the ordered wizard pipeline for one run.
func (p *Poster) Stages() []StageDef {
	return []StageDef{
		{Name: "authenticate", Run: p.Authenticate},
		{Name: "select_posting_cycle", Run: p.SelectPostingCycle},
		{Name: "resolve_company", Run: p.ResolveCompany},
		{Name: "enter_job_title", Run: p.EnterJobTitle},
		{Name: "select_profile_source", Run: p.SelectProfileSource},
		{Name: "enter_location", Run: p.EnterLocation},
		{Name: "select_position_type", Run: p.SelectPositionType},
		{Name: "select_job_function", Run: p.SelectJobFunction},
		{Name: "select_eligibility_category", Run: p.SelectEligibilityCategory},
		{Name: "enter_salary_range", Run: p.EnterSalaryRange},
		{Name: "set_equity_indicator", Run: p.SetEquityIndicator},
		{Name: "fill_salary_breakup", Run: p.FillSalaryBreakup},
		{Name: "fill_job_description", Run: p.FillJobDescription},
		{Name: "submit_profile", Run: p.SubmitProfile},
		{Name: "select_applicable_courses", Run: p.SelectApplicableCourses},
		{Name: "allow_all_eligibility", Run: p.AllowAllEligibility},
		{Name: "configure_hiring_workflow", Run: p.ConfigureHiringWorkflow},
	}
}

// -- shared helpers --

// selectChosen drives a chosen-style dropdown: click the container to open
// the option list, then click the entry with the wanted text.
func (p *Poster) selectChosen(ctx context.Context, dropdown browser.Target, containerID, option string) bool {
	if !p.in.Click(ctx, dropdown) {
		return false
	}
	if !p.in.Click(ctx, chosenOption(containerID, option)) {
		p.logger.Warn("Dropdown option not selectable.",
			zap.String("dropdown", containerID), zap.String("option", option))
		return false
	}
	return true
}

// confirmDialog acknowledges the confirmation dialog the portal raises
// after destructive or submitting actions.
func (p *Poster) confirmDialog(ctx context.Context) bool {
	return p.in.Click(ctx, confirmDialogOK)
}

// navigateSection clicks a wizard tab and waits out the settle delay: the
// portal renders these sections asynchronously after a route change and
// offers no readiness signal.
func (p *Poster) navigateSection(ctx context.Context, tab browser.Target) bool {
	if !p.in.Click(ctx, tab) {
		return false
	}
	p.session.Settle(ctx)
	return true
}

// writeRichText writes into the embedded rich-text editor that follows the
// given label. The editor lives in an iframe; writing requires switching
// focus into that edit surface, and the switch MUST be reverted on every
// exit path so the session never stays stuck in the wrong interaction
// context.
func (p *Poster) writeRichText(ctx context.Context, label, text string) bool {
	strat, ok := p.in.Locator().Resolve(ctx, richTextFrame(label))
	if !ok {
		return false
	}

	if !p.enterEditSurface(ctx, strat) {
		return false
	}
	// Restore runs whether or not the write below succeeds.
	defer p.exitEditSurface(ctx)

	script := fmt.Sprintf(`(function() {
		const frame = %s;
		if (!frame || !frame.contentDocument) { return false; }
		const body = frame.contentDocument.body;
		body.innerHTML = %q;
		body.dispatchEvent(new Event('input', { bubbles: true }));
		if (window.tinymce) { window.tinymce.triggerSave(); }
		return true;
	})()`, strat.JSLocator(), text)

	var written bool
	if err := p.in.Evaluate(ctx, script, &written); err != nil || !written {
		p.logger.Warn("Rich-text write failed.", zap.String("label", label), zap.Error(err))
		return false
	}
	return true
}

// enterEditSurface moves focus into the editor iframe body.
func (p *Poster) enterEditSurface(ctx context.Context, frame browser.Strategy) bool {
	script := fmt.Sprintf(`(function() {
		const frame = %s;
		if (!frame || !frame.contentDocument) { return false; }
		frame.contentDocument.body.focus();
		return true;
	})()`, frame.JSLocator())

	var entered bool
	if err := p.in.Evaluate(ctx, script, &entered); err != nil || !entered {
		p.logger.Warn("Could not enter edit surface.", zap.Error(err))
		return false
	}
	return true
}

// exitEditSurface returns focus to the default document surface.
func (p *Poster) exitEditSurface(ctx context.Context) {
	script := `(function() {
		if (document.activeElement) { document.activeElement.blur(); }
		document.body.focus();
		return true;
	})()`
	if err := p.in.Evaluate(ctx, script, nil); err != nil {
		p.logger.Warn("Could not restore default interaction surface.", zap.Error(err))
	}
}
