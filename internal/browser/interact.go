// -- internal/browser/interact.go --
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// runAction executes chromedp actions; swapped out in tests.
type runAction func(ctx context.Context, actions ...chromedp.Action) error

// Interactor performs resilient page interactions. Every method reports
// success as a boolean and absorbs the underlying error after logging it:
// callers decide what a failed interaction means, the interactor never
// aborts the run on its own.
//
// The native path (real mouse/keyboard events through the devtools
// protocol) is always tried first. When the page intercepts it, a forced
// JavaScript path is used so overlays and custom widgets cannot wedge the
// run.
type Interactor struct {
	session *Session
	locator *Locator
	logger  *zap.Logger
	run     runAction
}

// NewInteractor creates an interactor bound to a session.
func NewInteractor(session *Session, logger *zap.Logger) *Interactor {
	return &Interactor{
		session: session,
		locator: NewLocator(session, logger),
		logger:  logger.Named("interactor"),
		run:     session.Run,
	}
}

// Locator exposes the underlying locator for presence checks.
func (in *Interactor) Locator() *Locator {
	return in.locator
}

// runBounded executes actions under the element wait so a stalled query
// (stale node between resolution and action, a wedged frame) collapses to
// an error instead of blocking the run.
func (in *Interactor) runBounded(ctx context.Context, actions ...chromedp.Action) error {
	boundedCtx, cancel := context.WithTimeout(ctx, in.session.cfg.ElementWait)
	defer cancel()
	return in.run(boundedCtx, actions...)
}

// Click scrolls the target into view and clicks it. On a native click
// failure (typically another element intercepting the event) it falls back
// to a forced JavaScript click.
func (in *Interactor) Click(ctx context.Context, t Target) bool {
	strat, ok := in.locator.Resolve(ctx, t)
	if !ok {
		return false
	}

	err := in.runBounded(ctx, chromedp.Tasks{
		chromedp.ScrollIntoView(strat.Query, strat.queryOption()),
		chromedp.Click(strat.Query, strat.queryOption()),
	})
	if err == nil {
		in.logger.Debug("Clicked.", zap.String("target", t.Name))
		return true
	}

	in.logger.Debug("Native click failed, forcing JS click.",
		zap.String("target", t.Name), zap.Error(err))
	return in.forceClick(ctx, t, strat)
}

// ForceClick clicks the target through JavaScript directly, skipping the
// native path. For elements that are present but deliberately obscured.
func (in *Interactor) ForceClick(ctx context.Context, t Target) bool {
	strat, ok := in.locator.Resolve(ctx, t)
	if !ok {
		return false
	}
	return in.forceClick(ctx, t, strat)
}

func (in *Interactor) forceClick(ctx context.Context, t Target, strat Strategy) bool {
	script := fmt.Sprintf(`(function() {
		const el = %s;
		if (!el) { return false; }
		el.click();
		return true;
	})()`, strat.JSLocator())

	var clicked bool
	if err := in.runBounded(ctx, chromedp.Evaluate(script, &clicked)); err != nil || !clicked {
		in.logger.Warn("Forced JS click failed.",
			zap.String("target", t.Name), zap.Bool("found", clicked), zap.Error(err))
		return false
	}
	in.logger.Debug("Clicked via forced JS.", zap.String("target", t.Name))
	return true
}

// SetText clears the target field and types the text with native key
// events. On failure it falls back to forced value assignment.
func (in *Interactor) SetText(ctx context.Context, t Target, text string) bool {
	strat, ok := in.locator.Resolve(ctx, t)
	if !ok {
		return false
	}

	err := in.runBounded(ctx, chromedp.Tasks{
		chromedp.ScrollIntoView(strat.Query, strat.queryOption()),
		chromedp.Clear(strat.Query, strat.queryOption()),
		chromedp.SendKeys(strat.Query, text, strat.queryOption()),
	})
	if err == nil {
		in.logger.Debug("Text entered.", zap.String("target", t.Name))
		return true
	}

	in.logger.Debug("Native text entry failed, forcing value assignment.",
		zap.String("target", t.Name), zap.Error(err))
	return in.forceSetValue(ctx, t, strat, text)
}

// ForceSetValue assigns the field value through JavaScript and dispatches a
// bubbling 'input' event so framework-bound fields (reactive form widgets)
// observe the change. Used directly for fields that reject synthetic key
// events.
func (in *Interactor) ForceSetValue(ctx context.Context, t Target, value string) bool {
	strat, ok := in.locator.Resolve(ctx, t)
	if !ok {
		return false
	}
	return in.forceSetValue(ctx, t, strat, value)
}

func (in *Interactor) forceSetValue(ctx context.Context, t Target, strat Strategy, value string) bool {
	script := fmt.Sprintf(`(function() {
		const el = %s;
		if (!el) { return false; }
		el.value = %q;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, strat.JSLocator(), value)

	var assigned bool
	if err := in.runBounded(ctx, chromedp.Evaluate(script, &assigned)); err != nil || !assigned {
		in.logger.Warn("Forced value assignment failed.",
			zap.String("target", t.Name), zap.Bool("found", assigned), zap.Error(err))
		return false
	}
	in.logger.Debug("Value assigned via forced JS.", zap.String("target", t.Name))
	return true
}

// SetChecked drives a checkbox or radio to the wanted state, clicking only
// when the current state differs.
func (in *Interactor) SetChecked(ctx context.Context, t Target, want bool) bool {
	strat, ok := in.locator.Resolve(ctx, t)
	if !ok {
		return false
	}

	script := fmt.Sprintf(`(function() {
		const el = %s;
		if (!el) { return null; }
		return el.checked === true;
	})()`, strat.JSLocator())

	var current *bool
	if err := in.runBounded(ctx, chromedp.Evaluate(script, &current)); err != nil || current == nil {
		in.logger.Warn("Could not read checked state.",
			zap.String("target", t.Name), zap.Error(err))
		return false
	}
	if *current == want {
		return true
	}
	return in.Click(ctx, t)
}

// Text reads the trimmed text content of the target.
func (in *Interactor) Text(ctx context.Context, t Target) (string, bool) {
	strat, ok := in.locator.Resolve(ctx, t)
	if !ok {
		return "", false
	}

	var text string
	if err := in.runBounded(ctx, chromedp.Text(strat.Query, &text, strat.queryOption())); err != nil {
		in.logger.Warn("Could not read text.", zap.String("target", t.Name), zap.Error(err))
		return "", false
	}
	return text, true
}

// Evaluate runs a script in the page and optionally unmarshals its result.
// Stage code uses this for interactions no generic helper covers, like
// writing into a rich-text editor iframe.
func (in *Interactor) Evaluate(ctx context.Context, script string, res interface{}) error {
	return in.runBounded(ctx, chromedp.Evaluate(script, res))
}
