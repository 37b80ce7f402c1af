// -- internal/browser/locator.go --
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// By names a selector language for a Strategy.
type By string

const (
	ByCSS   By = "css"
	ByXPath By = "xpath"
)

// Strategy is one way of finding an element on the page.
type Strategy struct {
	By    By
	Query string
}

// queryOption maps the strategy to the chromedp selector mode.
func (s Strategy) queryOption() chromedp.QueryOption {
	if s.By == ByXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// JSLocator returns a JavaScript expression that evaluates to the element,
// or null when absent. Used by the forced-JS interaction paths.
func (s Strategy) JSLocator() string {
	if s.By == ByXPath {
		return fmt.Sprintf(
			`document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
			s.Query)
	}
	return fmt.Sprintf(`document.querySelector(%q)`, s.Query)
}

func (s Strategy) String() string {
	return fmt.Sprintf("%s=%s", s.By, s.Query)
}

// Target is a named page element with an ordered list of strategies for
// finding it. Strategies are tried in order; the first one that yields a
// visible element wins. The order encodes preference, typically from the
// most stable selector to the most brittle.
type Target struct {
	Name       string
	Strategies []Strategy
}

// CSS builds a single-strategy target from a CSS selector.
func CSS(name, query string) Target {
	return Target{Name: name, Strategies: []Strategy{{By: ByCSS, Query: query}}}
}

// XPath builds a single-strategy target from an XPath expression.
func XPath(name, query string) Target {
	return Target{Name: name, Strategies: []Strategy{{By: ByXPath, Query: query}}}
}

// WithFallback returns a copy of the target with extra strategies appended.
func (t Target) WithFallback(strategies ...Strategy) Target {
	out := Target{Name: t.Name, Strategies: append([]Strategy{}, t.Strategies...)}
	out.Strategies = append(out.Strategies, strategies...)
	return out
}

func (t Target) describe() string {
	parts := make([]string, len(t.Strategies))
	for i, s := range t.Strategies {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

// Locator resolves Targets against the live page.
type Locator struct {
	session *Session
	logger  *zap.Logger

	// Runs actions against the page; swapped out in tests.
	run runAction
}

// NewLocator creates a locator bound to a session.
func NewLocator(session *Session, logger *zap.Logger) *Locator {
	return &Locator{
		session: session,
		logger:  logger.Named("locator"),
		run:     session.Run,
	}
}

// Resolve tries each strategy in order, giving each the configured element
// wait, and returns the first strategy under which the element became
// visible. The boolean is false when every strategy timed out.
func (l *Locator) Resolve(ctx context.Context, t Target) (Strategy, bool) {
	return l.resolve(ctx, t, l.session.cfg.ElementWait)
}

// ResolveLong is Resolve with the long wait budget, for elements rendered
// after a route change.
func (l *Locator) ResolveLong(ctx context.Context, t Target) (Strategy, bool) {
	return l.resolve(ctx, t, l.session.cfg.LongWait)
}

// ResolveWithin is Resolve with an explicit per-strategy wait. Used for
// quick presence probes where the configured budgets are too generous.
func (l *Locator) ResolveWithin(ctx context.Context, t Target, wait time.Duration) (Strategy, bool) {
	return l.resolve(ctx, t, wait)
}

func (l *Locator) resolve(ctx context.Context, t Target, wait time.Duration) (Strategy, bool) {
	for i, strat := range t.Strategies {
		if ctx.Err() != nil {
			return Strategy{}, false
		}

		waitCtx, cancel := context.WithTimeout(ctx, wait)
		err := l.run(waitCtx, chromedp.WaitVisible(strat.Query, strat.queryOption()))
		cancel()

		if err == nil {
			if i > 0 {
				l.logger.Debug("Element found via fallback strategy.",
					zap.String("target", t.Name),
					zap.Int("strategy_index", i),
					zap.String("strategy", strat.String()))
			}
			return strat, true
		}
		l.logger.Debug("Strategy did not match, trying next.",
			zap.String("target", t.Name),
			zap.String("strategy", strat.String()),
			zap.Error(err))
	}

	l.logger.Warn("Element not found under any strategy.",
		zap.String("target", t.Name),
		zap.String("strategies", t.describe()))
	return Strategy{}, false
}

// Visible reports whether the target is currently visible, waiting at most
// the element wait. Convenience for presence checks.
func (l *Locator) Visible(ctx context.Context, t Target) bool {
	_, ok := l.Resolve(ctx, t)
	return ok
}
