package pagesource

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/mindtrace/config"
	"github.com/use-agent/mindtrace/models"
)

// Click is one activation of the quiz page's action control, captured before
// the resulting navigation.
type Click struct {
	// AriaLabel is the control's accessible label.
	AriaLabel string

	// Text is the control's visible button text.
	Text string
}

// clickHook installs a delegated pointerdown listener on the page body in the
// capture phase, so activations are observed before the site's own handler
// navigates away. Only the specific action control qualifies.
const clickHook = `() => {
	if (window.__mtHooked) { return; }
	window.__mtHooked = true;
	document.body.addEventListener('pointerdown', (event) => {
		const button = event.target.closest('div.action-row > button.sp-action');
		if (!button) { return; }
		const text = button.querySelector('.button__text');
		window.mindtraceClick({
			aria: button.getAttribute('aria-label') || '',
			text: text ? text.textContent.trim() : '',
		});
	}, true);
}`

// answerStateJS reads every question block's state in-page. Radio selections
// live in the checked IDL property, which DOM serialization never carries, so
// a serialized snapshot always looks unanswered; only an in-page query sees
// the live state.
const answerStateJS = `() => {
	const records = [];
	for (const block of document.querySelectorAll('form[data-quiz] fieldset.question')) {
		const header = block.querySelector('.statement span.header');
		const checked = block.querySelector('input[type="radio"]:checked');
		records.push({
			number: block.getAttribute('data-question'),
			text: header ? header.textContent.trim() : null,
			value: checked ? checked.value : null,
			label: checked ? checked.getAttribute('aria-label') : null,
		});
	}
	return records;
}`

const (
	navigationPollInterval = 200 * time.Millisecond
	navigationTimeout      = 30 * time.Second
)

// Browser is a live page Source backed by a Rod browser session.
type Browser struct {
	browser     *rod.Browser
	page        *rod.Page
	fallbackURL string
}

var _ Source = (*Browser)(nil)

// Launch starts a browser and navigates a fresh tab to pageURL.
func Launch(cfg config.BrowserConfig, pageURL string) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("pagesource: launch browser: %w", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("pagesource: connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.MustClose()
		return nil, fmt.Errorf("pagesource: open page: %w", err)
	}

	if cfg.Stealth {
		// Must be installed before navigation to mask the automation fingerprint.
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth script injection failed, continuing", "error", err)
		}
	}

	if err := page.Navigate(pageURL); err != nil {
		browser.MustClose()
		return nil, fmt.Errorf("pagesource: open %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		slog.Warn("page load wait failed, continuing", "error", err)
	}

	return &Browser{browser: browser, page: page, fallbackURL: pageURL}, nil
}

// URL returns the page's current URL (it changes as the quiz navigates).
func (b *Browser) URL() string {
	info, err := b.page.Info()
	if err != nil || info.URL == "" {
		return b.fallbackURL
	}
	return info.URL
}

// HTML returns the page's current serialized DOM. Fine for the results page,
// whose content is rendered text; quiz answer state must go through Answers.
func (b *Browser) HTML(ctx context.Context) (string, error) {
	return b.page.Context(ctx).HTML()
}

// Answers reads the current answer state of every question block on the live
// page, in block order.
func (b *Browser) Answers(ctx context.Context) ([]models.Answer, error) {
	obj, err := b.page.Context(ctx).Eval(answerStateJS)
	if err != nil {
		return nil, fmt.Errorf("pagesource: read answer state: %w", err)
	}
	return decodeAnswers(obj.Value), nil
}

// decodeAnswers converts in-page answer state into answer records, applying
// the same sentinels the DOM extractor uses.
func decodeAnswers(state gson.JSON) []models.Answer {
	answers := []models.Answer{}
	for _, rec := range state.Arr() {
		number, err := strconv.Atoi(rec.Get("number").Str())
		if err != nil || number < 0 {
			slog.Warn("question block carries no usable index", "dataQuestion", rec.Get("number").Str())
			number = models.QuestionNumberMissing
		}

		questionText := models.QuestionTextMissing
		if text := strings.TrimSpace(rec.Get("text").Str()); !rec.Get("text").Nil() && text != "" {
			questionText = text
		}

		if rec.Get("value").Nil() {
			answers = append(answers, models.Answer{
				QuestionNumber: number,
				QuestionText:   questionText,
				AnswerLabel:    models.NotAnswered,
			})
			continue
		}

		value := rec.Get("value").Str()
		label := models.AnswerLabelMissing
		if !rec.Get("label").Nil() {
			label = rec.Get("label").Str()
		}
		answers = append(answers, models.Answer{
			QuestionNumber: number,
			QuestionText:   questionText,
			AnswerValue:    &value,
			AnswerLabel:    label,
		})
	}
	return answers
}

// OnPath reports whether the current URL contains the given path fragment.
func (b *Browser) OnPath(fragment string) bool {
	return strings.Contains(b.URL(), fragment)
}

// Clicks exposes a binding to the page, installs the delegated click hook,
// and returns a channel of qualifying action-control activations. The hook
// survives in-page re-renders; it must be reinstalled after a full
// navigation (call Clicks again).
func (b *Browser) Clicks(ctx context.Context) (<-chan Click, error) {
	ch := make(chan Click, 8)

	_, err := b.page.Expose("mindtraceClick", func(j gson.JSON) (interface{}, error) {
		click := Click{
			AriaLabel: j.Get("aria").Str(),
			Text:      j.Get("text").Str(),
		}
		select {
		case ch <- click:
		default:
			slog.Warn("click channel full, dropping click", "aria", click.AriaLabel)
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("pagesource: expose click binding: %w", err)
	}

	if _, err := b.page.Context(ctx).Eval(clickHook); err != nil {
		return nil, fmt.Errorf("pagesource: install click hook: %w", err)
	}

	return ch, nil
}

// WaitNavigation blocks until the page's URL contains the given path fragment
// or the context ends. URL polling, not a lifecycle event subscription: the
// navigation can finish before the caller gets here, and a subscription
// installed then would never fire.
func (b *Browser) WaitNavigation(ctx context.Context, fragment string) error {
	return waitForPath(ctx, b.URL, fragment, navigationPollInterval, navigationTimeout)
}

// waitForPath polls current until it contains fragment. The first check runs
// before any tick so an already-completed navigation is caught immediately.
func waitForPath(ctx context.Context, current func() string, fragment string, interval, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if url := current(); strings.Contains(url, fragment) {
			return nil
		} else if time.Now().After(deadline) {
			return fmt.Errorf("pagesource: navigation did not reach %q (at %s)", fragment, url)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.browser.MustClose()
}
