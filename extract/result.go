package extract

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/mindtrace/models"
)

// ExtractResult parses a ready results page into a Result record. It never
// fails: whatever the recognizers cannot read stays nil/empty, and the caller
// judges completeness before transmitting.
func ExtractResult(doc *goquery.Document, pageURL string) *models.Result {
	result := &models.Result{ProfileURL: pageURL}

	extractTitle(doc, result)
	extractTraits(doc, result)

	// Secondary path: where a trait's type label could not be read from the
	// page, derive the pole from the MBTI code letters.
	if result.MBTICode != "" {
		for traitName, pole := range TypesFromCode(result.MBTICode) {
			t := result.Traits.Get(traitName)
			if t != nil && t.Type == nil {
				p := pole
				t.Type = &p
			}
		}
	}

	return result
}

func extractTitle(doc *goquery.Document, result *models.Result) {
	for _, l := range layouts {
		if label, code, ok := l.title(doc); ok {
			result.MBTIResult = label
			result.MBTICode = code
			slog.Debug("extracted result title", "layout", l.name(), "code", code)
			return
		}
	}
	slog.Warn("could not find result title/code elements using known layouts")
}

func extractTraits(doc *goquery.Document, result *models.Result) {
	container := doc.FindMatcher(traitContainerSel).First()
	if container.Length() == 0 {
		slog.Warn("could not find trait container element")
		return
	}

	container.FindMatcher(traitBoxSel).Each(func(i int, box *goquery.Selection) {
		for _, l := range layouts {
			traitName, percent, typeLabel, ok := l.trait(box)
			if !ok {
				continue
			}

			t := result.Traits.Get(traitName)
			if t == nil {
				slog.Warn("trait widget names unknown trait", "index", i, "trait", traitName)
				return
			}
			p := percent
			t.Percent = &p
			if typeLabel != "" {
				tl := typeLabel
				t.Type = &tl
			}
			slog.Debug("extracted trait", "layout", l.name(), "trait", traitName, "percent", percent)
			return
		}
		slog.Warn("trait widget matched no known layout", "index", i)
	})
}
