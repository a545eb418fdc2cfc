// Package extract parses the personality-test site's rendered pages into
// canonical records. The site ships two materially different DOM layouts for
// the same content; each is handled by a layout recognizer and recognizers
// are tried in a fixed order, first match wins.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// layout recognizes one DOM variant. Both methods are best-effort: ok=false
// means "this widget/page is not in my layout", never an error.
type layout interface {
	name() string

	// title extracts the combined result label and the MBTI code from the
	// page header. code may be empty when the heading carries no code.
	title(doc *goquery.Document) (label, code string, ok bool)

	// trait parses one trait widget into its category name, percent, and
	// type label. typeLabel may be empty when the page does not carry one.
	trait(box *goquery.Selection) (traitName string, percent int, typeLabel string, ok bool)
}

// layouts is the fixed recognition order: legacy markup first, then the
// redesigned markup. Adding a future variant means adding one entry here.
var layouts = []layout{legacyLayout{}, redesignedLayout{}}

var (
	codePattern  = regexp.MustCompile(`\(([^)]+)\)`)
	labelPattern = regexp.MustCompile(`^(\w+):`)
)

// colorToTrait maps the redesigned layout's percent-element color classes to
// trait categories. This is the site's fixed visual convention; do not extend
// or reorder it.
var colorToTrait = map[string]string{
	"color--blue":   "energy",
	"color--yellow": "mind",
	"color--green":  "nature",
	"color--purple": "tactics",
	"color--red":    "identity",
	"text--blue":    "energy",
	"text--yellow":  "mind",
	"text--green":   "nature",
	"text--purple":  "tactics",
	"text--red":     "identity",
}

// legacyLayout is the original markup: a single combined heading and
// label/value trait boxes.
type legacyLayout struct{}

func (legacyLayout) name() string { return "legacy" }

func (legacyLayout) title(doc *goquery.Document) (string, string, bool) {
	heading := doc.Find("h1.header__title").First()
	if heading.Length() == 0 {
		return "", "", false
	}

	label := strings.TrimSpace(heading.Text())
	code := ""
	if m := codePattern.FindStringSubmatch(label); m != nil {
		code = m[1]
	}
	return label, code, true
}

func (legacyLayout) trait(box *goquery.Selection) (string, int, string, bool) {
	text := box.Find(".traitbox__text").First()
	labelEl := text.Find(".traitbox__label").First()
	valueEl := text.Find(".traitbox__value").First()
	percentSpan := valueEl.Find(`span[class*="text--"]`).First()
	if text.Length() == 0 || labelEl.Length() == 0 || valueEl.Length() == 0 || percentSpan.Length() == 0 {
		return "", 0, "", false
	}

	m := labelPattern.FindStringSubmatch(strings.TrimSpace(labelEl.Text()))
	if m == nil {
		return "", 0, "", false
	}
	traitName := strings.ToLower(m[1])

	percent, err := parsePercent(percentSpan.Text())
	if err != nil {
		return "", 0, "", false
	}

	// The type label is the value text left over once the percent span's
	// contribution is removed, e.g. "75% Introverted" -> "Introverted".
	typeLabel := strings.TrimSpace(strings.TrimPrefix(
		strings.TrimSpace(valueEl.Text()),
		strings.TrimSpace(percentSpan.Text()),
	))

	return traitName, percent, typeLabel, true
}

// redesignedLayout is the current markup: split name/code headings and bar
// labels whose color class identifies the trait.
type redesignedLayout struct{}

func (redesignedLayout) name() string { return "redesigned" }

func (redesignedLayout) title(doc *goquery.Document) (string, string, bool) {
	nameEl := doc.Find(".sp-typeheader .h1-phone, .sp-typeheader .h1-large-lgbp").First()
	codeEl := doc.Find(".sp-typeheader .code h1").First()
	if nameEl.Length() == 0 || codeEl.Length() == 0 {
		return "", "", false
	}

	code := strings.TrimSpace(codeEl.Text())
	label := strings.TrimSpace(nameEl.Text()) + " (" + code + ")"
	return label, code, true
}

func (redesignedLayout) trait(box *goquery.Selection) (string, int, string, bool) {
	percentEl := box.Find(`.sp-barlabel strong[class*="color--"]`).First()
	if percentEl.Length() == 0 {
		return "", 0, "", false
	}

	percent, err := parsePercent(percentEl.Text())
	if err != nil {
		return "", 0, "", false
	}

	traitName := ""
	if class, exists := percentEl.Attr("class"); exists {
		for _, c := range strings.Fields(class) {
			if t, ok := colorToTrait[c]; ok {
				traitName = t
				break
			}
		}
	}
	if traitName == "" {
		return "", 0, "", false
	}

	// The type label lives in the text nodes trailing the percent element.
	// Brittle (depends on text-node ordering); the code-derived fallback in
	// ExtractResult covers the empty case.
	typeLabel := trailingText(percentEl)

	return traitName, percent, typeLabel, true
}

// trailingText collects the text-node siblings following sel's first node,
// trimmed of whitespace and separator punctuation.
func trailingText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for n := sel.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	}
	return strings.Trim(strings.TrimSpace(b.String()), "-–— ")
}

func parsePercent(text string) (int, error) {
	return strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(text), "%"))
}
