package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Selectors are a contract with the third-party site; compiled once.
var (
	legacyTitleSel    = cascadia.MustCompile("h1.header__title")
	redesignedNameSel = cascadia.MustCompile(".sp-typeheader .h1-phone, .sp-typeheader .h1-large-lgbp")
	redesignedCodeSel = cascadia.MustCompile(".sp-typeheader .code h1")
	traitContainerSel = cascadia.MustCompile(".sp-card--traits, .profile__traits--intl")
	traitBoxSel       = cascadia.MustCompile(".traitbox")
	readyTraitSel     = cascadia.MustCompile(".sp-card--traits .traitbox, .profile__traits--intl .traitbox")
)

// ResultsReady reports whether the results page has finished client-side
// rendering into one of the two known layouts: a title/code element present
// under either layout's selectors, and at least five trait widgets rendered.
func ResultsReady(doc *goquery.Document) bool {
	titleLoaded := doc.FindMatcher(legacyTitleSel).Length() > 0 ||
		(doc.FindMatcher(redesignedNameSel).Length() > 0 &&
			doc.FindMatcher(redesignedCodeSel).Length() > 0)

	traitsLoaded := doc.FindMatcher(readyTraitSel).Length() >= 5

	return titleLoaded && traitsLoaded
}
