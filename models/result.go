package models

// The five trait categories of a result, in the site's display order.
const (
	TraitMind     = "mind"
	TraitEnergy   = "energy"
	TraitNature   = "nature"
	TraitTactics  = "tactics"
	TraitIdentity = "identity"
)

// TraitNames lists all five categories.
var TraitNames = []string{TraitMind, TraitEnergy, TraitNature, TraitTactics, TraitIdentity}

// Trait is one scored dimension of a result. Percent and Type stay nil until
// extraction populates them; either may remain nil on a partial extraction.
type Trait struct {
	Percent *int    `json:"percent"`
	Type    *string `json:"type"`
}

// Populated reports whether both fields were extracted.
func (t Trait) Populated() bool {
	return t.Percent != nil && t.Type != nil
}

// TraitSet holds all five trait categories.
type TraitSet struct {
	Mind     Trait `json:"mind"`
	Energy   Trait `json:"energy"`
	Nature   Trait `json:"nature"`
	Tactics  Trait `json:"tactics"`
	Identity Trait `json:"identity"`
}

// Get returns a pointer to the named trait, or nil for an unknown name.
func (ts *TraitSet) Get(name string) *Trait {
	switch name {
	case TraitMind:
		return &ts.Mind
	case TraitEnergy:
		return &ts.Energy
	case TraitNature:
		return &ts.Nature
	case TraitTactics:
		return &ts.Tactics
	case TraitIdentity:
		return &ts.Identity
	}
	return nil
}

// Result is the canonical record extracted from a profile page. Fields are
// best-effort populated; Complete decides whether it may be transmitted.
type Result struct {
	// MBTIResult is the human-readable label with code, e.g. "Architect (INTJ-A)".
	MBTIResult string

	// MBTICode is the four-letter-plus-variant code, e.g. "INTJ-A".
	MBTICode string

	// ProfileURL is the canonical URL the result was read from.
	ProfileURL string

	Traits TraitSet
}

// Complete reports whether the record may be transmitted: label and code
// present, and every trait carrying both a percent and a type.
func (r *Result) Complete() bool {
	if r.MBTIResult == "" || r.MBTICode == "" {
		return false
	}
	for _, name := range TraitNames {
		if !r.Traits.Get(name).Populated() {
			return false
		}
	}
	return true
}
