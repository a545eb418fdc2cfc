package extract

import (
	"strings"

	"github.com/use-agent/mindtrace/models"
)

// polesByPosition maps each MBTI code position to its trait category and the
// full pole word per letter.
var polesByPosition = []struct {
	trait string
	poles map[byte]string
}{
	{models.TraitMind, map[byte]string{'I': "Introverted", 'E': "Extraverted"}},
	{models.TraitEnergy, map[byte]string{'N': "Intuitive", 'S': "Observant"}},
	{models.TraitNature, map[byte]string{'T': "Thinking", 'F': "Feeling"}},
	{models.TraitTactics, map[byte]string{'J': "Judging", 'P': "Prospecting"}},
}

var identityPoles = map[string]string{
	"A": "Assertive",
	"T": "Turbulent",
}

// TypesFromCode derives each trait's pole word from an MBTI code such as
// "INTJ-A". Unrecognized letters are simply absent from the returned map.
// This is a secondary path: primary type labels come from the rendered trait
// widgets, and the two should agree.
func TypesFromCode(code string) map[string]string {
	types := make(map[string]string, 5)

	for i, pos := range polesByPosition {
		if len(code) <= i {
			break
		}
		if pole, ok := pos.poles[code[i]]; ok {
			types[pos.trait] = pole
		}
	}

	if _, variant, found := strings.Cut(code, "-"); found {
		if pole, ok := identityPoles[variant]; ok {
			types[models.TraitIdentity] = pole
		}
	}

	return types
}
