package prompt

import "fmt"

// defaultDemonyms covers the countries the attribute-addition sweep ships
// with; config can extend or override the set.
var defaultDemonyms = map[string]string{
	"korea":         "Korean",
	"china":         "Chinese",
	"india":         "Indian",
	"kenya":         "Kenyan",
	"nigeria":       "Nigerian",
	"united_states": "American",
}

// Demonym returns the adjective form for a country token.
func Demonym(token string) (string, bool) {
	d, ok := defaultDemonyms[token]
	return d, ok
}

// ChainInstructions returns the fixed ordered edit instructions for a
// multi-step attribute-addition chain: background, signage, food in hand,
// attire, accessories. Each step's output feeds the next step's input, so the
// order is part of the contract.
func ChainInstructions(countryPhrase, demonym string) []string {
	return []string{
		fmt.Sprintf("Change the background to depict the capital of %s.", countryPhrase),
		fmt.Sprintf("Add a sign in the top-right corner that displays the name of %s's capital in %s's official language.", countryPhrase, countryPhrase),
		fmt.Sprintf("Hold a representative %s food in hand.", demonym),
		fmt.Sprintf("Put on modern %s clothing.", demonym),
		fmt.Sprintf("Add traditional %s accessories.", demonym),
	}
}
