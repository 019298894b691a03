package chem

import "regexp"

// Token boundaries that must never be split mid-token: bracket atoms,
// two-digit ring closures, and the two-letter organic-subset halogens.
var (
	reBrackets   = regexp.MustCompile(`(\[[^\]]*\])`)
	re2RingNums  = regexp.MustCompile(`(%\d{2})`)
	reBrCl       = regexp.MustCompile(`(Br|Cl)`)
	tokenizerRes = []*regexp.Regexp{reBrackets, re2RingNums, reBrCl}
)

// Tokenize splits a SMILES string into its lexical tokens: bracket atoms,
// two-digit ring-closure labels, Br/Cl, and single characters for everything
// else.  It performs no chemical validation; the parser rejects tokens it
// does not understand.
func Tokenize(smiles string) []string {
	return splitBy(smiles, tokenizerRes)
}

func splitBy(s string, res []*regexp.Regexp) []string {
	if len(res) == 0 {
		tokens := make([]string, 0, len(s))
		for _, r := range s {
			tokens = append(tokens, string(r))
		}
		return tokens
	}
	parts := res[0].Split(s, -1)
	matches := res[0].FindAllString(s, -1)
	var tokens []string
	for i, part := range parts {
		tokens = append(tokens, splitBy(part, res[1:])...)
		if i < len(matches) {
			tokens = append(tokens, matches[i])
		}
	}
	return tokens
}
