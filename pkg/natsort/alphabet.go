package natsort

import "unicode"

// alphabet is the Azerbaijani Latin alphabet in collation order. Upper and
// lower case forms of a letter share a rank.
const alphabet = "abcçdeəfgğhxıijkqlmnoöprsştuüvwyz"

// unlistedOffset pushes characters outside the alphabet after every listed
// letter. Unlisted characters order among themselves by code point.
const unlistedOffset = 1000

var letterRanks = buildRanks()

func buildRanks() map[rune]int {
	m := make(map[rune]int, len(alphabet))

	i := 0
	for _, r := range alphabet {
		i++
		m[r] = i
	}

	return m
}

// rank returns the collation rank of r. Listed letters get 1..33, everything
// else gets its folded code point plus [unlistedOffset].
func rank(r rune) int {
	f := fold(r)
	if n, ok := letterRanks[f]; ok {
		return n
	}

	return int(f) + unlistedOffset
}

// fold lower-cases r with the plain Unicode one-to-one mapping: İ -> i and
// I -> i. Mixed-case ASCII names therefore share ranks and are separated
// only by the final case tiebreak; dotless ı keeps its own rank.
func fold(r rune) rune {
	return unicode.ToLower(r)
}
