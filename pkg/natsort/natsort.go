// Package natsort implements natural ordering of file and folder names with
// Azerbaijani alphabet collation. Digit runs compare by numeric value, letters
// compare by their rank in the Azerbaijani alphabet (case-insensitively), and
// case differences act only as a last-resort tiebreak. The comparator is a
// pure function and is safe for concurrent use.
//
// One algorithm is used on every platform, so listings sort identically
// regardless of host OS.
package natsort

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// Compare returns -1 if a orders before b, +1 if a orders after b, and 0 if
// the two names are identical. It never fails; empty strings, digit-only
// strings, and characters outside the alphabet are all ordered by the rules
// below.
//
// Each string is split into maximal runs of ASCII digits and runs of
// everything else. Runs are compared pairwise: digit runs by numeric value
// (saturating at the maximum uint64) with fewer leading zeros ordering first
// on a numeric tie, a digit run before a non-digit run, and non-digit runs
// character-by-character via the alphabet rank. When one string is a prefix
// of the other in run structure, the one with fewer runs orders first.
func Compare(a, b string) int {
	if c := compareRuns(a, b); c != 0 {
		return c
	}

	// Run-equal names can still differ in letter case at rank-equal
	// positions. Raw comparison keeps the order strict and deterministic.
	return strings.Compare(a, b)
}

// Less reports whether a orders before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort sorts names in place. The sort is stable, so names that compare equal
// keep their input order.
func Sort(names []string) {
	slices.SortStableFunc(names, Compare)
}

func compareRuns(a, b string) int {
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		aRun, aDigit, iNext := nextRun(a, i)
		bRun, bDigit, jNext := nextRun(b, j)

		switch {
		case aDigit && bDigit:
			if c := compareDigitRuns(aRun, bRun); c != 0 {
				return c
			}

		case aDigit:
			// Numbers order before letters at a mismatched position.
			return -1

		case bDigit:
			return 1

		default:
			if c := compareLetterRuns(aRun, bRun); c != 0 {
				return c
			}
		}

		i, j = iNext, jNext
	}

	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}

	return 0
}

// nextRun returns the maximal run starting at start, whether it is a digit
// run, and the offset of the following run.
func nextRun(s string, start int) (run string, digit bool, next int) {
	i := start
	digit = isDigit(s[i])

	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}

	return s[start:i], digit, i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func compareDigitRuns(a, b string) int {
	if c := cmp.Compare(parseSaturating(a), parseSaturating(b)); c != 0 {
		return c
	}

	// Numerically equal runs differ only in leading zeros.
	// The run with fewer digits orders first.
	return cmp.Compare(len(a), len(b))
}

// parseSaturating converts a digit run to a uint64, clamping to the maximum
// representable value instead of failing on overflow.
func parseSaturating(s string) uint64 {
	var v uint64

	for i := range len(s) {
		d := uint64(s[i] - '0')
		if v > (math.MaxUint64-d)/10 {
			return math.MaxUint64
		}

		v = v*10 + d
	}

	return v
}

func compareLetterRuns(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)

		if c := cmp.Compare(rank(ra), rank(rb)); c != 0 {
			return c
		}

		a, b = a[na:], b[nb:]
	}

	switch {
	case len(a) > 0:
		return 1
	case len(b) > 0:
		return -1
	}

	return 0
}
