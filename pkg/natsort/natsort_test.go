package natsort_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tahirov/xlrename/pkg/natsort"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a    string
		b    string
		want int
	}{
		"identical strings": {
			a: "Şəkil1", b: "Şəkil1", want: 0,
		},
		"numeric runs compare by value": {
			a: "file2", b: "file10", want: -1,
		},
		"numeric runs compare by value reversed": {
			a: "file10", b: "file2", want: 1,
		},
		"numeric run inside name": {
			a: "file2a", b: "file10a", want: -1,
		},
		"digit run before non-digit run": {
			a: "1abc", b: "a1bc", want: -1,
		},
		"letters by alphabet rank not code point": {
			// ç ranks directly after c, although its code point is far higher.
			a: "çay", b: "dəniz", want: -1,
		},
		"schwa ranks after e": {
			a: "ev", b: "əl", want: -1,
		},
		"dotless i ranks before dotted i": {
			a: "ılıq", b: "işıq", want: -1,
		},
		"uppercase I folds to dotted i": {
			// I and i share a rank, so ı (rank 13) orders before both.
			a: "Ilıq", b: "ılıq", want: 1,
		},
		"uppercase dotted İ folds to i": {
			a: "İncə", b: "ılıq", want: 1,
		},
		"x between h and ı": {
			a: "xəbər", b: "hava", want: 1,
		},
		"q between k and l": {
			a: "qapı", b: "lalə", want: -1,
		},
		"case is only a last-resort tiebreak": {
			// Ranks decide at position 4 before case is consulted.
			a: "filea", b: "FILEB", want: -1,
		},
		"fewer leading zeros sorts first on numeric tie": {
			a: "7", b: "007", want: -1,
		},
		"more leading zeros sorts last on numeric tie": {
			a: "007", b: "7", want: 1,
		},
		"numeric tie broken by run length": {
			a: "07a", b: "7b", want: 1,
		},
		"empty before non-empty": {
			a: "", b: "a", want: -1,
		},
		"both empty": {
			a: "", b: "", want: 0,
		},
		"prefix with fewer runs sorts first": {
			a: "file", b: "file1", want: -1,
		},
		"shorter letter run sorts first": {
			a: "ab", b: "abc", want: -1,
		},
		"unlisted character after whole alphabet": {
			a: "z", b: "漢", want: -1,
		},
		"unlisted characters by code point": {
			a: "漢", b: "😀", want: -1,
		},
		"saturated runs fall through to raw tiebreak": {
			// Both runs overflow uint64 and have equal length, so the raw
			// comparison of the original strings decides.
			a: "a18446744073709551616", b: "a99999999999999999998", want: -1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := natsort.Compare(tc.a, tc.b)

			assert.Equal(t, tc.want, got, "Compare(%q, %q)", tc.a, tc.b)
			assert.Equal(t, -tc.want, natsort.Compare(tc.b, tc.a), "Compare(%q, %q)", tc.b, tc.a)
		})
	}
}

func TestCompareCaseTiebreak(t *testing.T) {
	t.Parallel()

	// "File" and "file" share every alphabet rank, so the order must be
	// decided strictly by case, never by rank.
	got := natsort.Compare("File", "file")

	require.NotZero(t, got)
	assert.Equal(t, -got, natsort.Compare("file", "File"))
	assert.Equal(t, 0, natsort.Compare("file", "file"))
}

// corpus exercises every comparator branch: digit ties, mixed runs, casing,
// unlisted characters, and empty input.
var corpus = []string{
	"", "0", "00", "007", "7", "07a", "7b", "1abc", "a1bc",
	"file", "file1", "file2", "file2a", "file10", "file10a", "File10",
	"Şəkil1", "Şəkil2", "Şəkil10", "Alma", "Ağa", "əlifba", "ılıq", "işıq",
	"Ilıq", "İncə", "FILEB", "filea",
	"z1", "漢", "😀", "file-2", "file_10",
}

func TestCompareTotalOrderLaws(t *testing.T) {
	t.Parallel()

	for _, x := range corpus {
		assert.Equal(t, 0, natsort.Compare(x, x), "Compare(%q, %q)", x, x)

		for _, y := range corpus {
			xy := natsort.Compare(x, y)

			// Antisymmetry.
			assert.Equal(t, -xy, natsort.Compare(y, x), "Compare(%q, %q)", y, x)

			if x != y {
				assert.NotZero(t, xy, "distinct names %q and %q must not compare equal", x, y)
			}

			// Transitivity.
			for _, z := range corpus {
				if xy < 0 && natsort.Compare(y, z) < 0 {
					assert.Negative(t, natsort.Compare(x, z),
						"%q < %q and %q < %q but not %q < %q", x, y, y, z, x, z)
				}
			}
		}
	}
}

func TestSortScenario(t *testing.T) {
	t.Parallel()

	names := []string{"Şəkil1", "Şəkil10", "Şəkil2", "Alma", "Ağa"}
	natsort.Sort(names)

	// A (rank 1) entries precede Ş (rank 26) entries, ğ precedes l within
	// them, and the Şəkil group orders numerically.
	assert.Equal(t, []string{"Ağa", "Alma", "Şəkil1", "Şəkil2", "Şəkil10"}, names)
}

func TestSortDeterminism(t *testing.T) {
	t.Parallel()

	first := make([]string, len(corpus))
	copy(first, corpus)
	natsort.Sort(first)

	// A different starting permutation must converge to the same order.
	second := make([]string, 0, len(corpus))
	for i := len(corpus) - 1; i >= 0; i-- {
		second = append(second, corpus[i])
	}
	natsort.Sort(second)

	assert.Equal(t, first, second)

	// Sorting an already sorted list is a no-op.
	again := make([]string, len(first))
	copy(again, first)
	natsort.Sort(again)
	assert.Equal(t, first, again)
}

func TestLess(t *testing.T) {
	t.Parallel()

	assert.True(t, natsort.Less("page2", "page10"))
	assert.False(t, natsort.Less("page10", "page2"))
	assert.False(t, natsort.Less("page2", "page2"))
}

// TestCompareMatchesCollateNumeric cross-checks digit handling on plain ASCII
// names against the numeric collation from golang.org/x/text.
func TestCompareMatchesCollateNumeric(t *testing.T) {
	t.Parallel()

	names := []string{"page100", "page9", "a2", "page2", "a10", "b1", "page1", "a1", "page10"}

	ours := make([]string, len(names))
	copy(ours, names)
	natsort.Sort(ours)

	theirs := make([]string, len(names))
	copy(theirs, names)
	c := collate.New(language.English, collate.Loose, collate.Numeric, collate.Force)
	c.SortStrings(theirs)

	assert.Equal(t, theirs, ours)
}

func TestUnlistedCharacterPlacement(t *testing.T) {
	t.Parallel()

	for _, r := range "abcçdeəfgğhxıijkqlmnoöprsştuüvwyz" {
		for _, unlisted := range []string{"漢", "😀", "-", "_", "и"} {
			assert.Negative(t, natsort.Compare(string(r), unlisted),
				"letter %q must order before unlisted %q", r, unlisted)
		}
	}
}

func TestSortStability(t *testing.T) {
	t.Parallel()

	// Equal names keep their relative input order; here equality only holds
	// for identical strings, which are interchangeable anyway.
	names := []string{"b", "a", "a", "b"}
	natsort.Sort(names)

	assert.Equal(t, []string{"a", "a", "b", "b"}, names)
}
