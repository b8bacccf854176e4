// Package natsort orders names the way a reader expects: "Chapter 2" before "Chapter 10".
package natsort

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
)

// Order selects how names and paths are compared.
type Order int

const (
	// Natural compares digit runs by numeric value, case-insensitively.
	Natural Order = iota
	// Raw compares the untouched strings byte by byte.
	Raw
)

// OrderFor maps the --simple-sorting switch to an Order.
func OrderFor(simple bool) Order {
	if simple {
		return Raw
	}
	return Natural
}

func (o Order) String() string {
	if o == Raw {
		return "raw"
	}
	return "natural"
}

// Compare compares two names using the order.
func (o Order) Compare(a, b string) int {
	if o == Raw {
		return strings.Compare(a, b)
	}
	return Compare(a, b)
}

// ComparePaths compares two paths using the order.
func (o Order) ComparePaths(a, b string) int {
	if o == Raw {
		return strings.Compare(a, b)
	}
	return ComparePaths(a, b)
}

// SortPaths sorts paths in place. Equal paths keep their relative order.
func (o Order) SortPaths(paths []string) {
	slices.SortStableFunc(paths, o.ComparePaths)
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, together with or after b.
//
// Both strings are lowercased and walked rune by rune. When both sides are on an ASCII
// digit, the whole digit runs are consumed and compared as numbers: leading zeros are
// ignored, a longer run is greater, runs of the same length compare digit by digit.
// A string that runs out first sorts first.
func Compare(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		if isDigit(ra[i]) && isDigit(rb[j]) {
			si, sj := i, j
			for i < len(ra) && isDigit(ra[i]) {
				i++
			}
			for j < len(rb) && isDigit(rb[j]) {
				j++
			}

			na, nb := trimZeros(ra[si:i]), trimZeros(rb[sj:j])
			if len(na) != len(nb) {
				return cmp.Compare(len(na), len(nb))
			}
			if c := slices.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}

		if ra[i] != rb[j] {
			return cmp.Compare(ra[i], rb[j])
		}
		i++
		j++
	}

	return cmp.Compare(len(ra)-i, len(rb)-j)
}

// ComparePaths compares paths component by component with Compare.
// When one path is a prefix of the other, the shorter one sorts first.
func ComparePaths(a, b string) int {
	ca, cb := splitPath(a), splitPath(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := Compare(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ca), len(cb))
}

func splitPath(p string) []string {
	return strings.Split(filepath.ToSlash(p), "/")
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func trimZeros(run []rune) []rune {
	for len(run) > 0 && run[0] == '0' {
		run = run[1:]
	}
	return run
}
