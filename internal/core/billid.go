package core

import (
	"regexp"
	"strings"
)

// Canonical bill numbers look like "HF 1234": an uppercase chamber prefix,
// one space, and a number without leading zeros.
var (
	billNumberPattern = regexp.MustCompile(`^[A-Z]+ [1-9][0-9]*$`)
	billSplitPattern  = regexp.MustCompile(`^([A-Za-z]+)\s*0*([1-9][0-9]*)$`)
)

// CanonicalBillID normalizes a bill number to its canonical form.
// "hf1234", "HF  1234" and "HF 01234" all canonicalize to "HF 1234".
// Reports false when the input is not a recognizable bill number.
func CanonicalBillID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	m := billSplitPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	id := strings.ToUpper(m[1]) + " " + m[2]
	if !billNumberPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
