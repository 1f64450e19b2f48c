package rewrite

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/matsen/bibtidy/internal/config"
)

type venueRule struct {
	re   *regexp2.Regexp
	name string
}

// VenueSubstituter replaces venue names with canonical ones.
// Rules are tried in configured order and the first match wins, regardless
// of how specific later rules are.
type VenueSubstituter struct {
	rules []venueRule
}

// NewVenueSubstituter compiles the rules as case-insensitive patterns.
func NewVenueSubstituter(rules []config.VenueRule) (*VenueSubstituter, error) {
	v := &VenueSubstituter{}
	for i, r := range rules {
		re, err := regexp2.Compile(r.Pattern, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("venue rule %d: compiling %q: %w", i+1, r.Pattern, err)
		}
		v.rules = append(v.rules, venueRule{re: re, name: r.Name})
	}
	return v, nil
}

// Substitute returns the canonical name of the first rule matching value.
// With no match it returns value unchanged and false.
func (v *VenueSubstituter) Substitute(value string) (string, bool) {
	for _, r := range v.rules {
		if ok, err := r.re.MatchString(value); err == nil && ok {
			return r.name, true
		}
	}
	return value, false
}
