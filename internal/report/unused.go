package report

import (
	"errors"
	"fmt"
	"strings"

	"fixturegen/internal/diagnostic"
	"fixturegen/internal/resolve"
	"fixturegen/rule"
)

// UnusedSelector describes a selector that never influenced a node.
type UnusedSelector = diagnostic.UnusedSelector

// Mode decides whether unused selectors fail a run.
type Mode string

const (
	Strict  Mode = "strict"
	Lenient Mode = "lenient"
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode parses "strict" or "lenient", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Strict, Lenient:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownMode, s, Strict, Lenient)
	}
}

// Unused lists the non-lenient selectors of every category that were never
// consulted, grouped by category in category order.
func Unused(maps *resolve.Maps) []UnusedSelector {
	var out []UnusedSelector

	for _, c := range rule.Categories() {
		for _, s := range maps.View(c).Unused() {
			out = append(out, UnusedSelector{
				Category:    c.String(),
				Selector:    s.String(),
				Site:        s.Site().String(),
				Suggestions: resolve.Suggestions(s),
			})
		}
	}

	return out
}

// Check returns a *diagnostic.UnusedSelectorError when mode is strict, the
// rule set is not lenient and some selector was never used.
func Check(maps *resolve.Maps, mode Mode) error {
	if mode != Strict || maps.IsLenient() {
		return nil
	}

	unused := Unused(maps)
	if len(unused) == 0 {
		return nil
	}

	return &diagnostic.UnusedSelectorError{Selectors: unused}
}
