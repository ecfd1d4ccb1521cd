package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is.
var (
	ErrAmbiguousOrigin       = errors.New("ambiguous assignment origin")
	ErrUnresolvedAssignments = errors.New("unresolved assignments")
	ErrUnusedSelectors       = errors.New("unused selectors")
)

// AmbiguousOriginError is returned when an assignment origin selector
// matches more than one node and the assignment does not allow it.
type AmbiguousOriginError struct {
	Origin      string   // origin selector
	Site        string   // declaration site of the origin selector
	Destination string   // path of the node being assigned
	Matches     []string // paths of the first two matching nodes
}

func (e *AmbiguousOriginError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: origin %s (declared at %s) for %s matches more than one node:",
		ErrAmbiguousOrigin, e.Origin, e.Site, e.Destination)

	for i, m := range e.Matches {
		fmt.Fprintf(&sb, "\n %d: %s", i+1, m)
	}

	sb.WriteString("\n(search stopped after the second match)")

	return sb.String()
}

func (e *AmbiguousOriginError) Unwrap() error { return ErrAmbiguousOrigin }

// UnresolvedAssignmentsError lists assignments whose origins can never be
// produced because they depend on each other.
type UnresolvedAssignmentsError struct {
	Pending []string
}

func (e *UnresolvedAssignmentsError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %d assignment(s) form a cycle or wait on each other:", ErrUnresolvedAssignments, len(e.Pending))

	for _, p := range e.Pending {
		sb.WriteString("\n -> ")
		sb.WriteString(p)
	}

	return sb.String()
}

func (e *UnresolvedAssignmentsError) Unwrap() error { return ErrUnresolvedAssignments }

// UnusedSelector describes one selector that never matched a node.
type UnusedSelector struct {
	Category    string
	Selector    string
	Site        string
	Suggestions []string
}

// UnusedSelectorError is raised after a run in strict mode.
type UnusedSelectorError struct {
	Selectors []UnusedSelector
}

func (e *UnusedSelectorError) Error() string {
	var (
		sb     strings.Builder
		order  []string
		groups = make(map[string][]UnusedSelector)
	)

	for _, u := range e.Selectors {
		if _, ok := groups[u.Category]; !ok {
			order = append(order, u.Category)
		}

		groups[u.Category] = append(groups[u.Category], u)
	}

	sb.WriteString("found unused selectors declared by the following rules:\n")

	for _, cat := range order {
		fmt.Fprintf(&sb, "\n -> unused selectors in %s:\n", cat)

		for i, u := range groups[cat] {
			fmt.Fprintf(&sb, " %d: %s\n    at %s\n", i+1, u.Selector, u.Site)

			if len(u.Suggestions) > 0 {
				fmt.Fprintf(&sb, "    did you mean: %s?\n", strings.Join(u.Suggestions, ", "))
			}
		}
	}

	sb.WriteString("\nthe selector may target a field or type absent from this object, ")
	sb.WriteString("or its parent may be ignored.\n")
	sb.WriteString("switch to lenient mode to suppress this error.")

	return sb.String()
}

func (e *UnusedSelectorError) Unwrap() error { return ErrUnusedSelectors }

// InternalError reports a broken invariant. It is raised with panic and
// never recovered.
type InternalError struct {
	Msg string
}

// Internal builds an InternalError.
func Internal(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}
