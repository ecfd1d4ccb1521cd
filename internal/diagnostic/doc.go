// Package diagnostic provides structured findings and typed errors for
// selector resolution.
//
// Key capabilities:
//   - Declaration findings (unknown fields, subtype conflicts) with suggestions
//   - Ambiguous assignment origins reporting the first matches
//   - Unresolvable assignment sets
//   - Unused selector reports grouped by rule category
//   - Internal invariant violations
package diagnostic
