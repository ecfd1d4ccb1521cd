package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent lowercases an identifier and drops separators, so that
// "order_id", "OrderID" and "order-id" normalize alike.
func NormalizeIdent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}

	return sb.String()
}

// NormalizeIdentWithSuffixStrip normalizes and strips one common suffix:
// timestamp, ids, utc, id or at. Identifiers consisting only of the suffix
// are kept.
func NormalizeIdentWithSuffixStrip(s string) string {
	normalized := NormalizeIdent(s)

	for _, suffix := range []string{"timestamp", "ids", "utc", "id", "at"} {
		if strings.HasSuffix(normalized, suffix) && len(normalized) > len(suffix) {
			return strings.TrimSuffix(normalized, suffix)
		}
	}

	return normalized
}

// TokenizeIdent splits a CamelCase, camelCase or snake_case identifier into
// lowercase tokens: "getHTTPResponse" yields get, http, response.
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports a lower-to-upper transition ("orderID" before 'I') or
// the end of an acronym ("XMLParser" before 'P').
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	if !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
