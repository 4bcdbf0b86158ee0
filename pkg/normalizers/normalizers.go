// Package normalizers canonicalizes profile field values before comparison.
// Every function is pure and total: empty in, empty out, no failure modes.
package normalizers

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("digits_only", DigitsOnly)
	Register("nphone", DigitsOnly)
	Register("nemail", NormalizeEmail)
	Register("naddress", NormalizeAddress)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Lowercase is the text normalizer used for name comparison. Case folding
// only; no whitespace or diacritic handling.
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// DigitsOnly strips every non-digit character. It is the phone normalizer:
// "(555) 123-4567" and "555.123.4567" compare equal.
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeEmail lowercases an email address
func NormalizeEmail(s string) string {
	return strings.ToLower(s)
}

// SplitEmail lowercases the address and splits it on the first '@' into
// (username, domain). An address with no '@' yields the whole normalized
// string as the username and an empty domain.
func SplitEmail(s string) (username, domain string) {
	normalized := NormalizeEmail(s)
	if idx := strings.Index(normalized, "@"); idx >= 0 {
		return normalized[:idx], normalized[idx+1:]
	}
	return normalized, ""
}

var addressSpaceRe = regexp.MustCompile(`\s+`)

// addressAbbreviations maps common long forms to their short forms so the
// trigram search treats "123 Main Street" and "123 Main St" as near-equal.
var addressAbbreviations = map[string]string{
	" street":    " st",
	" avenue":    " ave",
	" boulevard": " blvd",
	" drive":     " dr",
	" road":      " rd",
	" lane":      " ln",
	" court":     " ct",
	" circle":    " cir",
	" place":     " pl",
	" apartment": " apt",
	" suite":     " ste",
	" north":     " n",
	" south":     " s",
	" east":      " e",
	" west":      " w",
}

// NormalizeAddress canonicalizes an address for the retrieval stage. Addresses
// participate in candidate retrieval only, never in the point formula.
func NormalizeAddress(s string) string {
	s = strings.ToLower(s)
	for full, abbr := range addressAbbreviations {
		s = strings.ReplaceAll(s, full, abbr)
	}
	s = addressSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
