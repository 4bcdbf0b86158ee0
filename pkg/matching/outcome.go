// Package matching implements the duplicate-candidate scoring engine: a fixed
// point formula over four identity fields, a confidence classifier over the
// resulting score, and a ranker that filters and orders retrieval candidates.
// Every function here is pure; configuration is always passed in, never read
// from ambient state.
package matching

// FieldOutcome classifies the relationship between two values of one field.
type FieldOutcome string

const (
	OutcomeExact        FieldOutcome = "exact"
	OutcomePartial      FieldOutcome = "partial"       // Names only: non-empty substring either direction
	OutcomeUsernameOnly FieldOutcome = "username_only" // Email only: same username, different domain
	OutcomeNoMatch      FieldOutcome = "no_match"
)
