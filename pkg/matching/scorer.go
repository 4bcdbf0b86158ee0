package matching

import (
	"github.com/Ramsey-B/aster/pkg/models"
)

// MaxScore is the highest similarity score a pair of records can reach:
// first name 40 + last name 40 + email 60 + phone 20.
const MaxScore = 160

// Point weights per field and outcome. The table is fixed; address carries no
// weight at all (it participates in candidate retrieval only).
const (
	firstNameExactPoints   = 40
	firstNamePartialPoints = 20
	lastNameExactPoints    = 40
	lastNamePartialPoints  = 20
	emailExactPoints       = 60
	emailUsernamePoints    = 30
	phoneExactPoints       = 20
)

// Score computes the similarity score between two records. All four fields are
// evaluated independently and their contributions summed; there is no
// short-circuit even when the remaining fields cannot change the tier. The
// result is deterministic, symmetric, and always in [0, MaxScore].
func Score(a, b models.Record) int {
	score := 0

	switch MatchName(a.FirstName, b.FirstName) {
	case OutcomeExact:
		score += firstNameExactPoints
	case OutcomePartial:
		score += firstNamePartialPoints
	}

	switch MatchName(a.LastName, b.LastName) {
	case OutcomeExact:
		score += lastNameExactPoints
	case OutcomePartial:
		score += lastNamePartialPoints
	}

	switch MatchEmail(a.Email, b.Email) {
	case OutcomeExact:
		score += emailExactPoints
	case OutcomeUsernameOnly:
		score += emailUsernamePoints
	}

	if MatchPhone(a.Phone, b.Phone) == OutcomeExact {
		score += phoneExactPoints
	}

	return score
}

// FieldOutcomes reports the per-field classification for a pair of records.
// Used for explainability in review surfaces; the score itself comes from
// Score.
func FieldOutcomes(a, b models.Record) map[string]FieldOutcome {
	return map[string]FieldOutcome{
		"first_name": MatchName(a.FirstName, b.FirstName),
		"last_name":  MatchName(a.LastName, b.LastName),
		"email":      MatchEmail(a.Email, b.Email),
		"phone":      MatchPhone(a.Phone, b.Phone),
	}
}
