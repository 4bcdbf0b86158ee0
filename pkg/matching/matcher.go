package matching

import (
	"strings"

	"github.com/Ramsey-B/aster/pkg/normalizers"
)

// MatchName compares two name values. Exact requires equal, non-empty
// normalized values; Partial requires one to be a non-empty substring of the
// other, in either direction. Two absent values never match: empty-string
// equality and containment are trivially true, so the guard comes first.
func MatchName(a, b string) FieldOutcome {
	na := normalizers.Lowercase(a)
	nb := normalizers.Lowercase(b)

	if na == "" || nb == "" {
		return OutcomeNoMatch
	}
	if na == nb {
		return OutcomeExact
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return OutcomePartial
	}
	return OutcomeNoMatch
}

// MatchEmail compares two email values. Equal non-empty addresses are Exact;
// equal non-empty usernames on differing domains are UsernameOnly.
func MatchEmail(a, b string) FieldOutcome {
	na := normalizers.NormalizeEmail(a)
	nb := normalizers.NormalizeEmail(b)
	if na != "" && na == nb {
		return OutcomeExact
	}

	userA, _ := normalizers.SplitEmail(a)
	userB, _ := normalizers.SplitEmail(b)
	if userA == "" || userB == "" {
		return OutcomeNoMatch
	}
	if userA == userB {
		return OutcomeUsernameOnly
	}
	return OutcomeNoMatch
}

// MatchPhone compares two phone values on their digit strings. Exact or
// nothing; there is no partial tier for phone.
func MatchPhone(a, b string) FieldOutcome {
	na := normalizers.DigitsOnly(a)
	nb := normalizers.DigitsOnly(b)

	if na == "" || nb == "" {
		return OutcomeNoMatch
	}
	if na == nb {
		return OutcomeExact
	}
	return OutcomeNoMatch
}
