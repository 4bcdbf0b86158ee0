package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchName(t *testing.T) {
	t.Run("exact match is case insensitive", func(t *testing.T) {
		assert.Equal(t, OutcomeExact, MatchName("John", "john"))
		assert.Equal(t, OutcomeExact, MatchName("SMITH", "Smith"))
	})

	t.Run("substring either direction is partial", func(t *testing.T) {
		assert.Equal(t, OutcomePartial, MatchName("Jon", "Jonathan"))
		assert.Equal(t, OutcomePartial, MatchName("Jonathan", "Jon"))
		assert.Equal(t, OutcomePartial, MatchName("Ann", "Annabelle"))
	})

	t.Run("containment is contiguous, not edit distance", func(t *testing.T) {
		// "jon" is not a window of "john"; a one-letter insertion in the
		// middle breaks containment in both directions.
		assert.Equal(t, OutcomeNoMatch, MatchName("Jon", "John"))
		assert.Equal(t, OutcomeNoMatch, MatchName("John", "Jon"))
	})

	t.Run("unrelated names do not match", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchName("John", "Jane"))
	})

	t.Run("empty vs empty is not a match", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchName("", ""))
	})

	t.Run("empty vs non-empty is not a match", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchName("", "John"))
		assert.Equal(t, OutcomeNoMatch, MatchName("John", ""))
	})
}

func TestMatchEmail(t *testing.T) {
	t.Run("exact match is case insensitive", func(t *testing.T) {
		assert.Equal(t, OutcomeExact, MatchEmail("John@Example.com", "john@example.com"))
	})

	t.Run("same username different domain", func(t *testing.T) {
		assert.Equal(t, OutcomeUsernameOnly, MatchEmail("john@gmail.com", "john@yahoo.com"))
	})

	t.Run("different usernames do not match", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchEmail("john@gmail.com", "jane@gmail.com"))
	})

	t.Run("missing at sign treats whole value as username", func(t *testing.T) {
		assert.Equal(t, OutcomeUsernameOnly, MatchEmail("john", "john@gmail.com"))
	})

	t.Run("empty emails do not match", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchEmail("", ""))
		assert.Equal(t, OutcomeNoMatch, MatchEmail("", "john@gmail.com"))
	})
}

func TestMatchPhone(t *testing.T) {
	t.Run("formatting is ignored", func(t *testing.T) {
		assert.Equal(t, OutcomeExact, MatchPhone("(555) 123-4567", "555.123.4567"))
		assert.Equal(t, OutcomeExact, MatchPhone("555-1234", "5551234"))
	})

	t.Run("different digits do not match", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchPhone("5551234", "5551235"))
	})

	t.Run("no partial tier for phone", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchPhone("5551234", "55512"))
	})

	t.Run("empty phones do not match", func(t *testing.T) {
		assert.Equal(t, OutcomeNoMatch, MatchPhone("", ""))
		assert.Equal(t, OutcomeNoMatch, MatchPhone("abc", "def"))
	})
}
