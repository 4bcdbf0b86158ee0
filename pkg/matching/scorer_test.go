package matching

import (
	"testing"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Run("identical fully populated records score the maximum", func(t *testing.T) {
		r := models.Record{
			FirstName: "John",
			LastName:  "Smith",
			Email:     "john@gmail.com",
			Phone:     "5551234",
		}
		assert.Equal(t, MaxScore, Score(r, r))
	})

	t.Run("empty records score zero", func(t *testing.T) {
		assert.Equal(t, 0, Score(models.Record{}, models.Record{}))
	})

	t.Run("partial first name with exact remainder", func(t *testing.T) {
		query := models.Record{
			FirstName: "Jon",
			LastName:  "Smith",
			Email:     "john@gmail.com",
			Phone:     "5551234",
		}
		candidate := models.Record{
			FirstName: "Jonathan",
			LastName:  "Smith",
			Email:     "john@gmail.com",
			Phone:     "5551234",
		}
		// 20 + 40 + 60 + 20
		assert.Equal(t, 140, Score(query, candidate))
	})

	t.Run("jon vs john misses the first name entirely", func(t *testing.T) {
		// Neither name contains the other, so the first name contributes 0
		// and the remaining fields carry the score.
		query := models.Record{
			FirstName: "Jon",
			LastName:  "Smith",
			Email:     "john@gmail.com",
			Phone:     "5551234",
		}
		candidate := models.Record{
			FirstName: "John",
			LastName:  "Smith",
			Email:     "john@gmail.com",
			Phone:     "5551234",
		}
		// 0 + 40 + 60 + 20
		assert.Equal(t, 120, Score(query, candidate))
	})

	t.Run("username only email", func(t *testing.T) {
		a := models.Record{Email: "john@gmail.com"}
		b := models.Record{Email: "john@yahoo.com"}
		assert.Equal(t, 30, Score(a, b))
	})

	t.Run("phone formatting differences still score exact", func(t *testing.T) {
		a := models.Record{Phone: "555-1234"}
		b := models.Record{Phone: "5551234"}
		assert.Equal(t, 20, Score(a, b))
	})

	t.Run("score is symmetric", func(t *testing.T) {
		pairs := []struct {
			a, b models.Record
		}{
			{
				models.Record{FirstName: "Jon", LastName: "Smith", Email: "john@gmail.com", Phone: "5551234"},
				models.Record{FirstName: "John", LastName: "Smyth", Email: "john@yahoo.com", Phone: "555-1234"},
			},
			{
				models.Record{FirstName: "Ann", Email: "ann@example.com"},
				models.Record{FirstName: "Annabelle", Phone: "1234567"},
			},
			{
				models.Record{},
				models.Record{FirstName: "John", LastName: "Smith"},
			},
		}
		for _, p := range pairs {
			assert.Equal(t, Score(p.a, p.b), Score(p.b, p.a))
		}
	})

	t.Run("score is deterministic", func(t *testing.T) {
		a := models.Record{FirstName: "Jon", LastName: "Smith", Email: "john@gmail.com"}
		b := models.Record{FirstName: "John", LastName: "Smith", Email: "john@yahoo.com"}
		first := Score(a, b)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Score(a, b))
		}
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		records := []models.Record{
			{},
			{FirstName: "a"},
			{FirstName: "John", LastName: "Smith", Email: "john@gmail.com", Phone: "5551234"},
			{FirstName: "J", LastName: "S", Email: "j", Phone: "5"},
		}
		for _, a := range records {
			for _, b := range records {
				s := Score(a, b)
				assert.GreaterOrEqual(t, s, 0)
				assert.LessOrEqual(t, s, MaxScore)
			}
		}
	})

	t.Run("matching empty fields contribute nothing", func(t *testing.T) {
		a := models.Record{FirstName: "", LastName: "Smith"}
		b := models.Record{FirstName: "", LastName: "Smith"}
		assert.Equal(t, 40, Score(a, b))
	})

	t.Run("address never contributes", func(t *testing.T) {
		a := models.Record{Address: "123 Main St"}
		b := models.Record{Address: "123 Main St"}
		assert.Equal(t, 0, Score(a, b))
	})
}

func TestFieldOutcomes(t *testing.T) {
	a := models.Record{FirstName: "Jon", LastName: "Smith", Email: "john@gmail.com", Phone: "5551234"}
	b := models.Record{FirstName: "Jonathan", LastName: "Smith", Email: "john@yahoo.com", Phone: "9990000"}

	outcomes := FieldOutcomes(a, b)
	assert.Equal(t, OutcomePartial, outcomes["first_name"])
	assert.Equal(t, OutcomeExact, outcomes["last_name"])
	assert.Equal(t, OutcomeUsernameOnly, outcomes["email"])
	assert.Equal(t, OutcomeNoMatch, outcomes["phone"])
}
