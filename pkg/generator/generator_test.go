package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("produces requested counts", func(t *testing.T) {
		g := New(42)
		result := g.Generate("tenant-1", Options{Count: 100, DuplicateRatio: 0.2})

		assert.Len(t, result.Originals, 80)
		assert.Len(t, result.Duplicates, 20)
		assert.Len(t, result.All(), 100)
	})

	t.Run("duplicates reference an original", func(t *testing.T) {
		g := New(42)
		result := g.Generate("tenant-1", Options{Count: 50, DuplicateRatio: 0.3})

		originals := make(map[string]bool, len(result.Originals))
		for _, o := range result.Originals {
			originals[o.ID] = true
		}

		for _, d := range result.Duplicates {
			require.NotNil(t, d.DuplicateOf)
			assert.True(t, originals[*d.DuplicateOf], "duplicate should point at a generated original")
			assert.NotEqual(t, *d.DuplicateOf, d.ID)
		}
	})

	t.Run("stamps tenant on every record", func(t *testing.T) {
		g := New(7)
		result := g.Generate("tenant-xyz", Options{Count: 20, DuplicateRatio: 0.5})

		for _, c := range result.All() {
			assert.Equal(t, "tenant-xyz", c.TenantID)
		}
	})

	t.Run("same seed yields same field values", func(t *testing.T) {
		a := New(99).Generate("t", Options{Count: 30, DuplicateRatio: 0.2})
		b := New(99).Generate("t", Options{Count: 30, DuplicateRatio: 0.2})

		require.Len(t, b.Originals, len(a.Originals))
		for i := range a.Originals {
			assert.Equal(t, a.Originals[i].FirstName, b.Originals[i].FirstName)
			assert.Equal(t, a.Originals[i].Email, b.Originals[i].Email)
			assert.Equal(t, a.Originals[i].Phone, b.Originals[i].Phone)
		}
	})

	t.Run("zero count returns empty result", func(t *testing.T) {
		result := New(1).Generate("t", Options{Count: 0, DuplicateRatio: 0.2})
		assert.Empty(t, result.All())
	})
}

func TestDuplicate(t *testing.T) {
	g := New(13)
	base := g.Original("tenant-1")

	dup := g.Duplicate(base)

	assert.NotEqual(t, base.ID, dup.ID)
	require.NotNil(t, dup.DuplicateOf)
	assert.Equal(t, base.ID, *dup.DuplicateOf)
	assert.Equal(t, base.TenantID, dup.TenantID)

	t.Run("email domain survives typo injection", func(t *testing.T) {
		baseAt := strings.IndexByte(base.Email, '@')
		dupAt := strings.IndexByte(dup.Email, '@')
		require.Greater(t, baseAt, 0)
		require.Greater(t, dupAt, 0)
		assert.Equal(t, base.Email[baseAt:], dup.Email[dupAt:])
	})

	t.Run("address is carried over untouched", func(t *testing.T) {
		assert.Equal(t, base.Address, dup.Address)
	})
}

func TestIntroduceTypos(t *testing.T) {
	t.Run("short text is returned unchanged", func(t *testing.T) {
		g := New(5)
		assert.Equal(t, "", g.IntroduceTypos("", 3))
		assert.Equal(t, "a", g.IntroduceTypos("a", 3))
	})

	t.Run("single edit changes length by at most one", func(t *testing.T) {
		g := New(5)
		for i := 0; i < 100; i++ {
			out := g.IntroduceTypos("jonathan", 1)
			diff := len(out) - len("jonathan")
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, 1)
		}
	})

	t.Run("eventually produces a different string", func(t *testing.T) {
		g := New(5)
		changed := false
		for i := 0; i < 20; i++ {
			if g.IntroduceTypos("margaret", 2) != "margaret" {
				changed = true
				break
			}
		}
		assert.True(t, changed)
	})
}
