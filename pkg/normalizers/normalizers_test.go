package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowercase(t *testing.T) {
	assert.Equal(t, "john", Lowercase("John"))
	assert.Equal(t, "smith", Lowercase("SMITH"))
	assert.Equal(t, "", Lowercase(""))
}

func TestDigitsOnly(t *testing.T) {
	t.Run("strips formatting characters", func(t *testing.T) {
		assert.Equal(t, "5551234567", DigitsOnly("(555) 123-4567"))
		assert.Equal(t, "5551234", DigitsOnly("555-1234"))
		assert.Equal(t, "15551234567", DigitsOnly("+1 555 123 4567"))
	})

	t.Run("no digits yields empty", func(t *testing.T) {
		assert.Equal(t, "", DigitsOnly("n/a"))
		assert.Equal(t, "", DigitsOnly(""))
	})
}

func TestSplitEmail(t *testing.T) {
	t.Run("lowercases and splits on the first at sign", func(t *testing.T) {
		user, domain := SplitEmail("John@Example.com")
		assert.Equal(t, "john", user)
		assert.Equal(t, "example.com", domain)
	})

	t.Run("splits on the first at sign only", func(t *testing.T) {
		user, domain := SplitEmail("a@b@c")
		assert.Equal(t, "a", user)
		assert.Equal(t, "b@c", domain)
	})

	t.Run("no at sign yields the whole value as username", func(t *testing.T) {
		user, domain := SplitEmail("John")
		assert.Equal(t, "john", user)
		assert.Equal(t, "", domain)
	})

	t.Run("empty input", func(t *testing.T) {
		user, domain := SplitEmail("")
		assert.Equal(t, "", user)
		assert.Equal(t, "", domain)
	})
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "123 main st", NormalizeAddress("123  Main Street"))
	assert.Equal(t, "456 oak ave apt 2", NormalizeAddress("456 Oak Avenue Apartment 2"))
}

func TestApplyChain(t *testing.T) {
	assert.Equal(t, "john", ApplyChain("  John  ", "trim", "lowercase"))
	assert.Equal(t, "5551234", Apply("555-1234", "nphone"))
	// Unknown normalizers pass the value through.
	assert.Equal(t, "John", Apply("John", "unknown"))
}
