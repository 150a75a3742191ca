package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomCode(t *testing.T) {
	t.Run("has the requested length", func(t *testing.T) {
		assert.Len(t, RandomCode(8), 8)
		assert.Len(t, RandomCode(12), 12)
	})

	t.Run("only uses the unambiguous charset", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			code := RandomCode(8)
			for _, r := range code {
				assert.True(t, strings.ContainsRune(codeRunes, r), "unexpected rune %q in %s", r, code)
			}
			assert.NotContains(t, code, "0")
			assert.NotContains(t, code, "O")
			assert.NotContains(t, code, "1")
			assert.NotContains(t, code, "I")
		}
	})

	t.Run("does not repeat over a small sample", func(t *testing.T) {
		// 31^8 codes; 1000 draws colliding would point at a broken
		// generator, not bad luck.
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			code := RandomCode(8)
			assert.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	})
}

func TestRandomIntn(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := RandomIntn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}

	// n=1 always yields zero
	for i := 0; i < 10; i++ {
		assert.Equal(t, 0, RandomIntn(1))
	}
}
