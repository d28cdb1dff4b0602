package codegen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/shortlink/pkg/core/validation"
)

func TestRandomCode(t *testing.T) {
	for _, n := range []int{1, 6, 8, 32} {
		code := RandomCode(n)
		assert.Len(t, code, n)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected rune %q", c)
		}
	}
	assert.Len(t, Alphabet, 62)
}

func TestRandomCodeUsesWholeAlphabet(t *testing.T) {
	seen := map[rune]bool{}
	for range 2000 {
		for _, c := range RandomCode(8) {
			seen[c] = true
		}
	}
	assert.Len(t, seen, len(Alphabet))
}

func TestUniqueCode(t *testing.T) {
	ctx := context.Background()

	t.Run("first free code", func(t *testing.T) {
		calls := 0
		g := NewGenerator(func(ctx context.Context, code string) (bool, error) {
			calls++
			return false, nil
		})
		code, err := g.UniqueCode(ctx)
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		assert.True(t, validation.IsValidCode(code))
		assert.Equal(t, 1, calls)
	})

	t.Run("retries after collisions", func(t *testing.T) {
		calls := 0
		g := NewGenerator(func(ctx context.Context, code string) (bool, error) {
			calls++
			return calls < 4, nil
		})
		code, err := g.UniqueCode(ctx)
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		assert.Equal(t, 4, calls)
	})

	t.Run("falls back to a longer unchecked code", func(t *testing.T) {
		var checked []string
		g := NewGenerator(func(ctx context.Context, code string) (bool, error) {
			checked = append(checked, code)
			return true, nil
		})
		code, err := g.UniqueCode(ctx)
		require.NoError(t, err)
		assert.Len(t, code, FallbackLength)
		assert.True(t, validation.IsValidCode(code))
		assert.Len(t, checked, MaxAttempts)
		assert.NotContains(t, checked, code)
	})

	t.Run("store error aborts", func(t *testing.T) {
		boom := errors.New("boom")
		g := NewGenerator(func(ctx context.Context, code string) (bool, error) {
			return false, boom
		})
		_, err := g.UniqueCode(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("deterministic source", func(t *testing.T) {
		g := NewGenerator(
			func(ctx context.Context, code string) (bool, error) { return false, nil },
			WithIntN(func(int) int { return 0 }),
		)
		code, err := g.UniqueCode(ctx)
		require.NoError(t, err)
		assert.Equal(t, "AAAAAA", code)
	})
}
