package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesSentinel(t *testing.T) {
	t.Parallel()

	wrapped := Wrap(ErrNotFound, "loading account 42")
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "loading account 42: resource not found", wrapped.Error())
}

func TestWrap_NilPassesThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Wrap(nil, "no-op"))
}

func TestSentinels_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{ErrNotFound, ErrRateLimited, ErrDuplicateEntry}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, errors.Is(a, b))
			}
		}
	}
}
