package idx_test

import (
	"testing"
	"time"

	"github.com/discograph/discograph/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("generates valid ULIDs", func(t *testing.T) {
		id := idx.New()
		require.False(t, id.IsZero())

		parsed, err := idx.Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("IDs are monotonic within a run", func(t *testing.T) {
		a := idx.New()
		b := idx.New()
		require.Less(t, a.String(), b.String())
	})

	t.Run("embedded time is recent", func(t *testing.T) {
		id := idx.New()
		require.WithinDuration(t, time.Now().UTC(), id.Time(), 2*time.Second)
	})
}

func TestParse(t *testing.T) {
	t.Run("rejects empty", func(t *testing.T) {
		_, err := idx.Parse("")
		require.ErrorIs(t, err, idx.ErrInvalid)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := idx.Parse("not-a-ulid")
		require.ErrorIs(t, err, idx.ErrInvalid)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		id := idx.New()
		parsed, err := idx.Parse("  " + id.String() + " ")
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})
}
