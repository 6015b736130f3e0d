package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTotalPages(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 25: 1, 26: 2, 30: 2, 50: 2, 51: 3}
	for count, want := range cases {
		assert.Equal(t, want, TotalPages(count), "count=%d", count)
	}
}

func TestCursor(t *testing.T) {
	t.Run("starts on page one", func(t *testing.T) {
		c := NewCursor()
		assert.Equal(t, 1, c.Current("g", 3))
	})

	t.Run("single page never advances", func(t *testing.T) {
		c := NewCursor()
		for i := 0; i < 5; i++ {
			c.Advance("g", 1)
			assert.Equal(t, 1, c.Current("g", 1))
		}
		c.Advance("g", 0)
		assert.Equal(t, 1, c.Current("g", 0))
	})

	t.Run("out of range page reads as one", func(t *testing.T) {
		c := NewCursor()
		c.Restore(map[string]int{"g": 3, "bad": 0})
		assert.Equal(t, 3, c.Current("g", 3))
		assert.Equal(t, 1, c.Current("g", 2))
		assert.Equal(t, 1, c.Current("bad", 2))
		assert.NotContains(t, c.Pages(), "bad")
	})

	t.Run("reset", func(t *testing.T) {
		c := NewCursor()
		c.Advance("g", 4)
		c.Reset("g")
		assert.Equal(t, 1, c.Current("g", 4))
	})
}

// Property: for T > 1 pages, repeated advances visit 1, 2, ..., T, 1, 2, ...
func TestProperty_CursorRotation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(1, 12).Draw(rt, "total")
		steps := rapid.IntRange(1, 60).Draw(rt, "steps")

		c := NewCursor()
		for i := 0; i < steps; i++ {
			want := i%total + 1
			if got := c.Current("g", total); got != want {
				rt.Fatalf("step %d: page %d, want %d (total %d)", i, got, want, total)
			}
			c.Advance("g", total)
		}
	})
}
