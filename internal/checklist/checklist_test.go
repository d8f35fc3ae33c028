package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

func items(orders ...int) []simpletask.ChecklistItem {
	out := make([]simpletask.ChecklistItem, len(orders))
	for i, o := range orders {
		out[i] = simpletask.ChecklistItem{ID: string(rune('a' + i)), Order: o}
	}
	return out
}

func TestSorted(t *testing.T) {
	sorted := Sorted(items(3, 1, 2))
	assert.Equal(t, []int{1, 2, 3}, []int{sorted[0].Order, sorted[1].Order, sorted[2].Order})

	t.Run("original untouched", func(t *testing.T) {
		in := items(3, 1, 2)
		Sorted(in)
		assert.Equal(t, 3, in[0].Order)
	})

	t.Run("duplicate orders keep array position", func(t *testing.T) {
		in := items(1, 1, 0)
		sorted := Sorted(in)
		assert.Equal(t, "c", sorted[0].ID)
		assert.Equal(t, "a", sorted[1].ID)
		assert.Equal(t, "b", sorted[2].ID)
	})
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 0, NextOrder(nil))
	assert.Equal(t, 5, NextOrder(items(4, 2, 0)))
	assert.Equal(t, 8, NextOrder(items(7)))
}

func TestAdvance(t *testing.T) {
	t.Run("completes lowest incomplete item", func(t *testing.T) {
		in := items(3, 1, 2)
		updated, completed, changed := Advance(in)
		require.True(t, changed)
		require.NotNil(t, completed)
		assert.Equal(t, 1, completed.Order)
		// positions preserved, exactly one item completed
		assert.False(t, updated[0].Completed)
		assert.True(t, updated[1].Completed)
		assert.False(t, updated[2].Completed)
		// input untouched
		assert.False(t, in[1].Completed)
	})

	t.Run("skips already completed items", func(t *testing.T) {
		in := items(1, 2, 3)
		in[0].Completed = true
		_, completed, changed := Advance(in)
		require.True(t, changed)
		assert.Equal(t, 2, completed.Order)
	})

	t.Run("fully completed checklist is a no-op", func(t *testing.T) {
		in := items(1, 2)
		in[0].Completed = true
		in[1].Completed = true
		updated, completed, changed := Advance(in)
		assert.False(t, changed)
		assert.Nil(t, completed)
		assert.Equal(t, in, updated)
	})

	t.Run("repeated calls drain in order", func(t *testing.T) {
		current := items(2, 0, 1)
		var seen []int
		for {
			updated, completed, changed := Advance(current)
			if !changed {
				break
			}
			seen = append(seen, completed.Order)
			current = updated
		}
		assert.Equal(t, []int{0, 1, 2}, seen)
	})

	t.Run("empty checklist", func(t *testing.T) {
		updated, completed, changed := Advance(nil)
		assert.False(t, changed)
		assert.Nil(t, completed)
		assert.Empty(t, updated)
	})
}
