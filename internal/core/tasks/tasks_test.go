package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGeneratesIDAndDefaults(t *testing.T) {
	list := NewList(nil)

	added := list.Add("write outline", "", nil)

	assert.NotEmpty(t, added.ID)
	assert.Equal(t, PriorityMedium, added.Priority, "unknown priority falls back to medium")
	assert.False(t, added.Completed)
	assert.WithinDuration(t, time.Now(), added.CreatedAt, time.Second)

	items := list.Tasks()
	require.Len(t, items, 1)
	assert.Equal(t, added, items[0])
}

func TestTasksReturnsNewestFirst(t *testing.T) {
	list := NewList(nil)
	first := list.Add("first", PriorityLow, nil)
	time.Sleep(2 * time.Millisecond)
	second := list.Add("second", PriorityHigh, nil)

	items := list.Tasks()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestNewListSortsSeedTasks(t *testing.T) {
	older := Task{ID: "old", Title: "old", CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	newer := Task{ID: "new", Title: "new", CreatedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)}

	list := NewList([]Task{older, newer})

	items := list.Tasks()
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
}

func TestToggle(t *testing.T) {
	list := NewList(nil)
	added := list.Add("flip me", PriorityLow, nil)

	require.True(t, list.Toggle(added.ID))
	assert.True(t, list.Tasks()[0].Completed)

	require.True(t, list.Toggle(added.ID))
	assert.False(t, list.Tasks()[0].Completed)

	assert.False(t, list.Toggle("missing"))
}

func TestRemove(t *testing.T) {
	list := NewList(nil)
	keep := list.Add("keep", PriorityMedium, nil)
	drop := list.Add("drop", PriorityMedium, nil)

	require.True(t, list.Remove(drop.ID))
	items := list.Tasks()
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)

	assert.False(t, list.Remove(drop.ID))
}

func TestTasksReturnsCopy(t *testing.T) {
	list := NewList(nil)
	list.Add("stable", PriorityMedium, nil)

	items := list.Tasks()
	items[0].Title = "mutated"

	assert.Equal(t, "stable", list.Tasks()[0].Title)
}
