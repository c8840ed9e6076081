// Package tasks holds the to-do collection that focus sessions and due
// reminders draw from.
package tasks

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Priority orders tasks by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a single to-do item.
type Task struct {
	ID        string
	Title     string
	Priority  Priority
	DueDate   *time.Time
	Completed bool
	CreatedAt time.Time
}

// Source is a read-only view of the collection. Consumers that only need
// to inspect tasks (the due reminder, the UI list) take this instead of
// the mutable list.
type Source interface {
	Tasks() []Task
}

// List is a mutable, concurrency-safe task collection.
type List struct {
	mu    sync.Mutex
	items []Task
}

// NewList creates a list seeded with the given tasks.
func NewList(items []Task) *List {
	list := &List{items: append([]Task(nil), items...)}
	list.sortLocked()
	return list
}

// Tasks returns a copy of the collection, newest first.
func (list *List) Tasks() []Task {
	list.mu.Lock()
	defer list.mu.Unlock()
	return append([]Task(nil), list.items...)
}

// Add appends a new task and returns it with its generated id.
func (list *List) Add(title string, priority Priority, dueDate *time.Time) Task {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		priority = PriorityMedium
	}

	task := Task{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  priority,
		DueDate:   dueDate,
		CreatedAt: time.Now(),
	}

	list.mu.Lock()
	list.items = append(list.items, task)
	list.sortLocked()
	list.mu.Unlock()
	return task
}

// Toggle flips the completion flag of the task with the given id.
func (list *List) Toggle(id string) bool {
	list.mu.Lock()
	defer list.mu.Unlock()
	for index := range list.items {
		if list.items[index].ID == id {
			list.items[index].Completed = !list.items[index].Completed
			return true
		}
	}
	return false
}

// Remove deletes the task with the given id.
func (list *List) Remove(id string) bool {
	list.mu.Lock()
	defer list.mu.Unlock()
	for index := range list.items {
		if list.items[index].ID == id {
			list.items = append(list.items[:index], list.items[index+1:]...)
			return true
		}
	}
	return false
}

func (list *List) sortLocked() {
	sort.SliceStable(list.items, func(left, right int) bool {
		return list.items[left].CreatedAt.After(list.items[right].CreatedAt)
	})
}
