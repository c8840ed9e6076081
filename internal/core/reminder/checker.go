// Package reminder watches the task collection for approaching due dates.
package reminder

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pomodesk/internal/core/tasks"
	"pomodesk/internal/notify"
)

// Config contains runtime options for the Checker.
type Config struct {
	CheckInterval time.Duration
	LookAhead     time.Duration
}

// Checker periodically scans an injected read-only task source and raises
// one system notification per task whose due date enters the look-ahead
// window. It never mutates the collection.
type Checker struct {
	mu       sync.Mutex
	source   tasks.Source
	notifier notify.SystemNotifier
	options  Config
	logger   zerolog.Logger
	notified map[string]bool
	stopCh   chan struct{}
	running  bool
}

// New creates a Checker over the given task source.
func New(source tasks.Source, notifier notify.SystemNotifier, options Config, logger zerolog.Logger) *Checker {
	if options.CheckInterval <= 0 {
		options.CheckInterval = time.Minute
	}
	if options.LookAhead <= 0 {
		options.LookAhead = 30 * time.Minute
	}

	return &Checker{
		source:   source,
		notifier: notifier,
		options:  options,
		logger:   logger,
		notified: make(map[string]bool),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the checking loop.
func (checker *Checker) Start() {
	checker.mu.Lock()
	if checker.running {
		checker.mu.Unlock()
		return
	}
	checker.running = true
	checker.mu.Unlock()

	go checker.run()
}

// Stop terminates the checking loop.
func (checker *Checker) Stop() {
	checker.mu.Lock()
	if !checker.running {
		checker.mu.Unlock()
		return
	}
	close(checker.stopCh)
	checker.running = false
	checker.mu.Unlock()
}

func (checker *Checker) run() {
	ticker := time.NewTicker(checker.options.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-checker.stopCh:
			return
		case now := <-ticker.C:
			checker.Check(now)
		}
	}
}

// Check scans the source once. Exported so the tick can be driven
// directly by callers that own their own scheduling.
func (checker *Checker) Check(now time.Time) {
	if checker.source == nil || checker.notifier == nil {
		return
	}

	for _, task := range checker.source.Tasks() {
		if task.Completed || task.DueDate == nil {
			continue
		}

		checker.mu.Lock()
		seen := checker.notified[task.ID]
		checker.mu.Unlock()
		if seen {
			continue
		}

		until := task.DueDate.Sub(now)
		if until > checker.options.LookAhead {
			continue
		}

		checker.mu.Lock()
		checker.notified[task.ID] = true
		checker.mu.Unlock()

		title, body := reminderCopy(task, until)
		if err := checker.notifier.Send(title, body); err != nil {
			checker.logger.Warn().Str("task", task.Title).Err(err).Msg("due reminder failed")
		}
	}
}

func reminderCopy(task tasks.Task, until time.Duration) (string, string) {
	if until <= 0 {
		return "Task overdue", fmt.Sprintf("%s was due at %s.", task.Title, task.DueDate.Format("15:04"))
	}
	minutes := int(until.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return "Task due soon", fmt.Sprintf("%s is due in %d min.", task.Title, minutes)
}
