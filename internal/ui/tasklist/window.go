// Package tasklist provides the to-do window: add tasks, tick them off,
// promote one to the active focus target.
package tasklist

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomodesk/internal/core/tasks"
)

const dueLayout = "2006-01-02 15:04"

// Callbacks defines task action handlers.
type Callbacks struct {
	OnAdd    func(title string, priority tasks.Priority, due *time.Time)
	OnToggle func(id string)
	OnRemove func(id string)
	OnFocus  func(task tasks.Task)
}

// Window handles the task list UI. It reads tasks through a read-only
// source and forwards every mutation to the callbacks.
type Window struct {
	window    fyne.Window
	source    tasks.Source
	callbacks Callbacks
	items     []tasks.Task
	list      *widget.List
}

// New creates the task window.
func New(app fyne.App, source tasks.Source, callbacks Callbacks) *Window {
	window := app.NewWindow("PomoDesk Tasks")

	tasksWindow := &Window{
		window:    window,
		source:    source,
		callbacks: callbacks,
	}

	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder("New task")

	prioritySelect := widget.NewSelect([]string{"low", "medium", "high"}, nil)
	prioritySelect.SetSelected("medium")

	dueEntry := widget.NewEntry()
	dueEntry.SetPlaceHolder("Due (2006-01-02 15:04, optional)")

	addButton := widget.NewButton("Add", func() {
		title := strings.TrimSpace(titleEntry.Text)
		if title == "" {
			return
		}
		if tasksWindow.callbacks.OnAdd != nil {
			tasksWindow.callbacks.OnAdd(title, tasks.Priority(prioritySelect.Selected), parseDue(dueEntry.Text))
		}
		titleEntry.SetText("")
		dueEntry.SetText("")
		tasksWindow.Refresh()
	})

	tasksWindow.list = widget.NewList(
		func() int {
			return len(tasksWindow.items)
		},
		func() fyne.CanvasObject {
			check := widget.NewCheck("", nil)
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			focusButton := widget.NewButton("Focus", nil)
			removeButton := widget.NewButton("Remove", nil)
			return container.NewBorder(nil, nil, check, container.NewHBox(focusButton, removeButton), label)
		},
		func(id widget.ListItemID, object fyne.CanvasObject) {
			tasksWindow.updateRow(id, object)
		},
	)

	addRow := container.NewBorder(nil, nil, nil, container.NewHBox(prioritySelect, addButton), container.NewVBox(titleEntry, dueEntry))
	window.SetContent(container.NewBorder(addRow, nil, nil, nil, tasksWindow.list))
	window.Resize(fyne.NewSize(460, 420))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	tasksWindow.Refresh()
	return tasksWindow
}

// Show displays the task window with fresh data.
func (tasksWindow *Window) Show() {
	tasksWindow.Refresh()
	tasksWindow.window.Show()
	tasksWindow.window.RequestFocus()
}

// Refresh re-reads the task source and redraws the list.
func (tasksWindow *Window) Refresh() {
	if tasksWindow.source != nil {
		tasksWindow.items = tasksWindow.source.Tasks()
	}
	if tasksWindow.list != nil {
		tasksWindow.list.Refresh()
	}
}

func (tasksWindow *Window) updateRow(id widget.ListItemID, object fyne.CanvasObject) {
	if id >= len(tasksWindow.items) {
		return
	}
	task := tasksWindow.items[id]

	border := object.(*fyne.Container)
	var check *widget.Check
	var label *widget.Label
	var buttons *fyne.Container
	for _, child := range border.Objects {
		switch typed := child.(type) {
		case *widget.Check:
			check = typed
		case *widget.Label:
			label = typed
		case *fyne.Container:
			buttons = typed
		}
	}
	if check == nil || label == nil || buttons == nil {
		return
	}

	// Detach the handler while syncing the checkbox so the refresh does
	// not fire a toggle.
	check.OnChanged = nil
	check.SetChecked(task.Completed)
	check.OnChanged = func(bool) {
		if tasksWindow.callbacks.OnToggle != nil {
			tasksWindow.callbacks.OnToggle(task.ID)
		}
		tasksWindow.Refresh()
	}

	label.SetText(rowText(task))

	focusButton := buttons.Objects[0].(*widget.Button)
	focusButton.OnTapped = func() {
		if tasksWindow.callbacks.OnFocus != nil {
			tasksWindow.callbacks.OnFocus(task)
		}
	}

	removeButton := buttons.Objects[1].(*widget.Button)
	removeButton.OnTapped = func() {
		if tasksWindow.callbacks.OnRemove != nil {
			tasksWindow.callbacks.OnRemove(task.ID)
		}
		tasksWindow.Refresh()
	}
}

func rowText(task tasks.Task) string {
	text := task.Title
	if task.Priority == tasks.PriorityHigh {
		text = "! " + text
	}
	if task.DueDate != nil {
		text += " (due " + task.DueDate.Format(dueLayout) + ")"
	}
	return text
}

func parseDue(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := time.ParseInLocation(dueLayout, trimmed, time.Local)
	if err != nil {
		return nil
	}
	return &parsed
}
