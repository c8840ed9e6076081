package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomodesk/internal/core/tasks"
)

const tasksFileName = "tasks.yaml"

type yamlTask struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Priority  string     `yaml:"priority"`
	DueDate   *time.Time `yaml:"due_date,omitempty"`
	Completed bool       `yaml:"completed"`
	CreatedAt time.Time  `yaml:"created_at"`
}

type yamlTaskFile struct {
	Tasks []yamlTask `yaml:"tasks"`
}

// LoadTasks reads the persisted task list. A missing file yields an empty
// list; a malformed one yields an empty list plus the parse error.
func LoadTasks(appName string) ([]tasks.Task, error) {
	configPath, err := resolveDataPath(appName, tasksFileName)
	if err != nil {
		return nil, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	var fileData yamlTaskFile
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse tasks yaml: %w", err)
	}

	items := make([]tasks.Task, 0, len(fileData.Tasks))
	for _, entry := range fileData.Tasks {
		if entry.Title == "" {
			continue
		}
		items = append(items, tasks.Task{
			ID:        entry.ID,
			Title:     entry.Title,
			Priority:  tasks.Priority(entry.Priority),
			DueDate:   entry.DueDate,
			Completed: entry.Completed,
			CreatedAt: entry.CreatedAt,
		})
	}
	return items, nil
}

// SaveTasks writes the task list to disk.
func SaveTasks(appName string, items []tasks.Task) error {
	configPath, err := resolveDataPath(appName, tasksFileName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlTaskFile{Tasks: make([]yamlTask, 0, len(items))}
	for _, item := range items {
		fileData.Tasks = append(fileData.Tasks, yamlTask{
			ID:        item.ID,
			Title:     item.Title,
			Priority:  string(item.Priority),
			DueDate:   item.DueDate,
			Completed: item.Completed,
			CreatedAt: item.CreatedAt,
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal tasks yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}

	return nil
}
