// Package task implements a feature's task ledger: the list of
// implementation steps the classifier walks one at a time once a
// feature reaches the Ready phase.
package task

import (
	"fmt"
	"time"

	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
)

// Task is one entry in a feature's task ledger.
type Task struct {
	ID          string              `yaml:"id" json:"id"`
	Title       string              `yaml:"title" json:"title"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Status      taxonomy.TaskStatus `yaml:"status" json:"status"`
	DependsOn   []string            `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Blocker     string              `yaml:"blocker,omitempty" json:"blocker,omitempty"`
	StartedAt   *time.Time          `yaml:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt *time.Time          `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Add appends a new Pending task to tasks, allocating the next T<n> ID
// from nextSeq, and returns the new task's ID.
func Add(tasks *[]Task, nextSeq *int, title string) string {
	*nextSeq++
	id := fmt.Sprintf("T%d", *nextSeq)
	*tasks = append(*tasks, Task{
		ID:     id,
		Title:  title,
		Status: taxonomy.Pending,
	})
	return id
}

func find(tasks []Task, id string) (*Task, error) {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, sdlcerr.Wrapf(sdlcerr.ErrTaskNotFound, "%q", id)
}

// Start transitions a task to InProgress and records the start time.
// Completed tasks may not be restarted.
func Start(tasks []Task, id string) error {
	t, err := find(tasks, id)
	if err != nil {
		return err
	}
	if t.Status == taxonomy.Completed {
		return &sdlcerr.InvalidTransition{From: t.Status.String(), To: taxonomy.InProgress.String(), Reason: "completed tasks cannot be restarted"}
	}
	now := time.Now().UTC()
	t.Status = taxonomy.InProgress
	t.StartedAt = &now
	t.Blocker = ""
	return nil
}

// Complete transitions a task to Completed and records the completion time.
func Complete(tasks []Task, id string) error {
	t, err := find(tasks, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	t.Status = taxonomy.Completed
	t.CompletedAt = &now
	return nil
}

// Block marks a task Blocked with the given reason. A task may be
// blocked independently of any feature-level blocker.
func Block(tasks []Task, id, reason string) error {
	t, err := find(tasks, id)
	if err != nil {
		return err
	}
	if t.Status == taxonomy.Completed {
		return &sdlcerr.InvalidTransition{From: t.Status.String(), To: taxonomy.Blocked.String(), Reason: "completed tasks cannot be blocked"}
	}
	t.Status = taxonomy.Blocked
	t.Blocker = reason
	return nil
}

// Edit updates a task's title and/or description in place.
func Edit(tasks []Task, id string, title, description *string) error {
	t, err := find(tasks, id)
	if err != nil {
		return err
	}
	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}
	return nil
}

// HasPending reports whether any task is Pending or InProgress — the
// condition the classifier uses to decide whether implement_task still
// applies in the Ready/Implementation phases.
func HasPending(tasks []Task) bool {
	for _, t := range tasks {
		if t.Status == taxonomy.Pending || t.Status == taxonomy.InProgress {
			return true
		}
	}
	return false
}

// NextPending returns the first Pending or InProgress task, in ledger
// order, for the classifier to hand out as the next implement_task.
func NextPending(tasks []Task) (Task, bool) {
	for _, t := range tasks {
		if t.Status == taxonomy.Pending || t.Status == taxonomy.InProgress {
			return t, true
		}
	}
	return Task{}, false
}
