package models

import (
	"fmt"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus validates a status string against the closed enum.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority validates a priority string against the closed enum.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Task is a tracked work item. Comments are plain strings appended in order;
// Attachments holds object-storage keys of uploaded files.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	AuthorID    int64
	AssigneeID  int64
	Comments    []string
	Attachments []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows task listing by author and/or assignee, with paging.
type TaskFilter struct {
	AuthorID   *int64
	AssigneeID *int64
	PageSize   int
	PageNumber int
}
