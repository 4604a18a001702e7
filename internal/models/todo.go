package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when an operation targets an id that does not exist.
var ErrNotFound = errors.New("todo not found")

var validate = validator.New()

// Todo is a single task record.
type Todo struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// TodoPatch holds the fields of a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateTask checks that a task description is non-empty once surrounding
// whitespace is removed.
func ValidateTask(task string) error {
	if err := validate.Var(strings.TrimSpace(task), "required"); err != nil {
		return &ValidationError{Field: "task", Message: "task is required"}
	}
	return nil
}

// Validate checks that the todo has valid field values.
func (t *Todo) Validate() error {
	return ValidateTask(t.Task)
}

// Validate checks the fields present in the patch.
func (p TodoPatch) Validate() error {
	if p.Task != nil {
		return ValidateTask(*p.Task)
	}
	return nil
}

// IsEmpty returns true if the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Task == nil && p.Completed == nil
}

// Apply returns a copy of t with the patch applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Task != nil {
		t.Task = *p.Task
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
