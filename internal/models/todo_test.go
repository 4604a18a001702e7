package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoValidation_Task(t *testing.T) {
	tests := []struct {
		name    string
		todo    Todo
		wantErr bool
	}{
		{name: "empty task should fail", todo: Todo{Task: ""}, wantErr: true},
		{name: "whitespace task should fail", todo: Todo{Task: "  \t\n"}, wantErr: true},
		{name: "valid task should pass", todo: Todo{Task: "buy milk"}, wantErr: false},
		{name: "padded task should pass", todo: Todo{Task: "  buy milk "}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.todo.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, "task is required", err.Error())
		})
	}
}

func TestTodoPatch_Validate(t *testing.T) {
	empty := ""
	text := "B"
	done := true

	assert.NoError(t, TodoPatch{}.Validate())
	assert.NoError(t, TodoPatch{Completed: &done}.Validate())
	assert.NoError(t, TodoPatch{Task: &text}.Validate())
	assert.True(t, IsValidation(TodoPatch{Task: &empty, Completed: &done}.Validate()))
}

func TestTodoPatch_ApplyPreservesUntouchedFields(t *testing.T) {
	done := true
	orig := Todo{ID: "1", Task: "A", Completed: false}

	got := TodoPatch{Completed: &done}.Apply(orig)

	assert.Equal(t, Todo{ID: "1", Task: "A", Completed: true}, got)
	assert.False(t, orig.Completed, "Apply must not modify its argument")
}

func TestTodoPatch_IsEmpty(t *testing.T) {
	text := "x"
	assert.True(t, TodoPatch{}.IsEmpty())
	assert.False(t, TodoPatch{Task: &text}.IsEmpty())
}
