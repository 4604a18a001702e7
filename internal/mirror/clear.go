package mirror

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ClearResult lists the outcome of each delete issued by ClearCompleted.
type ClearResult struct {
	Deleted []string
	Failed  map[string]error
}

// BulkDeleteError reports the deletes that failed during ClearCompleted.
type BulkDeleteError struct {
	Attempted int
	Failed    map[string]error
}

func (e *BulkDeleteError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %v", id, e.Failed[id]))
	}
	return fmt.Sprintf("failed to delete %d of %d completed todos: %s",
		len(e.Failed), e.Attempted, strings.Join(parts, "; "))
}

func (e *BulkDeleteError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}

// ClearCompleted removes every completed todo from the mirror and issues one
// delete per record concurrently. It returns once all deletes have finished.
// Failed deletes are not restored locally; they are reported to the observer
// and collected in a *BulkDeleteError.
func (c *Controller) ClearCompleted(ctx context.Context) (ClearResult, error) {
	c.mu.Lock()
	var ids []string
	completed := make(map[string]bool)
	for _, t := range c.todos {
		if t.Completed {
			ids = append(ids, t.ID)
			completed[t.ID] = true
		}
	}
	c.todos = remove(c.todos, completed)
	c.mu.Unlock()

	errs := make([]error, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			errs[i] = c.api.DeleteTodo(ctx, id)
			return nil
		})
	}
	g.Wait()

	result := ClearResult{Deleted: []string{}, Failed: map[string]error{}}
	for i, id := range ids {
		if errs[i] != nil {
			result.Failed[id] = errs[i]
			c.observer.OnError("clear-completed", fmt.Errorf("delete %s: %w", id, errs[i]))
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}

	if len(result.Failed) > 0 {
		return result, &BulkDeleteError{Attempted: len(ids), Failed: result.Failed}
	}
	return result, nil
}

// IsPartialFailure reports whether err came from a ClearCompleted run in which
// some, but not all, deletes failed.
func IsPartialFailure(err error) bool {
	var bulk *BulkDeleteError
	return errors.As(err, &bulk) && len(bulk.Failed) < bulk.Attempted
}
