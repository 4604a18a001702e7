package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"todos/internal/client"
	"todos/internal/mirror"
	"todos/internal/models"
	"todos/internal/tui"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// controller returns a loaded controller for the configured backend.
func (a *app) controller(ctx context.Context) (*mirror.Controller, error) {
	c := mirror.New(client.New(a.cfg.Client.BackendURL, nil), mirror.LogObserver(a.logger))
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newTUICmd(a *app) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit todos interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI, so failures are logged to a file.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := a.cfg.NewLogger(w)

			ctrl := mirror.New(client.New(a.cfg.Client.BackendURL, nil), mirror.LogObserver(logger))
			return tui.Run(cmd.Context(), ctrl)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "todos-tui.log"), "file that receives request failures")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var filterName string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := models.ParseFilter(filterName)
			if err != nil {
				return err
			}

			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}

			printList(cmd.OutOrStdout(), c.Snapshot(), filter)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filterName, "filter", "f", "all", "all, active or completed")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task...>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}

			todo, err := c.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✔ added "+todo.Task))
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle completion of the n-th todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, todo, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			updated, err := c.Toggle(cmd.Context(), todo.ID)
			if err != nil {
				return err
			}
			state := "active"
			if updated.Completed {
				state = "completed"
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✔ %s is %s", updated.Task, state)))
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <n> <task...>",
		Short: "Replace the text of the n-th todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, todo, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			updated, err := c.Edit(cmd.Context(), todo.ID, strings.Join(args[1:], " "))
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✔ renamed to "+updated.Task))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <n>",
		Short: "Delete the n-th todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, todo, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := c.Delete(cmd.Context(), todo.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✔ deleted "+todo.Task))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}

			result, err := c.ClearCompleted(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✔ deleted %d completed", len(result.Deleted))))
			if mirror.IsPartialFailure(err) {
				fmt.Fprintln(out, pendingStyle.Render(fmt.Sprintf("! %d could not be deleted", len(result.Failed))))
			}
			return err
		},
	}
}

// explain turns a server-side rejection into a short message.
func explain(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.IsValidation() {
		return fmt.Errorf("rejected by server: %s", apiErr.Message)
	}
	return err
}

// resolve loads the collection and returns the todo at the 1-based position
// arg of the unfiltered list.
func (a *app) resolve(ctx context.Context, arg string) (*mirror.Controller, models.Todo, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, models.Todo{}, fmt.Errorf("not a number: %s", arg)
	}

	c, err := a.controller(ctx)
	if err != nil {
		return nil, models.Todo{}, err
	}

	todos := c.Snapshot().Todos
	if n < 1 || n > len(todos) {
		return nil, models.Todo{}, fmt.Errorf("no todo at position %d (have %d)", n, len(todos))
	}
	return c, todos[n-1], nil
}

func printList(w io.Writer, snap mirror.Snapshot, filter models.Filter) {
	active, completed := snap.Counts()
	fmt.Fprintf(w, "%s active tasks, %s completed\n\n",
		pendingStyle.Render(strconv.Itoa(active)),
		successStyle.Render(strconv.Itoa(completed)))

	shown := 0
	for i, todo := range snap.Todos {
		if !filter.Match(todo) {
			continue
		}
		shown++

		box, text := "☐", todo.Task
		if todo.Completed {
			box, text = successStyle.Render("☑"), doneStyle.Render(todo.Task)
		}
		fmt.Fprintf(w, "%3d. %s %s %s\n", i+1, box, text, mutedStyle.Render(todo.ID))
	}

	if shown == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No tasks found. Add a task to get started!"))
	}
}
