package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgeplanner/core/internal/domain/dates"
	"github.com/forgeplanner/core/internal/domain/entities"
)

// NewTaskCommand creates the task management command
func NewTaskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Task calendar commands",
		Long:  "Create, list and complete calendar tasks, including recurring ones",
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				req, err := taskRequestFromFlags(cmd, args[0], dates.Today(a.clock.Now()))
				if err != nil {
					return err
				}
				task, err := a.tasks.Add(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
				return nil
			})
		},
	}
	addCmd.Flags().String("date", "", "Task date YYYY-MM-DD (default today)")
	addCmd.Flags().String("description", "", "Task description")
	addCmd.Flags().String("color", "", "Task color")
	addCmd.Flags().StringSlice("tags", nil, "Comma separated tags")
	addCmd.Flags().String("repeat", "", "Recurrence: daily, weekly or monthly")
	addCmd.Flags().String("until", "", "Last date of the recurrence YYYY-MM-DD")
	addCmd.Flags().Int("minutes", 0, "Time already spent in minutes")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetStringSlice("tags")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				printTasks(cmd.OutOrStdout(), entities.SortByOrder(entities.FilterByTags(a.tasks.Tasks(), tags)))
				return nil
			})
		},
	}
	listCmd.Flags().StringSlice("tags", nil, "Only tasks carrying any of these tags")

	dayCmd := &cobra.Command{
		Use:   "day [date]",
		Short: "Show the tasks visible on a day, recurring instances included",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				date, err := dateArg(args, a)
				if err != nil {
					return err
				}
				tasks := a.tasks.TasksForDate(date)
				header, _ := dates.FormatDayMonth(date)
				day, _ := dates.DayName(date)
				fmt.Fprintf(cmd.OutOrStdout(), "%s, %s\n", day, header)
				printTasks(cmd.OutOrStdout(), entities.SortByOrder(tasks))
				return nil
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completed flag of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				for _, t := range a.tasks.ToggleComplete(ctx, args[0]) {
					if t.ID == args[0] {
						fmt.Fprintf(cmd.OutOrStdout(), "%s completed: %t\n", t.Title, t.Completed)
						return nil
					}
				}
				return fmt.Errorf("task %s not found", args[0])
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				before := len(a.tasks.Tasks())
				after := len(a.tasks.Delete(ctx, args[0]))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", before-after)
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errors.New("refusing to clear tasks without --yes")
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				a.tasks.ClearAll(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "All tasks cleared")
				return nil
			})
		},
	}
	clearCmd.Flags().Bool("yes", false, "Confirm deleting every task")

	taskCmd.AddCommand(addCmd, listCmd, dayCmd, toggleCmd, deleteCmd, clearCmd)
	return taskCmd
}

// NewNoteCommand creates the quick note command
func NewNoteCommand() *cobra.Command {
	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Quick notes: tasks that expire after 3 days and are deleted after 30",
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a quick note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if date == "" {
					date = dates.Today(a.clock.Now())
				}
				note, err := a.tasks.AddQuickNote(ctx, args[0], date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created note %s, expires %s\n", note.ID, note.ExpiresAt.Local().Format("Jan 2 15:04"))
				return nil
			})
		},
	}
	addCmd.Flags().String("date", "", "Note date YYYY-MM-DD (default today)")

	noteCmd.AddCommand(addCmd)
	return noteCmd
}

func taskRequestFromFlags(cmd *cobra.Command, title, today string) (entities.CreateTaskRequest, error) {
	flags := cmd.Flags()
	date, _ := flags.GetString("date")
	description, _ := flags.GetString("description")
	color, _ := flags.GetString("color")
	tags, _ := flags.GetStringSlice("tags")
	repeat, _ := flags.GetString("repeat")
	until, _ := flags.GetString("until")
	minutes, _ := flags.GetInt("minutes")

	if date == "" {
		date = today
	}
	req := entities.CreateTaskRequest{
		Title:       title,
		Description: description,
		Date:        date,
		Color:       color,
		Tags:        tags,
		TimeSpent:   minutes,
	}
	if repeat != "" {
		freq := entities.Frequency(strings.ToLower(repeat))
		if !freq.IsValid() {
			return req, fmt.Errorf("%w: unknown recurrence %q", entities.ErrInvalidTask, repeat)
		}
		req.IsRecurring = true
		req.RecurrenceFrequency = freq
	}
	if until != "" {
		req.RecurrenceEndDate = &until
	}
	return req, nil
}

func dateArg(args []string, a *app) (string, error) {
	if len(args) == 0 {
		return dates.Today(a.clock.Now()), nil
	}
	if _, err := dates.Parse(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

func printTasks(w io.Writer, tasks []entities.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  %s  %s", mark, t.ID, t.Date, t.Title)
		if t.RecurrenceFrequency.IsValid() {
			line += fmt.Sprintf("  (%s)", t.RecurrenceFrequency)
		}
		if len(t.Tags) > 0 {
			line += "  #" + strings.Join(t.Tags, " #")
		}
		if spent := entities.FormatTimeSpent(t.TimeSpent); spent != "" {
			line += "  " + spent
		}
		fmt.Fprintln(w, line)
	}
}
