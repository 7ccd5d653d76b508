package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgeplanner/core/internal/domain/dates"
	"github.com/forgeplanner/core/internal/domain/entities"
)

// NewBrainCommand creates the brain health command
func NewBrainCommand() *cobra.Command {
	brainCmd := &cobra.Command{
		Use:   "brain",
		Short: "Daily brain health checklist",
	}

	showCmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Show the checklist of a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				date, err := dateArg(args, a)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), a.brain.Record(ctx, date))
				return nil
			})
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <date> <item>...",
		Short: "Tick checklist items for a day",
		Long:  "Items: " + strings.Join(checklistItems, ", "),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				record := a.brain.Record(ctx, args[0])
				for _, item := range args[1:] {
					if err := tick(&record, item); err != nil {
						return err
					}
				}
				patch := entities.DayRecordPatch{
					Sleep:            &record.Sleep,
					Diet:             &record.Diet,
					Exercise:         &record.Exercise,
					StressManagement: &record.StressManagement,
					Learning:         &record.Learning,
				}
				updated, err := a.brain.UpdateRecord(ctx, args[0], patch)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), updated)
				return nil
			})
		},
	}

	scoreCmd := &cobra.Command{
		Use:   "score [date]",
		Short: "Show the scores of the week ending at date and the current streak",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				date, err := dateArg(args, a)
				if err != nil {
					return err
				}
				week, err := a.brain.WeekData(ctx, date)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, d := range week {
					day, _ := dates.DayName(d.Date)
					fmt.Fprintf(out, "%s %s %3d%%\n", day[:3], d.Date, d.Score)
				}
				fmt.Fprintf(out, "Streak: %d day(s)\n", a.brain.CurrentStreak(ctx))
				return nil
			})
		},
	}

	brainCmd.AddCommand(showCmd, checkCmd, scoreCmd)
	return brainCmd
}

var checklistItems = []string{
	"sleep", "exercise", "learning",
	"fruits", "fish", "nuts", "beans", "greens", "oliveOil",
	"yoga", "mindfulness", "socialTime",
}

func tick(r *entities.DayRecord, item string) error {
	fields := map[string]*bool{
		"sleep":       &r.Sleep,
		"exercise":    &r.Exercise,
		"learning":    &r.Learning,
		"fruits":      &r.Diet.Fruits,
		"fish":        &r.Diet.Fish,
		"nuts":        &r.Diet.Nuts,
		"beans":       &r.Diet.Beans,
		"greens":      &r.Diet.Greens,
		"oliveoil":    &r.Diet.OliveOil,
		"yoga":        &r.StressManagement.Yoga,
		"mindfulness": &r.StressManagement.Mindfulness,
		"socialtime":  &r.StressManagement.SocialTime,
	}
	field, ok := fields[strings.ToLower(item)]
	if !ok {
		return fmt.Errorf("unknown checklist item %q", item)
	}
	*field = true
	return nil
}

func printRecord(w io.Writer, r entities.DayRecord) {
	box := func(b bool) string {
		if b {
			return "[x]"
		}
		return "[ ]"
	}
	fmt.Fprintf(w, "%s  score %d%%\n", r.Date, r.Score())
	fmt.Fprintf(w, "%s sleep  %s exercise  %s learning\n", box(r.Sleep), box(r.Exercise), box(r.Learning))
	fmt.Fprintf(w, "diet: %s fruits %s fish %s nuts %s beans %s greens %s olive oil\n",
		box(r.Diet.Fruits), box(r.Diet.Fish), box(r.Diet.Nuts), box(r.Diet.Beans), box(r.Diet.Greens), box(r.Diet.OliveOil))
	fmt.Fprintf(w, "stress: %s yoga %s mindfulness %s social time\n",
		box(r.StressManagement.Yoga), box(r.StressManagement.Mindfulness), box(r.StressManagement.SocialTime))
}

// NewMoneyCommand creates the money tracker command
func NewMoneyCommand() *cobra.Command {
	moneyCmd := &cobra.Command{
		Use:   "money",
		Short: "Income and expense tracker",
	}

	addCmd := &cobra.Command{
		Use:   "add <income|expense> <amount> <category>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			if _, err := fmt.Sscanf(args[1], "%g", &amount); err != nil {
				return fmt.Errorf("%w: amount %q", entities.ErrInvalidTransaction, args[1])
			}
			date, _ := cmd.Flags().GetString("date")
			description, _ := cmd.Flags().GetString("description")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if date == "" {
					date = dates.Today(a.clock.Now())
				}
				tx, err := a.money.Add(ctx, entities.TransactionRequest{
					Date:        date,
					Type:        entities.TransactionType(args[0]),
					Category:    args[2],
					Description: description,
					Amount:      amount,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s %.2f (%s)\n", tx.Type, tx.Category, tx.Amount, tx.ID)
				return nil
			})
		},
	}
	addCmd.Flags().String("date", "", "Transaction date YYYY-MM-DD (default today)")
	addCmd.Flags().String("description", "", "Description")

	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Show income, expenses and balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				txs := a.money.Transactions(ctx)
				if start != "" || end != "" {
					if end == "" {
						end = dates.Today(a.clock.Now())
					}
					txs = a.money.ByDateRange(ctx, start, end)
				}
				currency := a.money.Settings(ctx).Currency
				totals := entities.CalculateTotals(txs)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Income:   %10.2f %s\n", totals.Income, currency)
				fmt.Fprintf(out, "Expenses: %10.2f %s\n", totals.Expenses, currency)
				fmt.Fprintf(out, "Balance:  %10.2f %s\n", totals.Balance, currency)

				breakdown := entities.CategoryBreakdown(txs)
				categories := make([]string, 0, len(breakdown))
				for c := range breakdown {
					categories = append(categories, c)
				}
				sort.Strings(categories)
				for _, c := range categories {
					fmt.Fprintf(out, "  %-16s %10.2f\n", c, breakdown[c].Total)
				}
				return nil
			})
		},
	}
	totalsCmd.Flags().String("start", "", "Range start YYYY-MM-DD")
	totalsCmd.Flags().String("end", "", "Range end YYYY-MM-DD (default today)")

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write every transaction as JSON to file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if len(args) == 0 {
					return a.money.Export(ctx, cmd.OutOrStdout())
				}
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				if err := a.money.Export(ctx, f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", args[0])
				return nil
			})
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored transactions with an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()
			return withApp(cmd, func(ctx context.Context, a *app) error {
				doc, err := a.money.Import(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", len(doc.Transactions))
				return nil
			})
		},
	}

	moneyCmd.AddCommand(addCmd, totalsCmd, exportCmd, importCmd)
	return moneyCmd
}

// NewFocusCommand creates the focus stats command
func NewFocusCommand() *cobra.Command {
	focusCmd := &cobra.Command{
		Use:   "focus",
		Short: "Focus session counters for 30 and 45 minute sessions",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show attempts and completions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				for _, minutes := range []int{30, 45} {
					fmt.Fprintf(cmd.OutOrStdout(), "%dm %s\n", minutes, a.focus.Stats(ctx, minutes))
				}
				return nil
			})
		},
	}

	record := func(use, short string, completed bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <30|45>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				minutes, err := focusMinutes(args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, func(ctx context.Context, a *app) error {
					stats := a.focus.RecordAttempt
					if completed {
						stats = a.focus.RecordCompletion
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%dm %s\n", minutes, stats(ctx, minutes))
					return nil
				})
			},
		}
	}

	focusCmd.AddCommand(showCmd,
		record("attempt", "Count a started session", false),
		record("complete", "Count a finished session", true),
	)
	return focusCmd
}

func focusMinutes(arg string) (int, error) {
	switch arg {
	case "30":
		return 30, nil
	case "45":
		return 45, nil
	default:
		return 0, fmt.Errorf("focus sessions are 30 or 45 minutes, got %q", arg)
	}
}
