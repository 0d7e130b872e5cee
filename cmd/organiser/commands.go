package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/config"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/dashboard"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/finance"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/journal"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/notify"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/period"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
)

// now is replaced in tests.
var now = time.Now

// persisted turns a write failure into a warning on stderr: the change is
// kept in memory and retried when the store is closed.
func persisted(cmd *cobra.Command, err error) error {
	if err != nil && errors.Is(err, store.ErrPersist) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	return err
}

func tuiCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeTUI(cmd.Context(), *g)
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold organiser.toml and the data directory here",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			created, err := config.ScaffoldProject(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "All files already exist, nothing to create.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}
}

func statusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				fmt.Fprint(cmd.OutOrStdout(), formatStatus(dashboard.Compute(a.store.State(), now())))
				return nil
			})
		},
	}
}

// --- tasks ---

func taskCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(taskAddCmd(g), taskListCmd(g), taskDoneCmd(g), taskRmCmd(g))
	return cmd
}

func taskAddCmd(g *globalFlags) *cobra.Command {
	var d tasks.Draft
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Title = strings.Join(args, " ")
			return withApp(*g, func(a *app) error {
				t, err := tasks.Add(a.store, d, now())
				if err = persisted(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", t.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&d.Description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&d.Priority, "priority", "p", "medium", "low, medium or high")
	cmd.Flags().StringVar(&d.DueDate, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func taskListCmd(g *globalFlags) *cobra.Command {
	var q tasks.Query
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				list := tasks.Filter(store.Items(a.store, store.Tasks), q)
				fmt.Fprint(cmd.OutOrStdout(), formatTasks(list, now()))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "search title and description")
	cmd.Flags().StringVar(&q.Priority, "priority", tasks.All, "all, low, medium or high")
	cmd.Flags().StringVar(&q.Status, "status", tasks.All, "all, completed or pending")
	return cmd
}

func taskDoneCmd(g *globalFlags) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				t, found, err := store.UpdateItem(a.store, store.Tasks, args[0], store.Patch{"completed": !undo})
				if err = persisted(cmd, err); err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no task with id %s", args[0])
				}
				state := "completed"
				if !t.Completed {
					state = "pending"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q marked %s\n", t.Title, state)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task pending again")
	return cmd
}

func taskRmCmd(g *globalFlags) *cobra.Command {
	return rmCmd(g, "task", func(a *app, id string) (bool, error) {
		return store.DeleteItem(a.store, store.Tasks, id)
	})
}

// rmCmd builds an "rm <id>" command around del.
func rmCmd(g *globalFlags, what string, del func(a *app, id string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a " + what,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				found, err := del(a, args[0])
				if err = persisted(cmd, err); err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no %s with id %s", what, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", what, args[0])
				return nil
			})
		},
	}
}

// --- journal ---

func journalCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write and read journal entries",
	}
	cmd.AddCommand(journalAddCmd(g), journalListCmd(g), rmCmd(g, "entry", func(a *app, id string) (bool, error) {
		return store.DeleteItem(a.store, store.Journal, id)
	}))
	return cmd
}

func journalAddCmd(g *globalFlags) *cobra.Command {
	var d journal.Draft
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Write a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Title = strings.Join(args, " ")
			return withApp(*g, func(a *app) error {
				e, err := journal.Add(a.store, d, now())
				if err = persisted(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added entry %s for %s\n", e.ID, e.Date)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&d.Content, "content", "c", "", "entry text")
	cmd.Flags().StringVarP(&d.Mood, "mood", "m", "neutral", strings.Join(journal.Moods, ", "))
	cmd.Flags().StringVarP(&d.Tags, "tags", "t", "", "comma separated tags")
	cmd.Flags().StringVar(&d.Date, "date", "", "entry date (YYYY-MM-DD, default today)")
	return cmd
}

func journalListCmd(g *globalFlags) *cobra.Command {
	var search, mood string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				entries := journal.Filter(store.Items(a.store, store.Journal), search, mood)
				fmt.Fprint(cmd.OutOrStdout(), formatJournal(entries))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search title, content and tags")
	cmd.Flags().StringVar(&mood, "mood", journal.AllMoods, "filter by mood")
	return cmd
}

// --- finance ---

func financeCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Track income, expenses and budgets",
	}
	cmd.AddCommand(
		financeAddCmd(g),
		financeBudgetCmd(g),
		financeListCmd(g),
		financeSummaryCmd(g),
		rmCmd(g, "transaction", func(a *app, id string) (bool, error) {
			found, err := store.DeleteItem(a.store, store.Transactions, id)
			if found || err != nil {
				return found, err
			}
			return store.DeleteItem(a.store, store.Budgets, id)
		}),
	)
	return cmd
}

func financeAddCmd(g *globalFlags) *cobra.Command {
	var d finance.TransactionDraft
	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record a transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Description = strings.Join(args, " ")
			return withApp(*g, func(a *app) error {
				tx, err := finance.AddTransaction(a.store, d, now())
				if err = persisted(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s of %s\n", tx.Type, tx.ID, finance.FormatAmount(tx.Amount))
				return nil
			})
		},
	}
	cmd.Flags().Float64VarP(&d.Amount, "amount", "a", 0, "amount (positive)")
	cmd.Flags().StringVarP(&d.Type, "type", "t", finance.Expense, "income or expense")
	cmd.Flags().StringVarP(&d.Category, "category", "c", "other", "category")
	cmd.Flags().StringVar(&d.Date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	return cmd
}

func financeBudgetCmd(g *globalFlags) *cobra.Command {
	var d finance.BudgetDraft
	cmd := &cobra.Command{
		Use:   "budget <category>",
		Short: "Set a spending budget for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Category = args[0]
			return withApp(*g, func(a *app) error {
				b, err := finance.AddBudget(a.store, d, now())
				if err = persisted(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s budget %s for %s\n", b.Period, b.ID, b.Category)
				return nil
			})
		},
	}
	cmd.Flags().Float64VarP(&d.Amount, "amount", "a", 0, "budget amount (positive)")
	cmd.Flags().StringVarP(&d.Period, "period", "p", finance.Monthly, "weekly, monthly or yearly")
	return cmd
}

func financeListCmd(g *globalFlags) *cobra.Command {
	var search, typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				txs := finance.Filter(store.Items(a.store, store.Transactions), search, typ)
				fmt.Fprint(cmd.OutOrStdout(), formatTransactions(txs))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search descriptions")
	cmd.Flags().StringVarP(&typ, "type", "t", finance.AllTypes, "all, income or expense")
	return cmd
}

func financeSummaryCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balance, budgets and monthly totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				fin := store.Section(a.store, store.FinancesSection)
				fmt.Fprint(cmd.OutOrStdout(), formatFinanceSummary(fin, now()))
				return nil
			})
		},
	}
}

// --- period ---

func periodCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Track cycles and symptoms",
	}
	cmd.AddCommand(periodAddCmd(g), periodSymptomCmd(g), periodPredictCmd(g))
	return cmd
}

func periodAddCmd(g *globalFlags) *cobra.Command {
	var d period.CycleDraft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if d.StartDate == "" {
				d.StartDate = now().Format(period.DateLayout)
			}
			return withApp(*g, func(a *app) error {
				c, err := period.AddCycle(a.store, d, now())
				if err = persisted(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added cycle %s starting %s\n", c.ID, c.StartDate)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&d.StartDate, "start", "", "start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&d.EndDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.Flow, "flow", "medium", strings.Join(period.Flows, ", "))
	cmd.Flags().StringSliceVar(&d.Symptoms, "symptoms", nil, "comma separated symptoms")
	return cmd
}

func periodSymptomCmd(g *globalFlags) *cobra.Command {
	var d period.SymptomDraft
	cmd := &cobra.Command{
		Use:   "symptom <type>",
		Short: "Log a symptom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Type = args[0]
			return withApp(*g, func(a *app) error {
				sym, err := period.AddSymptom(a.store, d, now())
				if err = persisted(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s) on %s\n", sym.Type, sym.Severity, sym.Date)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&d.Date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&d.Severity, "severity", "mild", strings.Join(period.Severities, ", "))
	cmd.Flags().StringVar(&d.Notes, "notes", "", "free text")
	return cmd
}

func periodPredictCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict the next cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				p, ok := period.Predict(store.Items(a.store, store.Cycles))
				fmt.Fprint(cmd.OutOrStdout(), formatPrediction(p, ok))
				return nil
			})
		},
	}
}

// --- chat ---

func chatCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the organiser bot",
	}
	cmd.AddCommand(chatNewCmd(g), chatSendCmd(g), chatListCmd(g), rmCmd(g, "conversation", func(a *app, id string) (bool, error) {
		return a.chat.DeleteConversation(id)
	}))
	return cmd
}

func chatNewCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Start a conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				c, err := a.chat.CreateConversation(strings.Join(args, " "))
				if err = persisted(cmd, err); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created conversation %s\n", c.ID)
				return nil
			})
		},
	}
}

func chatSendCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "send <conversation-id> <message>",
		Short: "Send a message and wait for the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				sent, err := a.chat.SendMessage(args[0], strings.Join(args[1:], " "))
				if err = persisted(cmd, err); err != nil {
					return err
				}
				a.chat.Wait()
				fmt.Fprint(cmd.OutOrStdout(), formatMessages(repliesSince(a.chat.Messages(args[0]), sent)))
				return nil
			})
		},
	}
}

func chatListCmd(g *globalFlags) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list [conversation-id]",
		Short: "List conversations, or the messages of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					fmt.Fprint(out, formatMessages(a.chat.Messages(args[0])))
					return nil
				}
				fmt.Fprint(out, formatConversations(a.chat.Conversations(search)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search conversation names")
	return cmd
}

// repliesSince returns sent and every message after it.
func repliesSince(msgs []store.Message, sent store.Message) []store.Message {
	for i, m := range msgs {
		if m.ID == sent.ID {
			return msgs[i:]
		}
	}
	return nil
}

// --- export and remind ---

func exportCmd(g *globalFlags) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole state as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				data, err := exportState(a.store.State(), format)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func remindCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send (or print) today's reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*g, func(a *app) error {
				return remind(cmd, a.notifier, notify.Reminder(a.store.State(), now()))
			})
		},
	}
}

func remind(cmd *cobra.Command, n *notify.Notifier, message string) error {
	out := cmd.OutOrStdout()
	if message == "" {
		fmt.Fprintln(out, "Nothing to remind you of today.")
		return nil
	}
	sent, err := n.Remind(cmd.Context(), message)
	if err != nil {
		return err
	}
	if sent {
		fmt.Fprintln(out, "Reminder sent.")
		return nil
	}
	printLines(out, message)
	return nil
}

func printLines(w io.Writer, s string) {
	fmt.Fprintln(w, strings.TrimRight(s, "\n"))
}
