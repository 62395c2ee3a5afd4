package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gastocerto/internal/app"
	"gastocerto/internal/ledger"
	"gastocerto/internal/models"
	"gastocerto/internal/pagination"
	"gastocerto/internal/services"
	"gastocerto/internal/session"
)

func newListCommand(d *deps) *cobra.Command {
	var from, to, kind string
	var page pagination.PageRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the household history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := listFilter(from, to, kind)
			if err != nil {
				return err
			}
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				result, err := a.Transactions.GetHouseholdTransactions(sess.HouseholdID, page, filter)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				printTransactions(w, result.Data)
				fmt.Fprintf(w, "Page %d of %d (%d records)\n", result.Page, max(result.TotalPages, 1), result.TotalItems)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "income or expense")
	cmd.Flags().IntVar(&page.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&page.PageSize, "page-size", pagination.DefaultPageSize, "records per page")

	return cmd
}

func listFilter(from, to, kind string) (services.TransactionFilter, error) {
	var f services.TransactionFilter
	if from != "" {
		d, err := models.ParseDay(from)
		if err != nil {
			return f, err
		}
		f.From = &d
	}
	if to != "" {
		d, err := models.ParseDay(to)
		if err != nil {
			return f, err
		}
		f.To = &d
	}
	if kind != "" {
		k := models.TransactionKind(kind)
		if !k.Valid() {
			return f, models.ErrInvalidKind
		}
		f.Kind = &k
	}
	return f, nil
}

func newSummaryCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total income, total expenses and the balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				totals, err := a.Transactions.GetSummary(sess.HouseholdID)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), totals)
				return nil
			})
		},
	}
}

var errNoEvents = errors.New("watch needs AMQP_URL to hear about changes made elsewhere")

func newWatchCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the totals again after every change to the ledger",
		Long: `Prints the current totals, then prints them again whenever another
instance announces a change to the household. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				if a.Events == nil {
					return errNoEvents
				}
				snapshots, cancel := a.Broker.Subscribe(sess.HouseholdID)
				defer cancel()

				w := cmd.OutOrStdout()
				totals, err := a.Transactions.GetSummary(sess.HouseholdID)
				if err != nil {
					return err
				}
				printSummary(w, totals)

				g, ctx := errgroup.WithContext(cmd.Context())
				g.Go(func() error { return a.ConsumeChanges(ctx) })
				g.Go(func() error {
					return ledger.Watch(ctx, snapshots, func(t ledger.Totals) {
						fmt.Fprintln(w)
						printSummary(w, &t)
					})
				})
				if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}
}

func newDeleteCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				if err := a.Transactions.DeleteTransaction(sess.HouseholdID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newDescriptionsCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "descriptions",
		Short: "List the quick-entry descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				tags, err := a.Descriptions.ListDescriptions(sess.HouseholdID)
				if err != nil {
					return err
				}
				for _, tag := range tags {
					fmt.Fprintln(cmd.OutOrStdout(), tag.Name)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a description for this household",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				tag, err := a.Descriptions.AddDescription(sess.HouseholdID, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", tag.Name)
				return nil
			})
		},
	})

	return cmd
}
