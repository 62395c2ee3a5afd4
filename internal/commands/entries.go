package commands

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"gastocerto/internal/app"
	"gastocerto/internal/confirm"
	"gastocerto/internal/models"
	"gastocerto/internal/recognition"
	"gastocerto/internal/services"
	"gastocerto/internal/session"
)

type entryFlags struct {
	description  string
	amount       string
	date         string
	kind         string
	recurring    bool
	installments int
}

func (f entryFlags) submission() (confirm.Submission, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.amount))
	if err != nil {
		return confirm.Submission{}, fmt.Errorf("invalid amount %q", f.amount)
	}
	date := models.Today()
	if f.date != "" {
		if date, err = models.ParseDay(f.date); err != nil {
			return confirm.Submission{}, err
		}
	}
	return confirm.Submission{
		Record: models.Transaction{
			Description: f.description,
			Amount:      amount,
			Date:        date,
			Kind:        models.TransactionKind(strings.ToLower(f.kind)),
			IsRecurring: f.recurring,
		},
		Installments: f.installments,
	}, nil
}

func newAddCommand(d *deps) *cobra.Command {
	var flags entryFlags
	var yes bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Example: `  gastocerto add -d Aluguel -a 1500 --date 2024-03-05
  gastocerto add -d Notebook -a 1000 -n 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := flags.submission()
			if err != nil {
				return err
			}
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				out, err := a.Entries.Submit(sess.HouseholdID, sess.Owner(), sub)
				if err != nil {
					return err
				}
				return resolveEntry(cmd, a, sess, out, yes)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "what the money was for (required)")
	cmd.Flags().StringVarP(&flags.amount, "amount", "a", "", "amount, without sign (required)")
	cmd.Flags().StringVar(&flags.date, "date", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", string(models.KindExpense), "income or expense")
	cmd.Flags().BoolVar(&flags.recurring, "recurring", false, "mark as a recurring entry")
	cmd.Flags().IntVarP(&flags.installments, "installments", "n", 0, "split an expense into this many monthly installments")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "record possible duplicates without asking")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newScanCommand(d *deps) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Record an expense from a receipt image or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				out, err := a.Entries.Scan(cmd.Context(), sess.HouseholdID, sess.Owner(), doc)
				if err != nil {
					return err
				}
				return resolveEntry(cmd, a, sess, out, yes)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "record possible duplicates without asking")
	return cmd
}

// resolveEntry prints a written entry, or asks whether to write a held one.
func resolveEntry(cmd *cobra.Command, a *app.App, sess session.Session, out *services.EntryOutcome, yes bool) error {
	w := cmd.OutOrStdout()
	if out.State == confirm.Committed {
		printTransactions(w, out.Records)
		return nil
	}

	held := out.Held
	fmt.Fprintf(w, "An identical entry already exists: %s  %s  %s\n",
		held.Date, held.Amount.StringFixed(2), held.Description)

	record := yes
	if !record {
		var err error
		record, err = ask(cmd.InOrStdin(), w, "Record it anyway? [y/N] ")
		if err != nil {
			return err
		}
	}

	if !record {
		if err := a.Entries.Cancel(sess.HouseholdID, out.PendingID); err != nil {
			return err
		}
		fmt.Fprintln(w, "Discarded.")
		return nil
	}

	confirmed, err := a.Entries.Confirm(sess.HouseholdID, out.PendingID)
	if err != nil {
		return err
	}
	printTransactions(w, confirmed.Records)
	return nil
}

// ask reads a yes/no answer. Anything but an explicit yes is a no.
func ask(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}

// readDocument loads a file for recognition, guessing its type from the
// extension and then from its content.
func readDocument(path string) (recognition.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recognition.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mediaType
	}
	return recognition.Document{Name: filepath.Base(path), MIMEType: mimeType, Data: data}, nil
}
