package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gastocerto/internal/app"
	"gastocerto/internal/models"
	"gastocerto/internal/services"
	"gastocerto/internal/session"
)

// statementFile is a statement typed by hand:
//
//	lines:
//	  - {description: Mercado, amount: "350.40", date: 2024-03-10, kind: expense}
type statementFile struct {
	Lines []struct {
		Description string `yaml:"description"`
		Amount      string `yaml:"amount"`
		Date        string `yaml:"date"`
		Kind        string `yaml:"kind"`
	} `yaml:"lines"`
}

func readStatementFile(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var file statementFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	candidates := make([]models.Transaction, len(file.Lines))
	for i, line := range file.Lines {
		amount, err := decimal.NewFromString(line.Amount)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", i, line.Amount)
		}
		date, err := models.ParseDay(line.Date)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		kind := models.TransactionKind(strings.ToLower(line.Kind))
		if kind == "" {
			kind = models.KindExpense
		}
		candidates[i] = models.Transaction{Description: line.Description, Amount: amount, Date: date, Kind: kind}
	}
	return candidates, nil
}

func isStatementFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func newImportCommand(d *deps) *cobra.Command {
	var selectLines []int
	var all, dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import the lines of a bank statement",
		Long: `Reads every line of a statement (image, PDF or a YAML file with a "lines" list)
and records the selected ones in one go. By default every line that is not
already in the ledger is selected.`,
		Example: `  gastocerto import extrato.pdf
  gastocerto import extrato.pdf --select 0,2
  gastocerto import extrato.yaml --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && cmd.Flags().Changed("select") {
				return fmt.Errorf("--all and --select cannot be used together")
			}
			return d.withApp(cmd, func(a *app.App, sess session.Session) error {
				review, err := openReview(cmd, a, sess, args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				printReview(w, review)

				if dryRun {
					fmt.Fprintln(w, "Dry run, nothing recorded.")
					return a.Imports.Discard(sess.HouseholdID, review.ID)
				}

				var want map[int]bool
				switch {
				case all:
					want = make(map[int]bool, len(review.Items))
					for _, item := range review.Items {
						want[item.Index] = true
					}
				case cmd.Flags().Changed("select"):
					want = make(map[int]bool, len(selectLines))
					for _, idx := range selectLines {
						if idx < 0 || idx >= len(review.Items) {
							_ = a.Imports.Discard(sess.HouseholdID, review.ID)
							return fmt.Errorf("line %d does not exist (statement has %d lines)", idx, len(review.Items))
						}
						want[idx] = true
					}
				}

				if want != nil {
					for _, item := range review.Items {
						if item.Selected == want[item.Index] {
							continue
						}
						if _, err := a.Imports.Toggle(sess.HouseholdID, review.ID, item.Index); err != nil {
							return err
						}
					}
				}

				created, err := a.Imports.Commit(sess.HouseholdID, sess.Owner(), review.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Imported %d of %d lines.\n", len(created), len(review.Items))
				return nil
			})
		},
	}

	cmd.Flags().IntSliceVar(&selectLines, "select", nil, "record exactly these line numbers, e.g. 0,2")
	cmd.Flags().BoolVar(&all, "all", false, "record every line, including likely duplicates")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the review without recording anything")

	return cmd
}

func openReview(cmd *cobra.Command, a *app.App, sess session.Session, path string) (*services.ImportReview, error) {
	if isStatementFile(path) {
		candidates, err := readStatementFile(path)
		if err != nil {
			return nil, err
		}
		return a.Imports.Open(sess.HouseholdID, candidates)
	}

	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return a.Imports.Begin(cmd.Context(), sess.HouseholdID, doc)
}
