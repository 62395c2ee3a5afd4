package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gastocerto/internal/ledger"
	"gastocerto/internal/models"
	"gastocerto/internal/services"
)

func printTransactions(w io.Writer, records []models.Transaction) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tKIND\tAMOUNT\tDESCRIPTION\tID")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Date, r.Kind, r.Amount.StringFixed(2), r.Description, r.ID)
	}
	_ = tw.Flush()
}

func printReview(w io.Writer, review *services.ImportReview) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSEL\tDATE\tKIND\tAMOUNT\tDESCRIPTION\t")
	for _, item := range review.Items {
		sel := "[ ]"
		if item.Selected {
			sel = "[x]"
		}
		note := ""
		if item.IsDuplicate {
			note = "already recorded"
		}
		c := item.Candidate
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", item.Index, sel, c.Date, c.Kind, c.Amount.StringFixed(2), c.Description, note)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d lines, %d selected, %d likely duplicates\n", len(review.Items), review.SelectedCount, review.DuplicateCount)
}

func printSummary(w io.Writer, totals *ledger.Totals) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Income\t%s\t\n", totals.Income.StringFixed(2))
	fmt.Fprintf(tw, "Expenses\t%s\t\n", totals.Expenses.StringFixed(2))
	fmt.Fprintf(tw, "Balance\t%s\t\n", totals.Balance.StringFixed(2))
	fmt.Fprintf(tw, "Records\t%d\t\n", totals.Count)
	_ = tw.Flush()
}
