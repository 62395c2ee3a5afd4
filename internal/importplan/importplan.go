// Package importplan classifies recognized statement lines against the
// ledger and tracks which of them the user wants to commit.
package importplan

import (
	"errors"
	"sort"

	"gastocerto/internal/models"
	"gastocerto/internal/reconcile"
)

var ErrIndexOutOfRange = errors.New("import item index out of range")

// Item is one statement line with its duplicate verdict.
type Item struct {
	Candidate   models.Transaction `json:"candidate"`
	IsDuplicate bool               `json:"is_duplicate"`
}

// Plan marks every candidate against existing. The result has the same
// length and order as candidates.
func Plan(candidates, existing []models.Transaction) []Item {
	items := make([]Item, len(candidates))
	for i, c := range candidates {
		items[i] = Item{
			Candidate:   c,
			IsDuplicate: reconcile.IsDuplicate(c, existing),
		}
	}
	return items
}

// Review holds planned items and the set of indices selected for commit.
// A Review is not safe for concurrent use.
type Review struct {
	items    []Item
	selected map[int]struct{}
}

// NewReview selects every item not flagged as a duplicate.
func NewReview(items []Item) *Review {
	r := &Review{
		items:    items,
		selected: make(map[int]struct{}, len(items)),
	}
	for i, it := range items {
		if !it.IsDuplicate {
			r.selected[i] = struct{}{}
		}
	}
	return r
}

// Start plans candidates against existing and opens a review over them.
func Start(candidates, existing []models.Transaction) *Review {
	return NewReview(Plan(candidates, existing))
}

// Len returns the number of items under review.
func (r *Review) Len() int { return len(r.items) }

// Items returns a copy of the planned items.
func (r *Review) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// IsSelected reports whether index i will be committed.
func (r *Review) IsSelected(i int) bool {
	_, ok := r.selected[i]
	return ok
}

// SelectedCount returns how many items will be committed.
func (r *Review) SelectedCount() int { return len(r.selected) }

// DuplicateCount returns how many items were flagged as duplicates.
func (r *Review) DuplicateCount() int {
	n := 0
	for _, it := range r.items {
		if it.IsDuplicate {
			n++
		}
	}
	return n
}

// Selected returns the selected indices in ascending order.
func (r *Review) Selected() []int {
	out := make([]int, 0, len(r.selected))
	for i := range r.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Toggle flips the selection of index i.
func (r *Review) Toggle(i int) error {
	if i < 0 || i >= len(r.items) {
		return ErrIndexOutOfRange
	}
	if _, ok := r.selected[i]; ok {
		delete(r.selected, i)
	} else {
		r.selected[i] = struct{}{}
	}
	return nil
}

// Commit returns the selected candidates in their original order. An empty
// selection yields an empty, non-nil slice.
func (r *Review) Commit() []models.Transaction {
	out := make([]models.Transaction, 0, len(r.selected))
	for _, i := range r.Selected() {
		out = append(out, r.items[i].Candidate)
	}
	return out
}
