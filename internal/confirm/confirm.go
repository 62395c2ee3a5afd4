// Package confirm runs the decision for a single candidate: write it
// straight away, or hold it until the user confirms a suspected duplicate.
package confirm

import (
	"errors"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"gastocerto/internal/models"
	"gastocerto/internal/reconcile"
)

// State of a Flow.
type State int

const (
	Pending State = iota
	AwaitingConfirmation
	Committed
	Discarded
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Committed:
		return "committed"
	case Discarded:
		return "discarded"
	}
	return "unknown"
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Committed || s == Discarded
}

var ErrInvalidTransition = errors.New("invalid confirmation transition")

// Submission is the record the user wants to write. Installments greater
// than one asks for the record to be expanded when it is written.
type Submission struct {
	Record       models.Transaction
	Installments int
}

// Inserter writes a submission to the ledger.
type Inserter func(Submission) error

// Held is what the user is shown when asked to confirm a suspected duplicate.
type Held struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        civil.Date      `json:"date"`
}

// Flow is a single-use state machine. It is not safe for concurrent use.
type Flow struct {
	state State
	held  Submission
}

// New opens a flow for sub in the Pending state.
func New(sub Submission) *Flow {
	return &Flow{state: Pending, held: sub}
}

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Submission returns the held submission.
func (f *Flow) Submission() Submission { return f.held }

// Review returns the fields shown in the confirmation prompt.
func (f *Flow) Review() Held {
	return Held{
		Description: f.held.Record.Description,
		Amount:      f.held.Record.Amount,
		Date:        f.held.Record.Date,
	}
}

// Resolve checks the held record against existing. A suspected duplicate
// moves the flow to AwaitingConfirmation without writing; otherwise insert
// is called and the flow becomes Committed. A failed insert leaves the
// flow Pending.
func (f *Flow) Resolve(existing []models.Transaction, insert Inserter) (State, error) {
	if f.state != Pending {
		return f.state, ErrInvalidTransition
	}
	if reconcile.IsDuplicate(f.held.Record, existing) {
		f.state = AwaitingConfirmation
		return f.state, nil
	}
	if err := insert(f.held); err != nil {
		return f.state, err
	}
	f.state = Committed
	return f.state, nil
}

// Confirm writes the held submission after the user accepted the duplicate.
// A failed insert leaves the flow AwaitingConfirmation.
func (f *Flow) Confirm(insert Inserter) error {
	if f.state != AwaitingConfirmation {
		return ErrInvalidTransition
	}
	if err := insert(f.held); err != nil {
		return err
	}
	f.state = Committed
	return nil
}

// Cancel discards the held submission without writing anything.
func (f *Flow) Cancel() error {
	if f.state.Terminal() {
		return ErrInvalidTransition
	}
	f.state = Discarded
	return nil
}
