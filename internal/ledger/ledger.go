// Package ledger owns the in-memory expense collection and the form state
// a UI binds to. Every mutation validates the pending input, persists the
// full collection and recomputes the monthly summary.
//
// A Ledger is not safe for concurrent use; it expects a single UI thread.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spesedesk/internal/core"
	"spesedesk/internal/log"
)

// Store is the persistence gateway for the full record collection.
type Store interface {
	Load(ctx context.Context) ([]core.Record, error)
	Save(ctx context.Context, records []core.Record) error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for operation outcomes.
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger.WithComponent(log.ComponentLedger)
		}
	}
}

// WithClock replaces time.Now for default dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithCurrencySymbol sets the symbol used in the summary.
func WithCurrencySymbol(symbol string) Option {
	return func(l *Ledger) {
		if symbol != "" {
			l.symbol = symbol
		}
	}
}

// Ledger holds the record collection, the current selection and the pending
// form input, and notifies subscribers as any of them change.
type Ledger struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
	symbol string

	records  []*core.Record
	selected *core.Record
	input    core.Input
	summary  string

	// selecting guards against selection changes made by subscribers while
	// a selection is being applied.
	selecting bool

	subs      []subscriber
	nextSubID int
}

// New loads the collection from store and computes the initial summary.
//
// The returned Ledger is usable even when err is non-nil: a load failure is
// reported as a *core.PersistenceError and the Ledger starts empty.
func New(ctx context.Context, store Store, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, &core.ConfigurationError{Setting: "store", Message: "must not be nil"}
	}
	l := &Ledger{
		store:  store,
		logger: log.Default().WithComponent(log.ComponentLedger),
		now:    time.Now,
		symbol: core.DefaultCurrencySymbol,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.input = core.DefaultInput(l.now())

	records, err := store.Load(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to load records, starting empty",
			log.NewFields().WithOperation(log.OpLoad).WithError(err, log.ErrorTypePersistence).ToSlice()...)
		records = nil
	}
	l.records = make([]*core.Record, len(records))
	for i := range records {
		r := records[i]
		l.records[i] = &r
	}
	l.ComputeSummary()

	if err == nil {
		l.logger.InfoContext(ctx, "Records loaded", log.FieldOperation, log.OpLoad, log.FieldCount, len(l.records))
	}
	return l, err
}

// Records returns a snapshot of the collection in insertion order.
func (l *Ledger) Records() []core.Record {
	out := make([]core.Record, len(l.records))
	for i, r := range l.records {
		out[i] = *r
	}
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Selected returns the selected record, if any.
func (l *Ledger) Selected() (core.Record, bool) {
	if l.selected == nil {
		return core.Record{}, false
	}
	return *l.selected, true
}

// Input returns the pending form values.
func (l *Ledger) Input() core.Input {
	return l.input
}

// Summary returns the last computed summary text.
func (l *Ledger) Summary() string {
	return l.summary
}

// CanMutateSelection reports whether update and delete have a target.
func (l *Ledger) CanMutateSelection() bool {
	return l.selected != nil
}

// SetDescription replaces the pending description.
func (l *Ledger) SetDescription(s string) {
	l.input.Description = s
	l.emit(Event{Kind: EventInputChanged})
}

// SetAmount replaces the pending amount.
func (l *Ledger) SetAmount(d decimal.Decimal) {
	l.input.Amount = d
	l.emit(Event{Kind: EventInputChanged})
}

// SetDate replaces the pending date. A zero date leaves a record's date
// untouched on update.
func (l *Ledger) SetDate(t time.Time) {
	l.input.Date = t
	l.emit(Event{Kind: EventInputChanged})
}

// Select makes the record with the given id current and copies its fields
// into the pending input. An empty id clears the selection without touching
// the input. Selecting the current record again does nothing.
func (l *Ledger) Select(id string) error {
	if l.selecting {
		return nil
	}
	if id == "" {
		l.setSelected(nil)
		return nil
	}
	if l.selected != nil && l.selected.ID == id {
		return nil
	}
	rec := l.find(id)
	if rec == nil {
		err := fmt.Errorf("select %q: %w", id, core.ErrRecordNotFound)
		l.logger.Warn("Record not found",
			log.NewFields().WithOperation(log.OpSelect).WithError(err, log.ErrorTypeNotFound).ToSlice()...)
		return err
	}

	l.selecting = true
	defer func() { l.selecting = false }()

	l.selected = rec
	l.input = rec.Input()
	l.emit(Event{Kind: EventSelectionChanged, RecordID: rec.ID})
	l.emit(Event{Kind: EventInputChanged})
	l.logger.Debug("Record selected", log.FieldOperation, log.OpSelect, log.FieldRecordID, rec.ID)
	return nil
}

// Add creates a record from the pending input.
//
// A save failure is returned but the record stays in memory; the file then
// lags the collection until the next successful save.
func (l *Ledger) Add(ctx context.Context) error {
	if err := core.Validate(l.input); err != nil {
		l.rejected(ctx, log.OpCreate, err)
		return err
	}

	rec := core.NewRecord(l.input, l.now())
	l.records = append(l.records, &rec)
	l.emit(Event{Kind: EventRecordsChanged, RecordID: rec.ID})

	err := l.persist(ctx, log.OpCreate, rec)
	l.settle()
	return err
}

// Update writes the pending input into the selected record. It does nothing
// without a selection. Save failures do not revert the change.
func (l *Ledger) Update(ctx context.Context) error {
	if l.selected == nil {
		return nil
	}
	if err := core.Validate(l.input); err != nil {
		l.rejected(ctx, log.OpUpdate, err)
		return err
	}

	l.selected.Apply(l.input)
	rec := *l.selected
	l.emit(Event{Kind: EventRecordChanged, RecordID: rec.ID})

	err := l.persist(ctx, log.OpUpdate, rec)
	l.settle()
	return err
}

// Delete removes the selected record. It does nothing without a selection.
// Callers must obtain any user confirmation before calling it.
func (l *Ledger) Delete(ctx context.Context) error {
	if l.selected == nil {
		return nil
	}
	rec := *l.selected
	for i, r := range l.records {
		if r == l.selected {
			l.records = append(l.records[:i], l.records[i+1:]...)
			break
		}
	}
	l.emit(Event{Kind: EventRecordsChanged, RecordID: rec.ID})

	err := l.persist(ctx, log.OpDelete, rec)
	l.settle()
	return err
}

// ClearSelection drops the selection and resets the pending input.
func (l *Ledger) ClearSelection() {
	l.setSelected(nil)
	l.resetInput()
	l.logger.Debug("Selection cleared", log.FieldOperation, log.OpClear)
}

// ComputeSummary recomputes and returns the monthly summary text.
func (l *Ledger) ComputeSummary() string {
	summary := FormatSummary(Summarize(l.Records()), l.symbol)
	if summary != l.summary {
		l.summary = summary
		l.emit(Event{Kind: EventSummaryChanged})
		l.logger.Debug("Summary recomputed", log.FieldOperation, log.OpSummary, log.FieldCount, len(l.records))
	}
	return l.summary
}

// MonthTotals returns the grouped totals behind the summary text.
func (l *Ledger) MonthTotals() []core.MonthTotal {
	return Summarize(l.Records())
}

func (l *Ledger) find(id string) *core.Record {
	for _, r := range l.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (l *Ledger) setSelected(rec *core.Record) {
	if l.selected == rec {
		return
	}
	l.selected = rec
	id := ""
	if rec != nil {
		id = rec.ID
	}
	l.emit(Event{Kind: EventSelectionChanged, RecordID: id})
}

func (l *Ledger) resetInput() {
	l.input = core.DefaultInput(l.now())
	l.emit(Event{Kind: EventInputChanged})
}

// settle runs the bookkeeping shared by every mutation.
func (l *Ledger) settle() {
	l.ComputeSummary()
	l.resetInput()
	l.setSelected(nil)
}

func (l *Ledger) persist(ctx context.Context, op string, rec core.Record) error {
	fields := log.NewFields().
		WithOperation(op).
		WithRecord(rec.ID, rec.Description, rec.Amount.String())
	fields[log.FieldDate] = rec.DisplayDate()
	fields[log.FieldCount] = len(l.records)

	if err := l.store.Save(ctx, l.Records()); err != nil {
		l.logger.ErrorContext(ctx, "Failed to save records, keeping in-memory change",
			fields.WithError(err, log.ErrorTypePersistence).ToSlice()...)
		return err
	}
	l.logger.InfoContext(ctx, "Records saved", fields.ToSlice()...)
	return nil
}

func (l *Ledger) rejected(ctx context.Context, op string, err error) {
	l.logger.WarnContext(ctx, "Input rejected",
		log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeValidation).ToSlice()...)
}
