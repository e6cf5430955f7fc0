// Package tui is the terminal front end for the ledger. It renders the
// record list and summary, collects form input with huh and invokes ledger
// commands when their predicates allow it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"spesedesk/internal/core"
	"spesedesk/internal/ledger"
	"spesedesk/internal/log"
)

const (
	actionSelect = "select"
	actionQuit   = "quit"
	title        = "SPESE"
)

// App drives a Ledger from an interactive terminal session.
type App struct {
	ledger *ledger.Ledger
	logger *log.Logger
	out    io.Writer
	symbol string
	now    func() time.Time

	message string
	failed  bool
}

// New creates an App over l that writes screens to out and formats amounts
// with symbol. A nil logger falls back to log.Default.
func New(l *ledger.Ledger, out io.Writer, symbol string, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	if symbol == "" {
		symbol = core.DefaultCurrencySymbol
	}
	return &App{
		ledger: l,
		logger: logger.WithComponent(log.ComponentUI),
		out:    out,
		symbol: symbol,
		now:    time.Now,
	}
}

// Report sets the status line shown on the next render.
func (a *App) Report(err error, success string) {
	if err != nil {
		a.message, a.failed = describe(err), true
		return
	}
	a.message, a.failed = success, false
}

// Render draws the whole screen as a string.
func (a *App) Render() string {
	selectedID := ""
	if sel, ok := a.ledger.Selected(); ok {
		selectedID = sel.ID
	}
	parts := []string{
		RenderHeader(title),
		RenderRecords(a.ledger.Records(), selectedID, a.symbol),
		"",
		RenderSummary(a.ledger.Summary()),
	}
	if msg := RenderMessage(a.message, a.failed); msg != "" {
		parts = append(parts, "", msg)
	}
	return strings.Join(parts, "\n") + "\n"
}

// Run loops on the main menu until the user quits or aborts.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(a.out, "\033[H\033[2J")
		fmt.Fprintln(a.out, a.Render())

		action, err := a.menu(ctx)
		if errors.Is(err, huh.ErrUserAborted) || action == actionQuit {
			return nil
		}
		if err != nil {
			return err
		}

		if err := a.dispatch(ctx, action); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				a.Report(nil, "cancelled")
				continue
			}
			a.logger.Warn("Action failed", log.FieldOperation, action, log.FieldError, err)
		}
	}
}

func (a *App) menu(ctx context.Context) (string, error) {
	var options []huh.Option[string]
	for _, c := range a.ledger.Commands() {
		if c.Enabled() {
			options = append(options, huh.NewOption(c.Label, c.Name))
		}
	}
	if a.ledger.Len() > 0 {
		options = append(options, huh.NewOption("Select record", actionSelect))
	}
	options = append(options, huh.NewOption("Quit", actionQuit))

	var action string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What next?").
				Options(options...).
				Value(&action),
		),
	).RunWithContext(ctx)
	return action, err
}

func (a *App) dispatch(ctx context.Context, action string) error {
	switch action {
	case actionSelect:
		return a.selectRecord(ctx)
	case ledger.CmdAdd, ledger.CmdUpdate:
		if err := a.editForm(ctx); err != nil {
			return err
		}
	case ledger.CmdDelete:
		ok, err := a.confirmDelete(ctx)
		if err != nil || !ok {
			a.Report(err, "delete cancelled")
			return err
		}
	}

	err := a.ledger.Execute(ctx, action)
	a.Report(err, doneMessage(action))
	return err
}

func (a *App) selectRecord(ctx context.Context) error {
	current := ""
	if sel, ok := a.ledger.Selected(); ok {
		current = sel.ID
	}
	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, r := range a.ledger.Records() {
		options = append(options, huh.NewOption(RecordLine(r, a.symbol), r.ID))
	}

	choice := current
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a record to edit").
				Options(options...).
				Value(&choice),
		),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if choice == "" {
		// Deselecting from the picker also clears the form.
		a.ledger.ClearSelection()
		a.Report(nil, "selection cleared")
		return nil
	}
	err = a.ledger.Select(choice)
	a.Report(err, "record selected")
	return err
}

// editForm collects description, amount and date into the ledger input.
func (a *App) editForm(ctx context.Context) error {
	in := a.ledger.Input()
	desc := in.Description
	amount := ""
	if !in.Amount.IsZero() {
		amount = in.Amount.String()
	}
	date := ""
	if !in.Date.IsZero() {
		date = in.Date.Format(core.DisplayDateLayout)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&desc),
			huh.NewInput().
				Title("Amount").
				Description("e.g. 12.50").
				Value(&amount).
				Validate(func(s string) error {
					_, err := core.ParseAmount(s)
					return err
				}),
			huh.NewInput().
				Title("Date").
				Description("MM/DD/YYYY, blank for today").
				Value(&date).
				Validate(func(s string) error {
					_, err := ParseDate(s, a.now())
					return err
				}),
		),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}
	return a.apply(desc, amount, date, in.Date)
}

// apply parses raw form strings into the ledger input. Business validation
// is left to the ledger. A date left at its pre-filled value keeps prev as
// is, so editing other fields never drops its time of day or offset.
func (a *App) apply(desc, amount, date string, prev time.Time) error {
	d, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}
	t := prev
	if prev.IsZero() || strings.TrimSpace(date) != prev.Format(core.DisplayDateLayout) {
		if t, err = ParseDate(date, a.now()); err != nil {
			return err
		}
	}
	a.ledger.SetDescription(desc)
	a.ledger.SetAmount(d)
	a.ledger.SetDate(t)
	return nil
}

func (a *App) confirmDelete(ctx context.Context) (bool, error) {
	sel, ok := a.ledger.Selected()
	if !ok {
		return false, nil
	}
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", sel.Description)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed),
		),
	).RunWithContext(ctx)
	return confirmed, err
}

func doneMessage(action string) string {
	switch action {
	case ledger.CmdAdd:
		return "expense added"
	case ledger.CmdUpdate:
		return "expense updated"
	case ledger.CmdDelete:
		return "expense deleted"
	case ledger.CmdClear:
		return "form cleared"
	case ledger.CmdSummary:
		return "summary refreshed"
	default:
		return ""
	}
}

func describe(err error) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var pe *core.PersistenceError
	if errors.As(err, &pe) {
		return fmt.Sprintf("could not %s records: %v", pe.Op, pe.Err)
	}
	return err.Error()
}
