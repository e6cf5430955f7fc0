package ledger

import (
	"context"
	"errors"
	"fmt"
)

// Command names.
const (
	CmdAdd     = "add"
	CmdUpdate  = "update"
	CmdDelete  = "delete"
	CmdClear   = "clear"
	CmdSummary = "summary"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrCommandDisabled = errors.New("command disabled")
)

// Command pairs a ledger operation with its enablement predicate.
// Confirm marks operations the UI must confirm with the user first.
type Command struct {
	Name    string
	Label   string
	Confirm bool
	Run     func(ctx context.Context) error
	CanRun  func() bool
}

// Enabled reports whether the command may run now.
func (c Command) Enabled() bool {
	return c.CanRun == nil || c.CanRun()
}

func always() bool { return true }

// Commands returns the operations a UI can bind, in display order.
func (l *Ledger) Commands() []Command {
	return []Command{
		{Name: CmdAdd, Label: "Add expense", Run: l.Add, CanRun: always},
		{Name: CmdUpdate, Label: "Update selected", Run: l.Update, CanRun: l.CanMutateSelection},
		{Name: CmdDelete, Label: "Delete selected", Confirm: true, Run: l.Delete, CanRun: l.CanMutateSelection},
		{Name: CmdClear, Label: "Clear form", Run: func(context.Context) error {
			l.ClearSelection()
			return nil
		}, CanRun: always},
		{Name: CmdSummary, Label: "Refresh summary", Run: func(context.Context) error {
			l.ComputeSummary()
			return nil
		}, CanRun: always},
	}
}

// Command looks up a command by name.
func (l *Ledger) Command(name string) (Command, bool) {
	for _, c := range l.Commands() {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Execute runs the named command if its predicate allows it. Confirmation
// is not checked here.
func (l *Ledger) Execute(ctx context.Context, name string) error {
	c, ok := l.Command(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if !c.Enabled() {
		return fmt.Errorf("%w: %s", ErrCommandDisabled, name)
	}
	return c.Run(ctx)
}
