package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandEnablement(t *testing.T) {
	l := newLedger(t, seeded())

	enabled := func() map[string]bool {
		out := map[string]bool{}
		for _, c := range l.Commands() {
			out[c.Name] = c.Enabled()
		}
		return out
	}

	assert.Equal(t, map[string]bool{
		CmdAdd: true, CmdUpdate: false, CmdDelete: false, CmdClear: true, CmdSummary: true,
	}, enabled())

	require.NoError(t, l.Select("r1"))
	assert.Equal(t, map[string]bool{
		CmdAdd: true, CmdUpdate: true, CmdDelete: true, CmdClear: true, CmdSummary: true,
	}, enabled())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	l := newLedger(t, seeded())
	for _, c := range l.Commands() {
		assert.Equal(t, c.Name == CmdDelete, c.Confirm, c.Name)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	store := seeded()
	l := newLedger(t, store)

	err := l.Execute(ctx, CmdDelete)
	assert.ErrorIs(t, err, ErrCommandDisabled)
	assert.Equal(t, 3, l.Len())

	assert.ErrorIs(t, l.Execute(ctx, "explode"), ErrUnknownCommand)

	require.NoError(t, l.Select("r3"))
	require.NoError(t, l.Execute(ctx, CmdDelete))
	assert.Equal(t, 2, l.Len())

	fill(l, "snack", "4")
	require.NoError(t, l.Execute(ctx, CmdAdd))
	assert.Equal(t, 3, l.Len())

	require.NoError(t, l.Select("r1"))
	require.NoError(t, l.Execute(ctx, CmdClear))
	assert.False(t, l.CanMutateSelection())

	require.NoError(t, l.Execute(ctx, CmdSummary))
	assert.Equal(t, "March 2024: $4.00\nJanuary 2024: $80.00", l.Summary())
}

func TestCommandLookup(t *testing.T) {
	l := newLedger(t, seeded())
	c, ok := l.Command(CmdUpdate)
	require.True(t, ok)
	assert.Equal(t, "Update selected", c.Label)
	_, ok = l.Command("nope")
	assert.False(t, ok)
}
