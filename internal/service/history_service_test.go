package service

import (
	"context"
	"testing"

	"healthmate-be/internal/constant"
	"healthmate-be/internal/dto"
	"healthmate-be/internal/repository/csvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryService(t *testing.T) IHistoryService {
	t.Helper()
	ledger, err := csvstore.NewHistoryLedgerRepository(t.TempDir())
	require.NoError(t, err)
	return NewHistoryService(ledger, noopLogger{})
}

func TestHistoryRecordAndUndo(t *testing.T) {
	svc := newHistoryService(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordAction(ctx, &dto.RecordActionRequest{
		UserID: "user-1", Type: constant.HistoryTypeInclude, Content: "ginger",
	}))
	require.NoError(t, svc.RecordAction(ctx, &dto.RecordActionRequest{
		UserID: "user-1", Type: constant.HistoryTypeExclude, Content: "peanut",
	}))

	history, err := svc.GetHistory(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history.Records, 2)

	undo, err := svc.UndoLast(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, undo.Undone)
	assert.Equal(t, constant.HistoryTypeExclude, undo.Undone.Type)
	assert.Equal(t, "peanut", undo.Undone.Content)

	history, err = svc.GetHistory(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history.Records, 1)
	assert.Equal(t, "ginger", history.Records[0].Content)
}

func TestHistoryUndoWithEmptyLedger(t *testing.T) {
	svc := newHistoryService(t)

	undo, err := svc.UndoLast(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, undo.Undone)
}
