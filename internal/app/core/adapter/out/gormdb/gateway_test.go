package gormdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/pkg/sqldb"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	client, err := sqldb.NewClient(sqldb.Config{
		Driver:   sqldb.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "ledger.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	gw, err := NewGateway(client)
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })
	return gw
}

func TestSnapshotUpsert(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()

	accounts := []domain.Account{{ID: 0, Balance: 100}, {ID: 1, Balance: 0}}
	require.NoError(t, gw.SaveSnapshot(ctx, func() []domain.Account { return accounts }))

	// 第二次覆寫既有帳戶並新增一個
	accounts = []domain.Account{{ID: 0, Balance: 0}, {ID: 1, Balance: 150}, {ID: 2, Balance: 7.25}}
	require.NoError(t, gw.SaveSnapshot(ctx, func() []domain.Account { return accounts }))

	loaded, err := gw.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, accounts, loaded)
}

func TestSnapshotEmpty(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()

	require.NoError(t, gw.SaveSnapshot(ctx, func() []domain.Account { return nil }))
	loaded, err := gw.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestAppendAndReadLog(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

	records := []domain.TransactionRecord{
		domain.NewRecord(uuid.New(), at, domain.TransactionTypeCreate, 100, 0, domain.NoAccount, nil),
		domain.NewRecord(uuid.New(), at.Add(time.Second), domain.TransactionTypeTransfer, 150, 0, 1, nil),
		domain.NewRecord(uuid.New(), at.Add(2*time.Second), domain.TransactionTypeWithdraw, 5, 3, domain.NoAccount, domain.ErrInvalidAccountID),
	}
	for _, rec := range records {
		require.NoError(t, gw.AppendLog(ctx, rec))
	}

	var lines []string
	for line, err := range gw.ReadLog(ctx) {
		require.NoError(t, err)
		lines = append(lines, line)
	}
	require.Len(t, lines, len(records))
	for i, rec := range records {
		assert.Equal(t, rec.Line(), lines[i])
	}
}

func TestAppendLog_DuplicateRefID(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()

	rec := domain.NewRecord(uuid.New(), time.Now(), domain.TransactionTypeDeposit, 1, 0, domain.NoAccount, nil)
	require.NoError(t, gw.AppendLog(ctx, rec))
	assert.ErrorIs(t, gw.AppendLog(ctx, rec), domain.ErrIO)
}

func TestRecordRoundTrip(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	tran := sqlTransaction{
		RefID:         id[:],
		Operation:     uint8(domain.TransactionTypeTransfer),
		Amount:        3,
		FromAccountID: 1,
		ToAccountID:   2,
		Status:        domain.StatusSuccessful,
		OccurredAt:    at.UnixNano(),
	}
	rec := tran.record()
	assert.Equal(t, id, rec.ID)
	assert.True(t, rec.Time.Equal(at))
	assert.Equal(t, domain.TransactionTypeTransfer, rec.Type)
}
