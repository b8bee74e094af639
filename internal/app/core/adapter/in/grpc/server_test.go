package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
	pkggrpc "github.com/JoeShih716/go-lock-ledger/pkg/grpc"
	"github.com/JoeShih716/go-lock-ledger/pkg/journal"
	"github.com/JoeShih716/go-lock-ledger/pkg/logger"
)

func newTestClient(t *testing.T, capacity int) (*Client, *grpc.ClientConn) {
	t.Helper()
	dir := t.TempDir()
	store := memory.NewAccountStore(capacity)
	gateway := file.NewGateway(filepath.Join(dir, "accounts.txt"), filepath.Join(dir, "transaction_log.txt"), journal.WithSync(false))
	ledger, err := usecase.Open(context.Background(), store, memory.NewTransferCoordinator(store), gateway,
		usecase.WithLogger(logger.Discard()),
		usecase.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) }))
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(pkggrpc.UnaryServerLogger(logger.Discard())))
	RegisterLedgerServiceServer(s, NewGrpcServer(ledger))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	pool := pkggrpc.NewPool(pkggrpc.WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})))
	t.Cleanup(func() { _ = pool.Close() })

	conn, err := pool.GetConnection("passthrough:///bufnet")
	require.NoError(t, err)
	return NewClient(conn), conn
}

func TestRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, 10)
	ctx := context.Background()

	a, err := c.CreateAccount(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.Account{ID: 0, Balance: 100}, a)
	b, err := c.CreateAccount(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)

	balance, err := c.Deposit(ctx, a.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, balance)

	balance, err = c.Withdraw(ctx, a.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 125.0, balance)

	balance, err = c.Transfer(ctx, a.ID, b.ID, 125)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)

	balance, err = c.GetBalance(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 125.0, balance)

	lines, err := c.History(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 5)
	assert.Equal(t, "Time: 2024-01-02 03:04:05, Operation: Transfer, Amount: 125.00, From Account ID: 0, To Account ID: 1, Status: Successful", lines[4])
}

func TestSoftFailures(t *testing.T) {
	c, _ := newTestClient(t, 1)
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, 10)
	require.NoError(t, err)

	_, err = c.CreateAccount(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	balance, err := c.Withdraw(ctx, 0, 100)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, 10.0, balance)

	_, err = c.Deposit(ctx, 0, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = c.Transfer(ctx, 0, 3, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidAccountID)

	// 失敗的操作也寫入日誌
	lines, err := c.History(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 5)
}

func TestGetBalance_NotFound(t *testing.T) {
	c, conn := newTestClient(t, 2)
	ctx := context.Background()

	_, err := c.GetBalance(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAccountID)

	in, err := structpb.NewStruct(map[string]any{fieldAccountID: 0})
	require.NoError(t, err)
	err = conn.Invoke(ctx, FullMethod(MethodGetBalance), in, new(structpb.Struct))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestInvalidArgument(t *testing.T) {
	_, conn := newTestClient(t, 2)
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		req    map[string]any
	}{
		{"missing amount", MethodDeposit, map[string]any{fieldAccountID: 0}},
		{"fractional id", MethodGetBalance, map[string]any{fieldAccountID: 1.5}},
		{"string amount", MethodCreateAccount, map[string]any{fieldInitialBalance: "ten"}},
		{"missing to", MethodTransfer, map[string]any{fieldFromAccountID: 0, fieldAmount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := structpb.NewStruct(tt.req)
			require.NoError(t, err)
			err = conn.Invoke(ctx, FullMethod(tt.method), in, new(structpb.Struct))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestReasonRoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		domain.ErrCapacityExceeded,
		domain.ErrInvalidAccountID,
		domain.ErrInsufficientBalance,
		domain.ErrInvalidAmount,
		domain.ErrIO,
	} {
		assert.ErrorIs(t, errorOf(reasonOf(sentinel), sentinel.Error()), sentinel)
	}
	assert.EqualError(t, errorOf(reasonUnknown, "boom"), "boom")
	assert.Empty(t, reasonOf(nil))
}
