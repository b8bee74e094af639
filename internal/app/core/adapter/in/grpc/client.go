package grpc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
)

// Client 是 LedgerService 的 client，將 Soft Failure 還原成 domain 錯誤
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{
		conn: conn,
	}
}

// CreateAccount 開戶
func (c *Client) CreateAccount(ctx context.Context, initialBalance float64) (domain.Account, error) {
	out, err := c.mutate(ctx, MethodCreateAccount, map[string]any{
		fieldInitialBalance: initialBalance,
	})
	if err != nil {
		return domain.Account{}, err
	}
	return domain.NewAccount(int64(number(out, fieldAccountID)), number(out, fieldBalance)), nil
}

// GetBalance 取得帳戶餘額
func (c *Client) GetBalance(ctx context.Context, accountID int64) (float64, error) {
	out, err := c.invoke(ctx, MethodGetBalance, map[string]any{
		fieldAccountID: accountID,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, errors.Wrap(domain.ErrInvalidAccountID, status.Convert(err).Message())
		}
		return 0, err
	}
	return number(out, fieldBalance), nil
}

// Deposit 存款，回傳最新餘額
func (c *Client) Deposit(ctx context.Context, accountID int64, amount float64) (float64, error) {
	out, err := c.mutate(ctx, MethodDeposit, map[string]any{
		fieldAccountID: accountID,
		fieldAmount:    amount,
	})
	if err != nil {
		return 0, err
	}
	return number(out, fieldBalance), nil
}

// Withdraw 提款，回傳最新餘額
func (c *Client) Withdraw(ctx context.Context, accountID int64, amount float64) (float64, error) {
	out, err := c.mutate(ctx, MethodWithdraw, map[string]any{
		fieldAccountID: accountID,
		fieldAmount:    amount,
	})
	if err != nil {
		return 0, err
	}
	return number(out, fieldBalance), nil
}

// Transfer 轉帳，回傳 From 的最新餘額
func (c *Client) Transfer(ctx context.Context, from, to int64, amount float64) (float64, error) {
	out, err := c.mutate(ctx, MethodTransfer, map[string]any{
		fieldFromAccountID: from,
		fieldToAccountID:   to,
		fieldAmount:        amount,
	})
	if err != nil {
		return 0, err
	}
	return number(out, fieldBalance), nil
}

// History 取得完整交易日誌
func (c *Client) History(ctx context.Context) ([]string, error) {
	out, err := c.invoke(ctx, MethodHistory, map[string]any{})
	if err != nil {
		return nil, err
	}
	values := out.GetFields()[fieldLines].GetListValue().GetValues()
	lines := make([]string, 0, len(values))
	for _, v := range values {
		lines = append(lines, v.GetStringValue())
	}
	return lines, nil
}

func (c *Client) mutate(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	out, err := c.invoke(ctx, method, req)
	if err != nil {
		return nil, err
	}
	fields := out.GetFields()
	if !fields[fieldSuccess].GetBoolValue() {
		return out, errorOf(fields[fieldReason].GetStringValue(), fields[fieldMessage].GetStringValue())
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func number(s *structpb.Struct, name string) float64 {
	return s.GetFields()[name].GetNumberValue()
}
