package grpc

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
)

// 訊息欄位
const (
	fieldInitialBalance = "initial_balance"
	fieldAccountID      = "account_id"
	fieldFromAccountID  = "from_account_id"
	fieldToAccountID    = "to_account_id"
	fieldAmount         = "amount"
	fieldBalance        = "balance"
	fieldSuccess        = "success"
	fieldMessage        = "message"
	fieldReason         = "reason"
	fieldRecord         = "record"
	fieldLines          = "lines"
)

// 失敗原因代碼 (Soft Failure 時放在 reason 欄位)
const (
	reasonCapacityExceeded    = "capacity_exceeded"
	reasonInvalidAccountID    = "invalid_account_id"
	reasonInsufficientBalance = "insufficient_balance"
	reasonInvalidAmount       = "invalid_amount"
	reasonIO                  = "io"
	reasonUnknown             = "unknown"
)

func reasonOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrCapacityExceeded):
		return reasonCapacityExceeded
	case errors.Is(err, domain.ErrInvalidAccountID):
		return reasonInvalidAccountID
	case errors.Is(err, domain.ErrInsufficientBalance):
		return reasonInsufficientBalance
	case errors.Is(err, domain.ErrInvalidAmount):
		return reasonInvalidAmount
	case errors.Is(err, domain.ErrIO):
		return reasonIO
	default:
		return reasonUnknown
	}
}

// errorOf 把 reason 還原成 domain 錯誤
func errorOf(reason, message string) error {
	var sentinel error
	switch reason {
	case reasonCapacityExceeded:
		sentinel = domain.ErrCapacityExceeded
	case reasonInvalidAccountID:
		sentinel = domain.ErrInvalidAccountID
	case reasonInsufficientBalance:
		sentinel = domain.ErrInsufficientBalance
	case reasonInvalidAmount:
		sentinel = domain.ErrInvalidAmount
	case reasonIO:
		sentinel = domain.ErrIO
	default:
		return errors.New(message)
	}
	return errors.Wrap(sentinel, message)
}

func numberField(s *structpb.Struct, name string) (float64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %s", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "field %s must be a number", name)
	}
	return n.NumberValue, nil
}

func idField(s *structpb.Struct, name string) (int64, error) {
	n, err := numberField(s, name)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, status.Errorf(codes.InvalidArgument, "field %s must be an integer", name)
	}
	return int64(n), nil
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

// mutationResponse 變更操作的回應，業務錯誤回傳 success=false (Soft Failure)
func mutationResponse(rec domain.TransactionRecord, err error, accountID int64, balance float64) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldSuccess:   err == nil,
		fieldAccountID: accountID,
		fieldBalance:   balance,
		fieldRecord:    rec.Line(),
	}
	if err != nil {
		fields[fieldMessage] = err.Error()
		fields[fieldReason] = reasonOf(err)
	}
	return newStruct(fields)
}
