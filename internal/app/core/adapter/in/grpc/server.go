package grpc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-lock-ledger/internal/app/core/usecase"
)

type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	initial, err := numberField(req, fieldInitialBalance)
	if err != nil {
		return nil, err
	}
	account, rec, err := s.core.CreateAccount(ctx, initial)
	id := rec.From
	if err == nil {
		id = account.ID
	}
	return mutationResponse(rec, err, id, account.Balance)
}

func (s *GrpcServer) GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, fieldAccountID)
	if err != nil {
		return nil, err
	}
	balance, err := s.core.GetAccountBalance(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAccountID) {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return newStruct(map[string]any{
		fieldAccountID: id,
		fieldBalance:   balance,
	})
}

func (s *GrpcServer) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, amount, err := accountAmount(req)
	if err != nil {
		return nil, err
	}
	account, rec, err := s.core.Deposit(ctx, id, amount)
	return mutationResponse(rec, err, id, account.Balance)
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, amount, err := accountAmount(req)
	if err != nil {
		return nil, err
	}
	account, rec, err := s.core.Withdraw(ctx, id, amount)
	return mutationResponse(rec, err, id, account.Balance)
}

// Transfer 回傳 From 的餘額
func (s *GrpcServer) Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, err := idField(req, fieldFromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := idField(req, fieldToAccountID)
	if err != nil {
		return nil, err
	}
	amount, err := numberField(req, fieldAmount)
	if err != nil {
		return nil, err
	}
	account, rec, err := s.core.Transfer(ctx, from, to, amount)
	return mutationResponse(rec, err, from, account.Balance)
}

func (s *GrpcServer) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	lines := make([]any, 0)
	for line, err := range s.core.History(ctx) {
		if err != nil {
			return nil, status.Error(codes.Unavailable, err.Error())
		}
		lines = append(lines, line)
	}
	return newStruct(map[string]any{
		fieldLines: lines,
	})
}

func accountAmount(req *structpb.Struct) (int64, float64, error) {
	id, err := idField(req, fieldAccountID)
	if err != nil {
		return 0, 0, err
	}
	amount, err := numberField(req, fieldAmount)
	if err != nil {
		return 0, 0, err
	}
	return id, amount, nil
}

var _ LedgerServiceServer = (*GrpcServer)(nil)
