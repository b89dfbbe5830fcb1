package service

import (
	"context"

	"healthmate-be/internal/dto"
	"healthmate-be/internal/pkg/logger"
	"healthmate-be/internal/pkg/serverutils"
	"healthmate-be/internal/repository/contract"
)

// IHistoryService defines the action-history service interface
type IHistoryService interface {
	GetHistory(ctx context.Context, userID string) (*dto.HistoryResponse, error)
	RecordAction(ctx context.Context, request *dto.RecordActionRequest) error
	UndoLast(ctx context.Context, userID string) (*dto.UndoResponse, error)
}

type historyService struct {
	ledger contract.IHistoryLedgerRepository
	logger logger.ILogger
}

// NewHistoryService creates a new history service
func NewHistoryService(ledger contract.IHistoryLedgerRepository, log logger.ILogger) IHistoryService {
	return &historyService{ledger: ledger, logger: log}
}

func (s *historyService) GetHistory(ctx context.Context, userID string) (*dto.HistoryResponse, error) {
	records, err := s.ledger.ReadEffective(ctx, userID)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	return &dto.HistoryResponse{Records: records}, nil
}

func (s *historyService) RecordAction(ctx context.Context, request *dto.RecordActionRequest) error {
	if err := s.ledger.Record(ctx, request.UserID, request.Type, request.Content, request.Time); err != nil {
		return serverutils.StorageFailure(err)
	}
	return nil
}

func (s *historyService) UndoLast(ctx context.Context, userID string) (*dto.UndoResponse, error) {
	undone, err := s.ledger.DeleteLast(ctx, userID)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if undone == nil {
		s.logger.Debug("history", "undo requested with nothing to undo", map[string]interface{}{
			"user_id": userID,
		})
	}
	return &dto.UndoResponse{Undone: undone}, nil
}
