package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
	"github.com/skillearn/skillearn-backend/pkg/pagination"
)

// Service defines operations over the append-only wallet ledger.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.LedgerEntry, error)
	History(ctx context.Context, params HistoryParams) (*HistoryPage, error)
	Reconcile(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

// AppendInput captures the immutable data a ledger entry requires. Amounts
// are positive magnitudes; the direction carries the sign.
type AppendInput struct {
	UserID          uuid.UUID
	AmountPaise     int64
	Direction       enums.EntryDirection
	Description     string
	ReferenceID     *uuid.UUID
	ReferenceType   enums.ReferenceType
	CommissionLevel *int
}

// HistoryParams filters and paginates a user's statement.
type HistoryParams struct {
	UserID        uuid.UUID
	Page          pagination.Params
	Direction     *enums.EntryDirection
	ReferenceType *enums.ReferenceType
}

// HistoryPage is one page of ledger entries, newest first.
type HistoryPage struct {
	Entries    []models.LedgerEntry
	NextCursor string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.LedgerEntry, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.AmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid entry direction %q", input.Direction))
	}
	if !input.ReferenceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference type %q", input.ReferenceType))
	}
	if input.CommissionLevel != nil && input.ReferenceType != enums.ReferenceTypeCommission {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission level only valid on commission entries")
	}

	entry := &models.LedgerEntry{
		UserID:          input.UserID,
		AmountPaise:     input.AmountPaise,
		Direction:       input.Direction,
		Description:     input.Description,
		ReferenceID:     input.ReferenceID,
		ReferenceType:   input.ReferenceType,
		CommissionLevel: input.CommissionLevel,
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) History(ctx context.Context, params HistoryParams) (*HistoryPage, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if params.Direction != nil && !params.Direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid entry direction %q", *params.Direction))
	}
	if params.ReferenceType != nil && !params.ReferenceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference type %q", *params.ReferenceType))
	}

	cursor, err := pagination.ParseCursor(params.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	entries, next, err := s.repo.List(ctx, listEntriesParams{
		UserID:        params.UserID,
		Limit:         params.Page.Limit,
		Cursor:        cursor,
		Direction:     params.Direction,
		ReferenceType: params.ReferenceType,
	})
	if err != nil {
		return nil, err
	}

	page := &HistoryPage{Entries: entries}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

// Reconcile replays the user's ledger into a signed balance.
func (s *service) Reconcile(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.repo.SumByUser(ctx, userID)
}
