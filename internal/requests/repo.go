package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	"github.com/skillearn/skillearn-backend/pkg/pagination"
)

// Repository manages persistence for wallet requests and the task catalog
// rows the task-completion workflow touches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.WalletRequest) (*models.WalletRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WalletRequest, error)
	ClaimPending(ctx context.Context, id uuid.UUID, status enums.RequestStatus, operatorID uuid.UUID, now time.Time) (bool, error)
	ListPending(ctx context.Context, params listPendingParams) ([]models.WalletRequest, *pagination.Cursor, error)
	CountPendingByKind(ctx context.Context) (map[enums.RequestKind]int64, error)
	FindTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	CreateTaskIncome(ctx context.Context, income *models.TaskIncome) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a requests repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listPendingParams struct {
	Kind   *enums.RequestKind
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.WalletRequest) (*models.WalletRequest, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WalletRequest, error) {
	var request models.WalletRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ClaimPending flips the status away from pending with a compare-and-swap on
// the current status. Exactly one concurrent caller wins; everyone else sees
// zero rows affected.
func (r *repository) ClaimPending(ctx context.Context, id uuid.UUID, status enums.RequestStatus, operatorID uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.WalletRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":       status,
			"operator_id":  operatorID,
			"processed_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListPending(ctx context.Context, params listPendingParams) ([]models.WalletRequest, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.WalletRequest{}).Where("status = ?", enums.RequestStatusPending)
	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var requests []models.WalletRequest
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&requests).Error; err != nil {
		return nil, nil, err
	}

	if len(requests) > normalized {
		next := requests[normalized]
		requests = requests[:normalized]
		return requests, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return requests, nil, nil
}

func (r *repository) CountPendingByKind(ctx context.Context) (map[enums.RequestKind]int64, error) {
	var rows []struct {
		Kind  enums.RequestKind
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.WalletRequest{}).
		Select("kind, COUNT(*) AS count").
		Where("status = ?", enums.RequestStatusPending).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.RequestKind]int64, len(enums.RequestKinds()))
	for _, kind := range enums.RequestKinds() {
		counts[kind] = 0
	}
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}

func (r *repository) FindTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ?", taskID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) CreateTaskIncome(ctx context.Context, income *models.TaskIncome) error {
	if income.ID == uuid.Nil {
		income.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(income).Error
}
