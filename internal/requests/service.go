package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/commissions"
	"github.com/skillearn/skillearn-backend/internal/ledger"
	"github.com/skillearn/skillearn-backend/internal/notifications"
	"github.com/skillearn/skillearn-backend/pkg/config"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	"github.com/skillearn/skillearn-backend/pkg/enums"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
	"github.com/skillearn/skillearn-backend/pkg/metrics"
	"github.com/skillearn/skillearn-backend/pkg/money"
	"github.com/skillearn/skillearn-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type accountService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*accounts.Balance, error)
	ApplyDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltaPaise int64) error
}

type ledgerService interface {
	Append(ctx context.Context, tx *gorm.DB, input ledger.AppendInput) (*models.LedgerEntry, error)
}

type commissionEngine interface {
	Distribute(ctx context.Context, tx *gorm.DB, input commissions.DistributeInput) ([]commissions.Payout, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event notifications.WalletEvent)
}

// Service drives the deposit, withdrawal and task-completion workflows.
type Service interface {
	SubmitDeposit(ctx context.Context, input SubmitDepositInput) (*models.WalletRequest, error)
	SubmitWithdrawal(ctx context.Context, input SubmitWithdrawalInput) (*models.WalletRequest, error)
	SubmitTaskCompletion(ctx context.Context, input SubmitTaskCompletionInput) (*models.WalletRequest, error)
	Approve(ctx context.Context, input DecisionInput) (*DecisionResult, error)
	Reject(ctx context.Context, input DecisionInput) (*DecisionResult, error)
	ListPending(ctx context.Context, params ListPendingParams) (*PendingPage, error)
	PendingCounts(ctx context.Context) (map[enums.RequestKind]int64, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	accounts    accountService
	ledger      ledgerService
	commissions commissionEngine
	events      eventPublisher
	workflow    *metrics.WorkflowMetrics
	cfg         config.WalletConfig
}

// NewService builds a request workflow service with the required dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	accountsSvc accountService,
	ledgerSvc ledgerService,
	engine commissionEngine,
	events eventPublisher,
	workflow *metrics.WorkflowMetrics,
	cfg config.WalletConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if accountsSvc == nil {
		return nil, fmt.Errorf("accounts service required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if engine == nil {
		return nil, fmt.Errorf("commission engine required")
	}
	if events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		accounts:    accountsSvc,
		ledger:      ledgerSvc,
		commissions: engine,
		events:      events,
		workflow:    workflow,
		cfg:         cfg,
	}, nil
}

func (s *service) SubmitDeposit(ctx context.Context, input SubmitDepositInput) (*models.WalletRequest, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.AmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	request := &models.WalletRequest{
		UserID:            input.UserID,
		Kind:              enums.RequestKindDeposit,
		Status:            enums.RequestStatusPending,
		AmountPaise:       input.AmountPaise,
		IsPackagePurchase: input.IsPackagePurchase,
	}
	if input.TransactionRef != "" {
		request.TransactionRef = &input.TransactionRef
	}
	if input.ProofURL != "" {
		request.ProofURL = &input.ProofURL
	}

	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, notifications.RequestEvent(enums.EventRequestSubmitted, created))
	return created, nil
}

// SubmitWithdrawal refuses outright any amount the wallet cannot cover at
// submission time; the balance is re-checked authoritatively at approval.
func (s *service) SubmitWithdrawal(ctx context.Context, input SubmitWithdrawalInput) (*models.WalletRequest, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.AmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.AmountPaise < s.cfg.MinWithdrawalPaise {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("minimum withdrawal is %s", money.Format(s.cfg.MinWithdrawalPaise)))
	}
	if !input.PayoutMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payout method %q", input.PayoutMethod))
	}
	if input.PayoutDestination == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout destination required")
	}

	balance, err := s.accounts.GetBalance(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if input.AmountPaise > balance.WalletPaise {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientFunds, "insufficient wallet balance")
	}

	method := input.PayoutMethod
	destination := input.PayoutDestination
	request := &models.WalletRequest{
		UserID:            input.UserID,
		Kind:              enums.RequestKindWithdrawal,
		Status:            enums.RequestStatusPending,
		AmountPaise:       input.AmountPaise,
		PayoutMethod:      &method,
		PayoutDestination: &destination,
	}

	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, notifications.RequestEvent(enums.EventRequestSubmitted, created))
	return created, nil
}

func (s *service) SubmitTaskCompletion(ctx context.Context, input SubmitTaskCompletionInput) (*models.WalletRequest, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.TaskID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task id required")
	}

	task, err := s.repo.FindTask(ctx, input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, err
	}
	if !task.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task is no longer active")
	}

	taskID := task.ID
	request := &models.WalletRequest{
		UserID:      input.UserID,
		Kind:        enums.RequestKindTaskCompletion,
		Status:      enums.RequestStatusPending,
		AmountPaise: task.RewardPaise,
		TaskID:      &taskID,
		ProofFiles:  input.ProofFiles,
	}

	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, notifications.RequestEvent(enums.EventRequestSubmitted, created))
	return created, nil
}

// Approve flips a pending request to approved and applies its balance
// effects. The status compare-and-swap, the balance delta, the ledger rows
// and any commission payouts commit as one transaction; a failure anywhere
// rolls everything back and the request stays pending.
func (s *service) Approve(ctx context.Context, input DecisionInput) (*DecisionResult, error) {
	if err := validateDecision(input); err != nil {
		return nil, err
	}

	var result DecisionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindByID(ctx, input.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
			}
			return err
		}

		now := time.Now().UTC()
		claimed, err := repo.ClaimPending(ctx, request.ID, enums.RequestStatusApproved, input.OperatorID, now)
		if err != nil {
			return err
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "request already processed")
		}

		switch request.Kind {
		case enums.RequestKindDeposit:
			if err := s.approveDeposit(ctx, tx, request, &result); err != nil {
				return err
			}
		case enums.RequestKindWithdrawal:
			if err := s.approveWithdrawal(ctx, tx, request, &result); err != nil {
				return err
			}
		case enums.RequestKindTaskCompletion:
			if err := s.approveTaskCompletion(ctx, tx, repo, request, &result); err != nil {
				return err
			}
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown request kind %q", request.Kind))
		}

		request.Status = enums.RequestStatusApproved
		operatorID := input.OperatorID
		request.OperatorID = &operatorID
		request.ProcessedAt = &now
		result.Request = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordDecision(result.Request, "approved")
	s.events.Publish(ctx, notifications.RequestEvent(enums.EventRequestApproved, result.Request))
	for _, payout := range result.Payouts {
		s.events.Publish(ctx, notifications.CommissionEvent(payout.UserID, payout.AmountPaise, result.Request.ID))
	}
	return &result, nil
}

func (s *service) approveDeposit(ctx context.Context, tx *gorm.DB, request *models.WalletRequest, result *DecisionResult) error {
	if err := s.accounts.ApplyDelta(ctx, tx, request.UserID, request.AmountPaise); err != nil {
		return err
	}
	refID := request.ID
	if _, err := s.ledger.Append(ctx, tx, ledger.AppendInput{
		UserID:        request.UserID,
		AmountPaise:   request.AmountPaise,
		Direction:     enums.EntryDirectionCredit,
		Description:   "wallet deposit",
		ReferenceID:   &refID,
		ReferenceType: enums.ReferenceTypeDeposit,
	}); err != nil {
		return err
	}

	if request.IsPackagePurchase {
		payouts, err := s.commissions.Distribute(ctx, tx, commissions.DistributeInput{
			UserID:      request.UserID,
			ReferenceID: request.ID,
		})
		if err != nil {
			return err
		}
		result.Payouts = payouts
	}
	return nil
}

func (s *service) approveWithdrawal(ctx context.Context, tx *gorm.DB, request *models.WalletRequest, result *DecisionResult) error {
	// The guarded delta is the authoritative balance check; an overdraft
	// here aborts the transaction and the request stays pending.
	if err := s.accounts.ApplyDelta(ctx, tx, request.UserID, -request.AmountPaise); err != nil {
		return err
	}
	refID := request.ID
	if _, err := s.ledger.Append(ctx, tx, ledger.AppendInput{
		UserID:        request.UserID,
		AmountPaise:   request.AmountPaise,
		Direction:     enums.EntryDirectionDebit,
		Description:   "wallet withdrawal",
		ReferenceID:   &refID,
		ReferenceType: enums.ReferenceTypeWithdrawal,
	}); err != nil {
		return err
	}

	// The fee is informational: the wallet is debited the full amount and
	// the operator pays out the remainder.
	result.PayablePaise = money.PayableAfterFee(request.AmountPaise, s.cfg.WithdrawalFeePercent)
	result.FeePaise = money.FeeFor(request.AmountPaise, s.cfg.WithdrawalFeePercent)
	return nil
}

func (s *service) approveTaskCompletion(ctx context.Context, tx *gorm.DB, repo Repository, request *models.WalletRequest, result *DecisionResult) error {
	if request.TaskID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "task-completion request missing task id")
	}
	if err := s.accounts.ApplyDelta(ctx, tx, request.UserID, request.AmountPaise); err != nil {
		return err
	}
	refID := request.ID
	if _, err := s.ledger.Append(ctx, tx, ledger.AppendInput{
		UserID:        request.UserID,
		AmountPaise:   request.AmountPaise,
		Direction:     enums.EntryDirectionCredit,
		Description:   "task reward",
		ReferenceID:   &refID,
		ReferenceType: enums.ReferenceTypeTask,
	}); err != nil {
		return err
	}
	return repo.CreateTaskIncome(ctx, &models.TaskIncome{
		UserID:      request.UserID,
		TaskID:      *request.TaskID,
		RequestID:   request.ID,
		AmountPaise: request.AmountPaise,
	})
}

// Reject flips a pending request to rejected. No balances move; a repeat
// call fails closed with AlreadyProcessed.
func (s *service) Reject(ctx context.Context, input DecisionInput) (*DecisionResult, error) {
	if err := validateDecision(input); err != nil {
		return nil, err
	}

	var result DecisionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindByID(ctx, input.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
			}
			return err
		}

		now := time.Now().UTC()
		claimed, err := repo.ClaimPending(ctx, request.ID, enums.RequestStatusRejected, input.OperatorID, now)
		if err != nil {
			return err
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "request already processed")
		}

		request.Status = enums.RequestStatusRejected
		operatorID := input.OperatorID
		request.OperatorID = &operatorID
		request.ProcessedAt = &now
		result.Request = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordDecision(result.Request, "rejected")
	s.events.Publish(ctx, notifications.RequestEvent(enums.EventRequestRejected, result.Request))
	return &result, nil
}

func (s *service) ListPending(ctx context.Context, params ListPendingParams) (*PendingPage, error) {
	if params.Kind != nil && !params.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid request kind %q", *params.Kind))
	}

	cursor, err := pagination.ParseCursor(params.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	requests, next, err := s.repo.ListPending(ctx, listPendingParams{
		Kind:   params.Kind,
		Limit:  params.Page.Limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, err
	}

	page := &PendingPage{Requests: requests}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) PendingCounts(ctx context.Context) (map[enums.RequestKind]int64, error) {
	return s.repo.CountPendingByKind(ctx)
}

func (s *service) recordDecision(request *models.WalletRequest, outcome string) {
	if s.workflow == nil || request == nil {
		return
	}
	s.workflow.IncDecision(string(request.Kind), outcome)
	if request.ProcessedAt != nil {
		s.workflow.ObserveDecisionLatency(string(request.Kind), request.ProcessedAt.Sub(request.CreatedAt))
	}
}

func validateDecision(input DecisionInput) error {
	if input.RequestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.OperatorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "operator identity missing")
	}
	return nil
}
