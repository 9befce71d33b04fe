package referrals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillearn/skillearn-backend/pkg/db"
	"github.com/skillearn/skillearn-backend/pkg/db/models"
	pkgerrors "github.com/skillearn/skillearn-backend/pkg/errors"
)

// ancestorWalkCap bounds traversals as a defense against data corrupted
// outside this service. Link keeps the graph acyclic, so the cap should
// never be hit in practice.
const ancestorWalkCap = 64

// Service maintains the who-referred-whom forest.
type Service interface {
	Link(ctx context.Context, userID, referrerID uuid.UUID) (*models.ReferralEdge, error)
	Ancestors(ctx context.Context, userID uuid.UUID, maxLevels int) ([]uuid.UUID, error)
}

type service struct {
	repo Repository
}

// NewService wires a referrals service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("referrals repository required")
	}
	return &service{repo: repo}, nil
}

// Link records that referrerID referred userID. A user gets at most one
// referrer, may not refer themselves, and may not appear among their own
// referrer's ancestors. All three rules are checked here, at edge creation,
// so traversals never have to detect cycles after the fact.
func (s *service) Link(ctx context.Context, userID, referrerID uuid.UUID) (*models.ReferralEdge, error) {
	if userID == uuid.Nil || referrerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and referrer id required")
	}
	if userID == referrerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user cannot refer themselves")
	}

	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already has a referrer")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Walk up from the proposed referrer; finding userID there means the
	// new edge would close a cycle.
	current := referrerID
	for i := 0; i < ancestorWalkCap; i++ {
		edge, err := s.repo.FindByUserID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if edge.ReferrerID == userID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "referral would create a cycle")
		}
		current = edge.ReferrerID
	}

	edge := &models.ReferralEdge{
		UserID:     userID,
		ReferrerID: referrerID,
	}
	if err := s.repo.Create(ctx, edge); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already has a referrer")
		}
		return nil, err
	}
	return edge, nil
}

// Ancestors returns up to maxLevels referrer ids ordered nearest first
// (index 0 is level 1). Short chains return fewer entries without error.
func (s *service) Ancestors(ctx context.Context, userID uuid.UUID, maxLevels int) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if maxLevels <= 0 {
		return nil, nil
	}

	ancestors := make([]uuid.UUID, 0, maxLevels)
	current := userID
	for level := 1; level <= maxLevels; level++ {
		edge, err := s.repo.FindByUserID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		ancestors = append(ancestors, edge.ReferrerID)
		current = edge.ReferrerID
	}
	return ancestors, nil
}
