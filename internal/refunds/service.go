package refunds

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/internal/users"
	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
	"github.com/everbean/roastery-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type decisionSender interface {
	SendRefundDecision(ctx context.Context, to, name string, orderID uint, approved bool, reason string) error
}

// Service exposes the refund request workflow.
type Service interface {
	Create(ctx context.Context, userID uint, input CreateInput) (RefundDTO, error)
	List(ctx context.Context) ([]RefundDTO, error)
	Approve(ctx context.Context, refundID uint) error
	Reject(ctx context.Context, refundID uint, input RejectInput) error
}

// ServiceParams groups dependencies for the refunds service.
type ServiceParams struct {
	Tx     txRunner
	Repo   *Repository
	Users  *users.Repository
	Mailer decisionSender
	Logger *logger.Logger
}

type service struct {
	tx     txRunner
	repo   *Repository
	users  *users.Repository
	mailer decisionSender
	logg   *logger.Logger
}

// NewService builds a refunds service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refunds repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mailer is required")
	}
	return &service{
		tx:     params.Tx,
		repo:   params.Repo,
		users:  params.Users,
		mailer: params.Mailer,
		logg:   params.Logger,
	}, nil
}

// Create opens a pending refund request for an order the user owns.
func (s *service) Create(ctx context.Context, userID uint, input CreateInput) (RefundDTO, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return RefundDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RefundDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return RefundDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return RefundDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.Status == enums.OrderStatusCanceled {
		return RefundDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "canceled orders cannot be refunded")
	}

	if _, err := s.repo.FindByOrder(ctx, input.OrderID); err == nil {
		return RefundDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "a refund request already exists for this order")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return RefundDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup refund")
	}

	refund := &models.RefundRequest{
		OrderID: input.OrderID,
		UserID:  userID,
		Reason:  reason,
		Status:  enums.RefundStatusPending,
	}
	if err := s.repo.Create(ctx, refund); err != nil {
		return RefundDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refund")
	}
	return toDTO(refund), nil
}

func (s *service) List(ctx context.Context) ([]RefundDTO, error) {
	refunds, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	out := make([]RefundDTO, 0, len(refunds))
	for i := range refunds {
		out = append(out, toDTO(&refunds[i]))
	}
	return out, nil
}

// Approve flips a pending request to approved and restores the variant stock
// of the order, then notifies the user.
func (s *service) Approve(ctx context.Context, refundID uint) error {
	var refund *models.RefundRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		loaded, err := repo.FindByID(ctx, refundID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "refund request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
		}
		refund = loaded

		affected, err := repo.Decide(ctx, refundID, enums.RefundStatusApproved, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve refund")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "refund request is not pending")
		}

		order, err := repo.FindOrder(ctx, refund.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		// a cancellation after the request was opened already restored stock
		if order.Status != enums.OrderStatusCanceled {
			for _, item := range order.Items {
				if err := repo.RestoreStock(ctx, item.VariantID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, refund, true, "")
	return nil
}

// Reject flips a pending request to rejected with the admin's reason, then
// notifies the user.
func (s *service) Reject(ctx context.Context, refundID uint, input RejectInput) error {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	refund, err := s.repo.FindByID(ctx, refundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "refund request not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
	}

	affected, err := s.repo.Decide(ctx, refundID, enums.RefundStatusRejected, &reason)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject refund")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "refund request is not pending")
	}

	s.notify(ctx, refund, false, reason)
	return nil
}

// notify is best effort. The decision is already committed, a lost email
// must not undo it.
func (s *service) notify(ctx context.Context, refund *models.RefundRequest, approved bool, reason string) {
	if refund == nil {
		return
	}
	user, err := s.users.FindByID(ctx, refund.UserID)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "refund notification recipient lookup failed", err)
		}
		return
	}
	if err := s.mailer.SendRefundDecision(ctx, user.Email, user.FirstName, refund.OrderID, approved, reason); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "refund notification failed", err)
		}
	}
}

func toDTO(refund *models.RefundRequest) RefundDTO {
	return RefundDTO{
		ID:             refund.ID,
		OrderID:        refund.OrderID,
		UserID:         refund.UserID,
		Reason:         refund.Reason,
		Status:         refund.Status.String(),
		ResponseReason: refund.ResponseReason,
		CreatedAt:      refund.CreatedAt,
	}
}
