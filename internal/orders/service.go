package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order management.
type Service interface {
	ListMine(ctx context.Context, userID uint) ([]OrderDTO, error)
	ListAll(ctx context.Context) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
	Cancel(ctx context.Context, userID, orderID uint, isAdmin bool) error
	InvoicePDF(ctx context.Context, userID, orderID uint, isAdmin bool) ([]byte, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Tx   txRunner
	Repo *Repository
}

type service struct {
	tx   txRunner
	repo *Repository
}

// NewService builds an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	return &service{tx: params.Tx, repo: params.Repo}, nil
}

func (s *service) ListMine(ctx context.Context, userID uint) ([]OrderDTO, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return s.toDTOs(ctx, orders)
}

func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return s.toDTOs(ctx, orders)
}

// statusSources lists which statuses an order may come from for each target.
// The lifecycle only moves forward: processing, in transit, delivered.
var statusSources = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusInTransit: {enums.OrderStatusProcessing},
	enums.OrderStatusDelivered: {enums.OrderStatusInTransit},
}

// UpdateStatus moves an order along the fulfillment lifecycle. Canceling goes
// through the stock-restoring path.
func (s *service) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if parsed == enums.OrderStatusCanceled {
		return s.Cancel(ctx, 0, orderID, true)
	}

	sources, ok := statusSources[parsed]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "orders cannot move to status "+parsed.String())
	}
	affected, err := s.repo.UpdateStatus(ctx, orderID, parsed, sources)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order not found or not ready for "+parsed.String())
	}
	return nil
}

// Cancel restores the stock of every purchased item and marks the order
// canceled, all inside one transaction.
func (s *service) Cancel(ctx context.Context, userID, orderID uint, isAdmin bool) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !isAdmin && order.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.Status == enums.OrderStatusCanceled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already canceled")
		}

		for _, item := range order.Items {
			if err := repo.RestoreStock(ctx, item.VariantID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
			}
		}

		affected, err := repo.UpdateStatus(ctx, orderID, enums.OrderStatusCanceled, []enums.OrderStatus{
			enums.OrderStatusProcessing,
			enums.OrderStatusInTransit,
			enums.OrderStatusDelivered,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already canceled")
		}
		return nil
	})
}

// InvoicePDF returns the stored invoice bytes for download.
func (s *service) InvoicePDF(ctx context.Context, userID, orderID uint, isAdmin bool) ([]byte, error) {
	invoice, err := s.repo.FindInvoice(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	if !isAdmin && invoice.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	return invoice.PDF, nil
}

func (s *service) toDTOs(ctx context.Context, orders []models.Order) ([]OrderDTO, error) {
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	refundStatuses, err := s.repo.RefundStatusesByOrder(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund statuses")
	}

	out := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		dto := OrderDTO{
			ID:        order.ID,
			UserID:    order.UserID,
			Status:    order.Status.String(),
			Total:     order.Total,
			CreatedAt: order.CreatedAt,
			Items:     make([]ItemDTO, 0, len(order.Items)),
		}
		for _, item := range order.Items {
			line := ItemDTO{
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
			if item.Variant != nil {
				line.VariantName = item.Variant.Name
			}
			dto.Items = append(dto.Items, line)
		}
		if order.Address != nil {
			dto.Address = &AddressDTO{
				FirstName:  order.Address.FirstName,
				LastName:   order.Address.LastName,
				Street:     order.Address.Street,
				City:       order.Address.City,
				PostalCode: order.Address.PostalCode,
				Country:    order.Address.Country,
				Phone:      order.Address.Phone,
			}
		}
		if status, ok := refundStatuses[order.ID]; ok {
			value := status.String()
			dto.RefundStatus = &value
		}
		out = append(out, dto)
	}
	return out, nil
}
