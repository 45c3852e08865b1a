package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/internal/invoices"
	"github.com/everbean/roastery-backend/pkg/config"
	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
	"github.com/everbean/roastery-backend/pkg/logger"
	"github.com/everbean/roastery-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invoiceRenderer interface {
	Render(doc invoices.Document) ([]byte, error)
}

type invoiceSender interface {
	SendInvoice(ctx context.Context, to, name string, orderID uint, pdf []byte) error
}

type userLoader interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Service executes the checkout transaction.
type Service interface {
	Execute(ctx context.Context, userID uint, input Input) (uint, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Tx       txRunner
	Repo     Repository
	Users    userLoader
	Renderer invoiceRenderer
	Mailer   invoiceSender
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
	Config   config.CheckoutConfig
}

type service struct {
	tx       txRunner
	repo     Repository
	users    userLoader
	renderer invoiceRenderer
	mailer   invoiceSender
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	cfg      config.CheckoutConfig
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("invoice renderer required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	return &service{
		tx:       params.Tx,
		repo:     params.Repo,
		users:    params.Users,
		renderer: params.Renderer,
		mailer:   params.Mailer,
		metrics:  params.Metrics,
		logg:     params.Logger,
		cfg:      params.Config,
		now:      time.Now,
	}, nil
}

// Execute places an order for the user. Order, items, cart clearing, stock
// decrements, address, invoice and email all succeed together or not at all.
func (s *service) Execute(ctx context.Context, userID uint, input Input) (uint, error) {
	s.metrics.IncAttempt()
	started := s.now()

	if err := validateInput(userID, input); err != nil {
		s.finish(ctx, started, err)
		return 0, err
	}

	var orderID uint
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		delivery, err := repo.FindDeliveryOption(ctx, s.cfg.DeliveryOptionID)
		if err != nil {
			return &PersistenceError{Op: "load delivery option", cause: err}
		}

		orderItems := make([]models.OrderItem, 0, len(input.CartItems))
		for _, item := range input.CartItems {
			orderItems = append(orderItems, models.OrderItem{
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				Price:     item.Price.Round(2),
			})
		}

		order := &models.Order{
			UserID:           userID,
			Status:           enums.OrderStatusProcessing,
			Total:            input.TotalPrice.Round(2),
			DeliveryOptionID: delivery.ID,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return &PersistenceError{Op: "create order", cause: err}
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, orderItems); err != nil {
			return &PersistenceError{Op: "create order items", cause: err}
		}

		if err := repo.ClearCart(ctx, userID); err != nil {
			return &PersistenceError{Op: "clear cart", cause: err}
		}

		for _, item := range input.CartItems {
			affected, err := repo.DecrementStock(ctx, item.VariantID, item.Quantity)
			if err != nil {
				return &PersistenceError{Op: "decrement stock", cause: err}
			}
			if affected == 0 {
				return &InsufficientStockError{VariantID: item.VariantID}
			}
		}

		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return &PersistenceError{Op: "load user", cause: err}
		}

		address := &models.OrderAddress{
			OrderID:    order.ID,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Street:     input.Address.Address,
			City:       input.Address.City,
			PostalCode: input.Address.ZipCode,
			Country:    input.Address.Country,
			Phone:      input.Address.PhoneNumber,
		}
		if err := repo.CreateAddress(ctx, address); err != nil {
			return &PersistenceError{Op: "create address", cause: err}
		}

		pdf, err := s.renderInvoice(ctx, repo, order, orderItems, address, delivery)
		if err != nil {
			return err
		}

		invoice := &models.Invoice{
			OrderID: order.ID,
			UserID:  userID,
			PDF:     pdf,
		}
		if err := repo.CreateInvoice(ctx, invoice); err != nil {
			return &PersistenceError{Op: "create invoice", cause: err}
		}

		if err := s.mailer.SendInvoice(ctx, user.Email, user.FirstName, order.ID, pdf); err != nil {
			return &NotificationError{cause: err}
		}

		orderID = order.ID
		return nil
	})

	s.finish(ctx, started, err)
	if err != nil {
		return 0, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, orderID), "order placed")
	}
	return orderID, nil
}

func (s *service) renderInvoice(
	ctx context.Context,
	repo Repository,
	order *models.Order,
	items []models.OrderItem,
	address *models.OrderAddress,
	delivery *models.DeliveryOption,
) ([]byte, error) {
	variantNames, err := s.variantNames(ctx, repo, items)
	if err != nil {
		return nil, err
	}

	lines := make([]invoices.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, invoices.Line{
			Name:      variantNames[item.VariantID],
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Total:     item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
		})
	}

	doc := invoices.Document{
		OrderID:       order.ID,
		IssuedAt:      s.now(),
		CustomerName:  address.FirstName + " " + address.LastName,
		Street:        address.Street,
		City:          address.City,
		PostalCode:    address.PostalCode,
		Country:       address.Country,
		Lines:         lines,
		DeliveryName:  delivery.Name,
		DeliveryPrice: delivery.Price,
		Total:         order.Total,
	}

	pdf, err := s.renderer.Render(doc)
	if err != nil {
		return nil, &InvoiceGenerationError{cause: err}
	}
	if len(pdf) == 0 {
		return nil, &InvoiceGenerationError{cause: errors.New("empty render result")}
	}
	return pdf, nil
}

func (s *service) variantNames(ctx context.Context, repo Repository, items []models.OrderItem) (map[uint]string, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}
	variants, err := repo.FindVariants(ctx, ids)
	if err != nil {
		return nil, &PersistenceError{Op: "load variants", cause: err}
	}
	names := make(map[uint]string, len(variants))
	for _, variant := range variants {
		names[variant.ID] = variant.Name
	}
	return names, nil
}

func validateInput(userID uint, input Input) error {
	if userID == 0 {
		return &ValidationError{Reason: "user id required"}
	}
	if input.Address == nil {
		return &ValidationError{Reason: "address is required"}
	}
	addr := input.Address
	if addr.Address == "" || addr.City == "" || addr.PhoneNumber == "" ||
		addr.ZipCode == "" || addr.Country == "" {
		return &ValidationError{Reason: "incomplete shipping address"}
	}
	if len(input.Payment) == 0 || string(input.Payment) == "null" {
		return &ValidationError{Reason: "payment is required"}
	}
	if len(input.CartItems) == 0 {
		return &ValidationError{Reason: "order contains no items"}
	}
	for _, item := range input.CartItems {
		if item.VariantID == 0 || item.Quantity <= 0 || !item.Price.IsPositive() {
			return &ValidationError{Reason: "invalid order item"}
		}
	}
	if !input.TotalPrice.IsPositive() {
		return &ValidationError{Reason: "total price is required"}
	}
	return nil
}

func (s *service) finish(ctx context.Context, started time.Time, err error) {
	elapsed := s.now().Sub(started)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		s.metrics.IncFailure(failureReason(err))
		if s.logg != nil {
			s.logg.Error(ctx, "checkout failed", err)
		}
	}
	s.metrics.ObserveDuration(outcome, elapsed)
}

func failureReason(err error) string {
	var (
		validation   *ValidationError
		stock        *InsufficientStockError
		invoice      *InvoiceGenerationError
		persistence  *PersistenceError
		notification *NotificationError
	)
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.As(err, &invoice):
		return "invoice_generation"
	case errors.As(err, &notification):
		return "notification"
	case errors.As(err, &persistence):
		return "persistence"
	default:
		return "unknown"
	}
}
