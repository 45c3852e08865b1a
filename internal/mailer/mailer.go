package mailer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/multierr"

	"github.com/everbean/roastery-backend/pkg/config"
)

// Sender delivers transactional email for the shop.
type Sender interface {
	SendInvoice(ctx context.Context, to, name string, orderID uint, pdf []byte) error
	SendRefundDecision(ctx context.Context, to, name string, orderID uint, approved bool, reason string) error
	SendDiscountAlert(ctx context.Context, to, name, productName, offer string) error
}

// Mailer sends email over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer validates the SMTP configuration and returns a mailer.
func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &Mailer{cfg: cfg}, nil
}

// SendInvoice mails the order confirmation with the invoice PDF attached.
func (m *Mailer) SendInvoice(ctx context.Context, to, name string, orderID uint, pdf []byte) error {
	if len(pdf) == 0 {
		return fmt.Errorf("invoice attachment is empty")
	}

	msg, err := m.newMessage(to)
	if err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Your order #%d at Everbean Roastery", orderID))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\nThanks for your order #%d. Your invoice is attached.\n\nThe Everbean Roastery team\n",
		name, orderID,
	))
	msg.AttachReader(fmt.Sprintf("invoice-%d.pdf", orderID), bytes.NewReader(pdf))

	return m.send(ctx, msg)
}

// SendRefundDecision mails the outcome of a refund request.
func (m *Mailer) SendRefundDecision(ctx context.Context, to, name string, orderID uint, approved bool, reason string) error {
	msg, err := m.newMessage(to)
	if err != nil {
		return err
	}

	if approved {
		msg.Subject(fmt.Sprintf("Refund approved for order #%d", orderID))
		msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
			"Hi %s,\n\nYour refund request for order #%d has been approved. The amount will be returned to your payment method.\n\nThe Everbean Roastery team\n",
			name, orderID,
		))
	} else {
		msg.Subject(fmt.Sprintf("Refund request for order #%d", orderID))
		body := fmt.Sprintf(
			"Hi %s,\n\nUnfortunately your refund request for order #%d was not approved.",
			name, orderID,
		)
		if reason != "" {
			body += "\nReason: " + reason
		}
		body += "\n\nThe Everbean Roastery team\n"
		msg.SetBodyString(mail.TypeTextPlain, body)
	}

	return m.send(ctx, msg)
}

// SendDiscountAlert tells a shopper that a product on their wishlist went on
// sale.
func (m *Mailer) SendDiscountAlert(ctx context.Context, to, name, productName, offer string) error {
	msg, err := m.newMessage(to)
	if err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Price drop on %s", productName))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\n%s from your wishlist is now %s. Grab it while the offer lasts.\n\nThe Everbean Roastery team\n",
		name, productName, offer,
	))
	return m.send(ctx, msg)
}

func (m *Mailer) newMessage(to string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	return msg, nil
}

func (m *Mailer) send(ctx context.Context, msg *mail.Msg) (err error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
