package mailer

import (
	"context"
	"testing"

	"github.com/everbean/roastery-backend/pkg/config"
)

func TestNewMailerRequiresHostAndFrom(t *testing.T) {
	if _, err := NewMailer(config.SMTPConfig{From: "orders@everbean.coffee"}); err == nil {
		t.Fatal("expected error for missing host")
	}
	if _, err := NewMailer(config.SMTPConfig{Host: "smtp.everbean.coffee"}); err == nil {
		t.Fatal("expected error for missing from address")
	}
	if _, err := NewMailer(config.SMTPConfig{Host: "smtp.everbean.coffee", From: "orders@everbean.coffee"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSendInvoiceRejectsEmptyAttachment(t *testing.T) {
	m, err := NewMailer(config.SMTPConfig{Host: "smtp.everbean.coffee", From: "orders@everbean.coffee"})
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	if err := m.SendInvoice(context.Background(), "ada@everbean.coffee", "Ada", 1, nil); err == nil {
		t.Fatal("expected error for empty pdf")
	}
}

func TestNewMessageRejectsBadRecipient(t *testing.T) {
	m, err := NewMailer(config.SMTPConfig{Host: "smtp.everbean.coffee", From: "orders@everbean.coffee"})
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	if _, err := m.newMessage("not-an-address"); err == nil {
		t.Fatal("expected error for malformed recipient")
	}
}
