package mail

import (
	"context"
	"strings"
	"testing"
)

func TestSendDisabledReturnsSentinel(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = mailer.Send(context.Background(), Message{To: []string{"user@example.com"}})
	if err != ErrSMTPDisabled {
		t.Fatalf("expected ErrSMTPDisabled, got %v", err)
	}
}

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	if _, err := NewSMTPMailer(SMTPSettings{Enabled: true}); err == nil {
		t.Fatal("expected error for missing host")
	}
	if _, err := NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com"}); err == nil {
		t.Fatal("expected error for missing port")
	}
}

func TestFormatMessageHeaders(t *testing.T) {
	out := formatMessage("noreply@example.com", []string{"a@example.com"}, "Subject\r\nInjected", "body")

	if strings.Contains(out, "\r\nInjected") && !strings.Contains(out, "Subject Injected") {
		t.Fatal("expected header newlines to be escaped")
	}
	if !strings.HasSuffix(out, "body") {
		t.Fatal("expected body to terminate the message")
	}
}

func TestUniqueAddresses(t *testing.T) {
	got := uniqueAddresses([]string{" a@example.com", "a@example.com", "", "b@example.com"})
	if len(got) != 2 {
		t.Fatalf("expected 2 unique addresses, got %d", len(got))
	}
}
