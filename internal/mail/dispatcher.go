// Package mail delivers the order confirmation email with the rendered
// request-copy PDF attached.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopdesk/internal/config"
	"shopdesk/internal/domain"

	gomail "github.com/wneessen/go-mail"
)

var (
	ErrMissingRecipient = errors.New("order has no customer email address")
)

// sendTimeout bounds dialing and delivery so a stalled relay cannot block
// the order-create request indefinitely.
const sendTimeout = 30 * time.Second

// Dispatcher sends the confirmation email for a persisted order.
type Dispatcher interface {
	Send(ctx context.Context, order *domain.Order, pdf []byte) error
}

type smtpDispatcher struct {
	cfg     config.SMTPConfig
	company string
}

// NewDispatcher creates a Dispatcher talking to the configured SMTP relay.
func NewDispatcher(cfg config.SMTPConfig, companyName string) Dispatcher {
	return &smtpDispatcher{cfg: cfg, company: companyName}
}

// Send delivers the email in a single dial-and-send, no retry. The
// missing-recipient check runs before any network activity.
func (d *smtpDispatcher) Send(ctx context.Context, order *domain.Order, pdf []byte) error {
	msg, err := buildMessage(order, pdf, d.cfg.From, d.company)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(d.cfg.Host,
		gomail.WithPort(d.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(d.cfg.Username),
		gomail.WithPassword(d.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send order email: %w", err)
	}

	return nil
}

// AttachmentName is the deterministic filename of the PDF attachment.
func AttachmentName(order *domain.Order) string {
	return fmt.Sprintf("request-copy-%s.pdf", order.ID)
}

// Subject is the fixed subject line embedding the order id.
func Subject(order *domain.Order, companyName string) string {
	return fmt.Sprintf("%s - Request Copy for Order %s", companyName, order.ID)
}

// Body is the fixed multi-line greeting, falling back to a generic label
// when the customer name is absent.
func Body(order *domain.Order, companyName string) string {
	name := order.CustomerName
	if name == "" {
		name = "Customer"
	}

	return strings.Join([]string{
		fmt.Sprintf("Hello %s,", name),
		"",
		"Thank you for your enquiry. Please find the request copy attached with the items you selected.",
		"",
		"We will reach out shortly with the detailed invoice.",
		"",
		"Regards,",
		companyName,
	}, "\n")
}

func buildMessage(order *domain.Order, pdf []byte, from, companyName string) (*gomail.Msg, error) {
	if order.Email == "" {
		return nil, ErrMissingRecipient
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(order.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(Subject(order, companyName))
	msg.SetBodyString(gomail.TypeTextPlain, Body(order, companyName))

	if err := msg.AttachReader(AttachmentName(order), bytes.NewReader(pdf),
		gomail.WithFileContentType(gomail.ContentType("application/pdf"))); err != nil {
		return nil, fmt.Errorf("failed to attach document: %w", err)
	}

	return msg, nil
}
