// Package mailer delivers rendered form documents to the notification
// recipients configured per request type in the app_email table.
package mailer

import (
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/uemf/forms-api/pkg/model"
)

// ErrNoRecipients is returned when a request type has no active
// recipients configured. A notification with nobody to notify is a
// failure, not a silent no-op.
var ErrNoRecipients = errors.New("no active recipients configured")

// Sender delivers one composed message.
type Sender interface {
	Send(from string, to []string, msg []byte) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	Addr string
}

func (s *SMTPSender) Send(from string, to []string, msg []byte) error {
	return smtp.SendMail(s.Addr, nil, from, to, msg)
}

// Mailer composes and sends notification mail.
type Mailer struct {
	db      *gorm.DB
	sender  Sender
	from    string
	replyTo string
	log     *logrus.Logger
}

// New creates a mailer. The from and replyTo values may carry display
// names ("UEMF Forms <Forms@uemf.org>").
func New(db *gorm.DB, sender Sender, from, replyTo string, log *logrus.Logger) *Mailer {
	return &Mailer{db: db, sender: sender, from: from, replyTo: replyTo, log: log}
}

// Recipients lists the active recipient addresses for a request type.
func (m *Mailer) Recipients(requestType string) ([]string, error) {
	var rows []model.AppEmail
	tx := m.db.Where(map[string]interface{}{
		"request_type": requestType,
		"is_active":    "1",
	}).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	addresses := make([]string, 0, len(rows))
	for _, row := range rows {
		addresses = append(addresses, row.EmailAddress)
	}
	return addresses, nil
}

// Send delivers an HTML document to every active recipient for the
// request type. Zero configured recipients is a send failure.
func (m *Mailer) Send(requestType, subject, htmlBody string) error {
	recipients, err := m.Recipients(requestType)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		m.log.WithField("request_type", requestType).Error("No active mail recipients configured")
		return ErrNoRecipients
	}

	fromAddr, err := bareAddress(m.from)
	if err != nil {
		return fmt.Errorf("bad from address: %w", err)
	}

	msg := m.compose(recipients, subject, htmlBody)
	if err := m.sender.Send(fromAddr, recipients, msg); err != nil {
		return err
	}

	m.log.WithField("recipients", len(recipients)).Info("Sent notification mail")
	return nil
}

func (m *Mailer) compose(to []string, subject, htmlBody string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + m.from + "\r\n")
	sb.WriteString("Reply-To: " + m.replyTo + "\r\n")
	sb.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}

// bareAddress strips an optional display name down to the address
// net/smtp expects.
func bareAddress(full string) (string, error) {
	addr, err := mail.ParseAddress(full)
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}
