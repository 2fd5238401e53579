package notifier

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/courtside/academy-api/internal/config"
	"github.com/courtside/academy-api/internal/domain"
)

// EmailNotifier delivers mail over plain SMTP. Delivery is best-effort:
// failures are logged and reported as false, never as errors, because no
// business operation may fail on a missed email.
type EmailNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewEmailNotifier(conf *config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{
		host:     conf.Host,
		port:     conf.Port,
		username: conf.Username,
		password: conf.Password,
		from:     conf.From,
	}
}

func (n *EmailNotifier) Send(user domain.User, subject, body string) bool {
	if n.host == "" || n.port == "" {
		zap.L().Debug("smtp not configured, dropping email",
			zap.String("to", user.Email), zap.String("subject", subject))
		return false
	}

	message := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", user.Email, subject, body))

	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	addr := fmt.Sprintf("%s:%s", n.host, n.port)
	if err := smtp.SendMail(addr, auth, n.from, []string{user.Email}, message); err != nil {
		zap.L().Warn("failed to send email",
			zap.String("to", user.Email), zap.String("subject", subject), zap.Error(err))
		return false
	}

	return true
}

// Noop swallows every message; used when email is disabled.
type Noop struct{}

func (Noop) Send(domain.User, string, string) bool {
	return true
}
