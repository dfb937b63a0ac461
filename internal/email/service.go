package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service sends transactional mail. Delivery failures are the caller's
// problem to log; nothing in the core depends on mail going out.
type Service interface {
	SendActivationCode(to, firstName, code string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewService returns an SMTP-backed sender, or a no-op sender when no
// host is configured so local setups work without a mail relay.
func NewService(cfg Config) Service {
	if cfg.Host == "" {
		return noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendActivationCode(to, firstName, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Activate your account")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Your activation code is <b>%s</b>. It expires in 48 hours.</p>",
		firstName, code,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send activation email: %w", err)
	}
	return nil
}

type noopService struct{}

func (noopService) SendActivationCode(string, string, string) error { return nil }
