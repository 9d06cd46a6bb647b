package infra

import (
	"fmt"
	"net/smtp"

	"agriis/internal/config"

	"github.com/jordan-wright/email"
)

// Mensagem is an outgoing e-mail with an optional attachment on disk.
type Mensagem struct {
	Para     []string
	Assunto  string
	Corpo    string
	AnexoPDF string
}

// Mailer wraps SMTP configuration for sending order summaries.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	enviar   func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		enviar:   func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m != nil && m.host != "" }

func (m *Mailer) Enviar(msg Mensagem) error {
	if len(msg.Para) == 0 {
		return fmt.Errorf("mailer: sem destinatários")
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = msg.Para
	e.Subject = msg.Assunto
	e.Text = []byte(msg.Corpo)

	if msg.AnexoPDF != "" {
		if _, err := e.AttachFile(msg.AnexoPDF); err != nil {
			return fmt.Errorf("mailer: anexar PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.enviar(e, m.addr, auth)
}
