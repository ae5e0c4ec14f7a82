package utils

import (
	"bytes"
	"context"
	"log"

	"github.com/wneessen/go-mail"
)

// Attachment est une pièce jointe en mémoire
type Attachment struct {
	Name    string
	Content []byte
	Inline  bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer envoie les e-mails transactionnels via go-mail
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) buildMessage(to, subject, htmlBody string, attachments []Attachment) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	for _, a := range attachments {
		if a.Inline {
			if err := msg.EmbedReader(a.Name, bytes.NewReader(a.Content)); err != nil {
				return nil, err
			}
			continue
		}
		if err := msg.AttachReader(a.Name, bytes.NewReader(a.Content)); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string, attachments ...Attachment) error {
	msg, err := m.buildMessage(to, subject, htmlBody, attachments)
	if err != nil {
		return err
	}

	opts := []mail.Option{mail.WithPort(m.cfg.Port), mail.WithTLSPolicy(mail.TLSMandatory)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSendWithContext(ctx, msg)
}
