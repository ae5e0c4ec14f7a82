package services

import (
	"context"
	"log"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

// Mailer envoie un e-mail HTML
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachments ...utils.Attachment) error
}

const qrAttachmentName = "commande-qr.png"

// Notifier compose les e-mails transactionnels ; un Mailer nil désactive l'envoi
type Notifier struct {
	mailer      Mailer
	frontendURL string
}

func NewNotifier(mailer Mailer, frontendURL string) *Notifier {
	return &Notifier{mailer: mailer, frontendURL: frontendURL}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.mailer != nil
}

func (n *Notifier) orderLink(order *models.Order) string {
	return n.frontendURL + "/orders/" + order.PaymentReference
}

// OrderConfirmation joint un QR code pointant vers la page de suivi
func (n *Notifier) OrderConfirmation(ctx context.Context, order *models.Order) error {
	if !n.enabled() || order.Email == "" {
		return nil
	}
	link := n.orderLink(order)

	var attachments []utils.Attachment
	qrName := ""
	if png, err := utils.OrderQR(link); err != nil {
		log.Printf("⚠️ Erreur génération QR: %v", err)
	} else {
		qrName = qrAttachmentName
		attachments = append(attachments, utils.Attachment{Name: qrAttachmentName, Content: png, Inline: true})
	}

	subject, html, err := utils.RenderOrderConfirmation(order, link, qrName)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, order.Email, subject, html, attachments...); err != nil {
		return err
	}
	log.Printf("📧 Email de confirmation envoyé: %s (commande: %s)", order.Email, order.PaymentReference)
	return nil
}

func (n *Notifier) OrderStatus(ctx context.Context, order *models.Order) error {
	if !n.enabled() || order.Email == "" {
		return nil
	}
	subject, html, err := utils.RenderOrderStatus(order, n.orderLink(order))
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, order.Email, subject, html)
}

func (n *Notifier) Welcome(ctx context.Context, user *models.User) error {
	if !n.enabled() {
		return nil
	}
	subject, html, err := utils.RenderWelcomeEmail(user.Name, n.frontendURL+"/products")
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, user.Email, subject, html)
}

// async lance fn hors requête avec un délai borné
func async(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("❌ Erreur %s: %v", name, err)
		}
	}()
}
