package utils

import (
	"bytes"
	"fmt"
	"html/template"

	"storefront_back_end/internal/models"
)

const emailLayout = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f5f5f5;">
<table role="presentation" style="width:100%;border-collapse:collapse;">
<tr><td style="padding:40px 20px;">
<table role="presentation" style="max-width:600px;margin:0 auto;background-color:#ffffff;border-radius:12px;">
<tr><td style="background-color:{{.Color}};padding:40px 30px;text-align:center;border-radius:12px 12px 0 0;">
<h1 style="margin:0;color:#ffffff;font-size:28px;">{{.Icon}} {{.Title}}</h1>
</td></tr>
<tr><td style="padding:30px;color:#333333;font-size:16px;line-height:1.6;">
{{template "content" .}}
<p style="margin-top:30px;color:#555;">Cordialement,<br><strong>L'équipe Storefront</strong></p>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`

const welcomeContent = `{{define "content"}}
<p>Bonjour {{.Name}},</p>
<p>Merci de vous être inscrit ! Découvrez dès maintenant notre sélection de produits.</p>
<p style="text-align:center;"><a href="{{.Link}}" style="display:inline-block;padding:14px 32px;background-color:#667eea;color:#ffffff;text-decoration:none;border-radius:8px;">🛍️ Commencer mes achats</a></p>
{{end}}`

const orderConfirmationContent = `{{define "content"}}
<p>Bonjour,</p>
<p>Votre paiement a été confirmé. Référence : <strong>{{.Order.PaymentReference}}</strong></p>
<table style="width:100%;border-collapse:collapse;margin:20px 0;">
<thead><tr style="background-color:#f0f0f0;">
<th style="padding:8px;text-align:left;">Produit</th><th style="padding:8px;">Qté</th><th style="padding:8px;text-align:right;">Total</th>
</tr></thead>
<tbody>
{{range .Order.Items}}<tr>
<td style="padding:8px;border-bottom:1px solid #eee;">{{.Name}}{{if .Color}} · {{.Color}}{{end}}{{if .Size}} · {{.Size}}{{end}}</td>
<td style="padding:8px;border-bottom:1px solid #eee;text-align:center;">{{.Quantity}}</td>
<td style="padding:8px;border-bottom:1px solid #eee;text-align:right;">{{money .LineTotal $.Order.Currency}}</td>
</tr>{{end}}
</tbody>
<tfoot>
<tr><td colspan="2" style="padding:6px;text-align:right;">Sous-total</td><td style="padding:6px;text-align:right;">{{money .Order.Subtotal .Order.Currency}}</td></tr>
{{if gt .Order.Discount 0.0}}<tr><td colspan="2" style="padding:6px;text-align:right;">Remise</td><td style="padding:6px;text-align:right;">-{{money .Order.Discount .Order.Currency}}</td></tr>{{end}}
<tr><td colspan="2" style="padding:6px;text-align:right;">Livraison</td><td style="padding:6px;text-align:right;">{{money .Order.Shipping .Order.Currency}}</td></tr>
<tr><td colspan="2" style="padding:6px;text-align:right;font-weight:bold;">Total</td><td style="padding:6px;text-align:right;font-weight:bold;">{{money .Order.Total .Order.Currency}}</td></tr>
</tfoot>
</table>
<p style="text-align:center;"><a href="{{.Link}}">Suivre ma commande</a></p>
{{if .QRCode}}<p style="text-align:center;"><img src="cid:{{.QRCode}}" alt="QR code" width="160" height="160"></p>{{end}}
{{end}}`

const orderStatusContent = `{{define "content"}}
<p>{{.Message}}</p>
<p>Commande <strong>#{{.ShortID}}</strong> · Statut : <strong style="color:{{.Color}};">{{.Status}}</strong></p>
<p>Montant : {{money .Order.Total .Order.Currency}}</p>
<p style="text-align:center;"><a href="{{.Link}}">Voir ma commande</a></p>
{{end}}`

var emailFuncs = template.FuncMap{
	"money": func(amount float64, currency string) string {
		return fmt.Sprintf("%.2f %s", amount, currency)
	},
}

var (
	welcomeTmpl           = template.Must(template.Must(template.New("layout").Funcs(emailFuncs).Parse(emailLayout)).Parse(welcomeContent))
	orderConfirmationTmpl = template.Must(template.Must(template.New("layout").Funcs(emailFuncs).Parse(emailLayout)).Parse(orderConfirmationContent))
	orderStatusTmpl       = template.Must(template.Must(template.New("layout").Funcs(emailFuncs).Parse(emailLayout)).Parse(orderStatusContent))
)

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderWelcomeEmail retourne le sujet et le HTML de l'e-mail de bienvenue
func RenderWelcomeEmail(name, shopURL string) (string, string, error) {
	html, err := render(welcomeTmpl, map[string]interface{}{
		"Title": "Bienvenue !",
		"Icon":  "🎉",
		"Color": "#667eea",
		"Name":  name,
		"Link":  shopURL,
	})
	return "🎉 Bienvenue sur Storefront !", html, err
}

// RenderOrderConfirmation ; qrCID est le nom de l'image QR intégrée, vide si absente
func RenderOrderConfirmation(order *models.Order, link, qrCID string) (string, string, error) {
	html, err := render(orderConfirmationTmpl, map[string]interface{}{
		"Title":  "Commande confirmée",
		"Icon":   "✅",
		"Color":  StatusColor(models.OrderPaid),
		"Order":  order,
		"Link":   link,
		"QRCode": qrCID,
	})
	return "✅ Commande confirmée - " + order.PaymentReference, html, err
}

func RenderOrderStatus(order *models.Order, link string) (string, string, error) {
	id := order.ID.Hex()
	html, err := render(orderStatusTmpl, map[string]interface{}{
		"Title":   "Mise à jour de votre commande",
		"Icon":    StatusIcon(order.Status),
		"Color":   StatusColor(order.Status),
		"Message": StatusMessage(order.Status),
		"Status":  order.Status,
		"ShortID": id[len(id)-8:],
		"Order":   order,
		"Link":    link,
	})
	return StatusIcon(order.Status) + " Votre commande est " + order.Status, html, err
}

func StatusMessage(status string) string {
	switch status {
	case models.OrderPaid:
		return "Votre paiement a été confirmé avec succès. Nous préparons votre commande."
	case models.OrderProcessing:
		return "Votre commande est en cours de préparation."
	case models.OrderShipped:
		return "Bonne nouvelle ! Votre commande a été expédiée et est en route vers vous."
	case models.OrderDelivered:
		return "Votre commande a été livrée. Nous espérons que vous en êtes satisfait !"
	case models.OrderCancelled:
		return "Votre commande a été annulée. Si vous avez des questions, n'hésitez pas à nous contacter."
	default:
		return "Le statut de votre commande a été mis à jour."
	}
}

func StatusIcon(status string) string {
	switch status {
	case models.OrderPaid:
		return "✅"
	case models.OrderProcessing:
		return "⚙️"
	case models.OrderShipped:
		return "📦"
	case models.OrderDelivered:
		return "🎉"
	case models.OrderCancelled:
		return "❌"
	default:
		return "📋"
	}
}

func StatusColor(status string) string {
	switch status {
	case models.OrderPaid:
		return "#10b981" // Green
	case models.OrderProcessing:
		return "#f59e0b" // Orange
	case models.OrderShipped:
		return "#3b82f6" // Blue
	case models.OrderDelivered:
		return "#8b5cf6" // Purple
	case models.OrderCancelled:
		return "#ef4444" // Red
	default:
		return "#6b7280" // Gray
	}
}
