// Package email provides order notification templates.
package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
)

// OrderInfo carries everything the notification templates can reference.
type OrderInfo struct {
	OrderNumber       string
	CustomerName      string
	CustomerEmail     string
	ShopName          string
	ProductName       string
	SizeName          string
	Quantity          int
	Total             string
	Carrier           string
	TrackingNumber    string
	TrackingURL       string
	EstimatedDelivery string
}

type namedTemplate struct {
	subject string
	html    string
	text    string
}

var orderTemplates = map[string]namedTemplate{
	"order_confirmation": {
		subject: "Order Confirmed - {{.OrderNumber}} - {{.ShopName}}",
		html:    orderConfirmationHTML,
		text:    orderConfirmationText,
	},
	"order_shipped": {
		subject: "Your Order Has Shipped - {{.OrderNumber}} - {{.ShopName}}",
		html:    orderShippedHTML,
		text:    orderShippedText,
	},
}

// Renderer renders order notification emails.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl := template.New("email")

	for key, t := range orderTemplates {
		if _, err := tmpl.New(key + "_subject").Parse(t.subject); err != nil {
			return nil, fmt.Errorf("failed to parse subject template %s: %w", key, err)
		}
		if _, err := tmpl.New(key + "_html").Parse(t.html); err != nil {
			return nil, fmt.Errorf("failed to parse HTML template %s: %w", key, err)
		}
		if _, err := tmpl.New(key + "_text").Parse(t.text); err != nil {
			return nil, fmt.Errorf("failed to parse text template %s: %w", key, err)
		}
	}

	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) Render(templateName string, data *OrderInfo) (*Email, error) {
	var subjectBuf, htmlBuf, textBuf bytes.Buffer

	if err := r.templates.ExecuteTemplate(&subjectBuf, templateName+"_subject", data); err != nil {
		return nil, fmt.Errorf("failed to render subject template: %w", err)
	}
	if err := r.templates.ExecuteTemplate(&htmlBuf, templateName+"_html", data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}
	if err := r.templates.ExecuteTemplate(&textBuf, templateName+"_text", data); err != nil {
		return nil, fmt.Errorf("failed to render text template: %w", err)
	}

	return &Email{
		To:      data.CustomerEmail,
		Subject: subjectBuf.String(),
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}

// SendOrderConfirmation renders and sends the confirmation email. A nil
// provider means email is disabled and the call is a no-op.
func SendOrderConfirmation(ctx context.Context, p Provider, orderInfo *OrderInfo) error {
	return send(ctx, p, "order_confirmation", orderInfo)
}

// SendOrderShipped renders and sends the shipment notification.
func SendOrderShipped(ctx context.Context, p Provider, orderInfo *OrderInfo) error {
	return send(ctx, p, "order_shipped", orderInfo)
}

func send(ctx context.Context, p Provider, templateName string, orderInfo *OrderInfo) error {
	if p == nil {
		return nil
	}

	renderer, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	msg, err := renderer.Render(templateName, orderInfo)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.SendEmail(ctx, msg)
}

const orderConfirmationText = `Thank you for your order!

Order {{.OrderNumber}} from {{.ShopName}} is confirmed.

{{.ProductName}} ({{.SizeName}}) x {{.Quantity}}
Total: {{.Total}}

We'll email you again when it ships.
`

const orderConfirmationHTML = `<h2>Thank you for your order!</h2>
<p>Order <strong>{{.OrderNumber}}</strong> from {{.ShopName}} is confirmed.</p>
<p>{{.ProductName}} ({{.SizeName}}) &times; {{.Quantity}}<br>
Total: <strong>{{.Total}}</strong></p>
<p>We'll email you again when it ships.</p>
`

const orderShippedText = `Good news - your order has shipped!

Order {{.OrderNumber}} from {{.ShopName}} is on its way.

Carrier: {{.Carrier}}
Tracking number: {{.TrackingNumber}}
{{if .TrackingURL}}Track it here: {{.TrackingURL}}
{{end}}{{if .EstimatedDelivery}}Estimated delivery: {{.EstimatedDelivery}}
{{end}}`

const orderShippedHTML = `<h2>Good news &mdash; your order has shipped!</h2>
<p>Order <strong>{{.OrderNumber}}</strong> from {{.ShopName}} is on its way.</p>
<p>Carrier: {{.Carrier}}<br>
Tracking number: <strong>{{.TrackingNumber}}</strong></p>
{{if .TrackingURL}}<p><a href="{{.TrackingURL}}">Track your package</a></p>{{end}}
{{if .EstimatedDelivery}}<p>Estimated delivery: {{.EstimatedDelivery}}</p>{{end}}
`
