package service

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"
	"time"

	"restobar/events"
	"restobar/notify-svc/internal/domain"
)

const signature = `<p>Cheers,<br>The Nap's Grill &amp; Restobar Team</p>`

type emailTemplate struct {
	subject *texttemplate.Template
	body    *template.Template
}

var templateFuncs = template.FuncMap{
	"greeting": func(name string) string {
		if name == "" {
			return "there"
		}
		return name
	},
	"dineIn": func(value string) string {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return value
		}
		return t.Format("Mon, Jan 2 2006 3:04 PM")
	},
}

func mustEmail(kind, subject, body string) emailTemplate {
	return emailTemplate{
		subject: texttemplate.Must(texttemplate.New(kind).Parse(subject)),
		body: template.Must(template.New(kind).Funcs(templateFuncs).
			Parse(`<p>Hi <strong>{{greeting .Name}}</strong>,</p>` + body + signature)),
	}
}

var emailTemplates = map[string]emailTemplate{
	events.EmailOrderPlaced: mustEmail(events.EmailOrderPlaced,
		"Your Order #{{.Data.OrderID}} Has Been Placed - Payment Under Review",
		`<p>We received order <strong>#{{.Data.OrderID}}</strong> totalling <strong>PHP {{.Data.Total}}</strong>.</p>
<p>Your payment is being reviewed. We will email you once the kitchen starts preparing it.</p>`),
	events.EmailOrderProcessing: mustEmail(events.EmailOrderProcessing,
		"Your Order #{{.Data.OrderID}} is Now Being Processed",
		`<p>Your payment was verified and order <strong>#{{.Data.OrderID}}</strong> is being prepared.</p>`),
	events.EmailOrderReady: mustEmail(events.EmailOrderReady,
		"Your Order #{{.Data.OrderID}} is Ready for Pickup",
		`<p>Order <strong>#{{.Data.OrderID}}</strong> is ready. Show your QR code at the counter to claim it.</p>`),
	events.EmailOrderCompleted: mustEmail(events.EmailOrderCompleted,
		"Order #{{.Data.OrderID}} Completed",
		`<p>Thank you for dining with us. Order <strong>#{{.Data.OrderID}}</strong> is complete and you can now leave a review.</p>`),
	events.EmailOrderRejected: mustEmail(events.EmailOrderRejected,
		"Order #{{.Data.OrderID}} Rejected",
		`<p>We could not verify the payment for order <strong>#{{.Data.OrderID}}</strong>, so it was rejected.</p>
<p>Please contact us with your reference number if you believe this is a mistake.</p>`),
	events.EmailOrderCancelled: mustEmail(events.EmailOrderCancelled,
		"Order #{{.Data.OrderID}} Cancelled",
		`<p>Order <strong>#{{.Data.OrderID}}</strong> has been cancelled.</p>`),
	events.EmailReservationReceived: mustEmail(events.EmailReservationReceived,
		"Reservation Received - Nap's Grill and Restobar",
		`<p>We've received your table reservation for <strong>{{.Data.TableName}}</strong> on {{dineIn .Data.DineIn}}.</p>
<p>Your reservation is <strong>pending</strong> while we verify your payment.</p>`),
	events.EmailReservationConfirmed: mustEmail(events.EmailReservationConfirmed,
		"Reservation Confirmed - Nap's Grill and Restobar",
		`<p>Your reservation for <strong>{{.Data.TableName}}</strong> on {{dineIn .Data.DineIn}} is confirmed. See you soon!</p>`),
	events.EmailReservationRejected: mustEmail(events.EmailReservationRejected,
		"Reservation Rejected - Nap's Grill and Restobar",
		`<p>Unfortunately your reservation for <strong>{{.Data.TableName}}</strong> on {{dineIn .Data.DineIn}} was rejected.</p>`),
	events.EmailReservationCancelled: mustEmail(events.EmailReservationCancelled,
		"Reservation Cancelled - Nap's Grill and Restobar",
		`<p>Your reservation for <strong>{{.Data.TableName}}</strong> on {{dineIn .Data.DineIn}} has been cancelled.</p>`),
	events.EmailReservationDone: mustEmail(events.EmailReservationDone,
		"Thank You for Dining With Us",
		`<p>We hope you enjoyed your time at <strong>{{.Data.TableName}}</strong>. We'd love to see you again.</p>`),
	events.EmailAccountBlocked: mustEmail(events.EmailAccountBlocked,
		"Account Blocked - Nap's Grill and Restobar",
		`<p>Your account has been <strong>blocked</strong> by the administrator. You will not be able to log in until it is unblocked.</p>
<p>If you believe this is a mistake, please contact us.</p>`),
	events.EmailAccountUnblocked: mustEmail(events.EmailAccountUnblocked,
		"Account Unblocked - Nap's Grill and Restobar",
		`<p>Your account has been <strong>unblocked</strong>. You can log in and order again.</p>`),
}

// RenderEmail builds the message for event.EmailKind addressed to event.Recipient.
func RenderEmail(event events.Event) (domain.Email, error) {
	tmpl, ok := emailTemplates[event.EmailKind]
	if !ok {
		return domain.Email{}, fmt.Errorf("%w: %q", domain.ErrUnknownEmailKind, event.EmailKind)
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, event); err != nil {
		return domain.Email{}, fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.body.Execute(&body, event); err != nil {
		return domain.Email{}, fmt.Errorf("render body: %w", err)
	}

	return domain.Email{To: event.Recipient, Subject: subject.String(), Body: body.String()}, nil
}
