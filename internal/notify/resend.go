package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/Tatorick/net-play-connect-sub000/internal/models"
)

// ResendNotifier emails approval decisions to applicants via the Resend
// API. Delivery is best effort: a failed send is logged and swallowed so
// the decision that triggered it is never rolled back over a mail outage.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (n *ResendNotifier) SendRequestDecision(ctx context.Context, email, fullName string, status models.RequestStatus, rejectionReason *string) {
	var subject, body string
	switch status {
	case models.RequestStatusApproved:
		subject = "Tu solicitud de entrenador principal fue aprobada"
		body = fmt.Sprintf("<p>Hola %s,</p><p>Tu solicitud fue aprobada. Ya puedes administrar tu club.</p>", fullName)
	case models.RequestStatusRejected:
		subject = "Tu solicitud de entrenador principal fue rechazada"
		body = fmt.Sprintf("<p>Hola %s,</p><p>Tu solicitud fue rechazada.</p>", fullName)
		if rejectionReason != nil && *rejectionReason != "" {
			body += fmt.Sprintf("<p>Motivo: %s</p>", *rejectionReason)
		}
		body += "<p>Puedes enviar información adicional desde la aplicación para que tu solicitud sea revisada de nuevo.</p>"
	default:
		return
	}

	sent, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{email},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		slog.Error("decision_email_failed", "error", err, "to", email, "status", status)
		return
	}
	slog.Info("decision_email_sent", "message_id", sent.Id, "to", email, "status", status)
}
