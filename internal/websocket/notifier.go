package websocket

import (
	"time"

	"github.com/frknlke/eluvium-backend/internal/preprocess"
)

// Notifier bridges pipeline events onto the hub's broadcast channel.
type Notifier struct {
	hub *Hub
}

// NewNotifier creates a Notifier backed by the hub.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// EmailProcessed broadcasts a processed email event to the mailbox's
// subscribers. Non-blocking: the hub drops events for slow clients.
func (n *Notifier) EmailProcessed(mailboxID, emailID string, email preprocess.NormalizedEmail) {
	n.hub.BroadcastEmailProcessed(mailboxID, &EmailProcessedPayload{
		EmailID:     emailID,
		Sender:      email.Sender,
		Subject:     email.Subject,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
