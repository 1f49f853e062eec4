package messaging

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

// EscalationBroadcaster fans escalation events out to connected admin
// websocket clients. Writes to a dead connection evict it from the pool.
type EscalationBroadcaster struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
}

// NewEscalationBroadcaster creates an EscalationBroadcaster. The container
// constructs exactly one and injects it where needed.
func NewEscalationBroadcaster(logger *logging.ChanneledLogger) *EscalationBroadcaster {
	return &EscalationBroadcaster{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// AddClient registers a new admin websocket connection.
func (b *EscalationBroadcaster) AddClient(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clients[conn] = true
	b.logger.Escalation().Debug("Live feed client registered", "clients", len(b.clients))
}

// RemoveClient unregisters an admin websocket connection and closes it.
func (b *EscalationBroadcaster) RemoveClient(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.clients[conn]; exists {
		delete(b.clients, conn)
		conn.Close()
	}
	b.logger.Escalation().Debug("Live feed client unregistered", "clients", len(b.clients))
}

// ClientCount returns the number of connected live feed clients.
func (b *EscalationBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// BroadcastEscalation pushes a new escalation record to every connected client.
func (b *EscalationBroadcaster) BroadcastEscalation(record *chat.EscalationRecord) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Escalation().Error("Panic recovered in BroadcastEscalation", "error", r)
		}
	}()

	payload, err := json.Marshal(map[string]any{
		"event":      "escalation_created",
		"escalation": record,
	})
	if err != nil {
		b.logger.Escalation().Error("Failed to marshal escalation broadcast", "error", err.Error(), "escalationId", record.ID)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(b.clients, conn)
			conn.Close()
			b.logger.Escalation().Debug("Dropped dead live feed client", "error", err.Error())
		}
	}

	b.logger.Escalation().Debug("Escalation broadcast delivered", "escalationId", record.ID, "clients", len(b.clients))
}
