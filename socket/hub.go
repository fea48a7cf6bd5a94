package socket

import (
	"context"
	"encoding/json"
	"sync"

	"journal/pkg/logger"
	"journal/store"
)

const (
	SnapshotType      = "SNAPSHOT"       // Full note list, sent on connect
	NoteCreatedType   = "NOTE_CREATED"   // A note was appended
	NoteDeletedType   = "NOTE_DELETED"   // A note was removed
	NotesReloadedType = "NOTES_RELOADED" // The store changed outside the API; refetch
)

type WSMessage struct {
	Type     string          `json:"type"`
	NoteID   string          `json:"note_id,omitempty"`
	ClientID string          `json:"client_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`

	// category scopes NOTE_CREATED to matching subscribers. Not sent.
	category string
}

// Loader returns the notes a new connection starts from.
type Loader func(ctx context.Context) ([]store.Note, error)

type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client

	load Loader
	mu   sync.Mutex
	done chan struct{}
}

func NewHub(load Loader) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan WSMessage, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		load:       load,
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.Clients {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			logger.Sugar.Debugf("Client %s connected (category %q)", client.ID, client.Category)

		case client := <-h.Unregister:
			h.remove(client)

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}

			// Collect recipients under the lock, send outside of it.
			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.Clients))
			for client := range h.Clients {
				if msg.category == "" || client.Category == "" || client.Category == msg.category {
					clientsToSend = append(clientsToSend, client)
				}
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					// The client is lagging. Drop it rather than block the hub.
					logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.ID)
					h.remove(client)
				}
			}
		}
	}
}

// register and unregister give up once Run has returned.
func (h *Hub) register(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Clients[client]; ok {
		delete(h.Clients, client)
		close(client.Send)
		logger.Sugar.Debugf("Client %s disconnected", client.ID)
	}
}

// sendSnapshot queues the current notes on a client that is not registered
// yet, so the store read never blocks Run. Events published after register
// are queued behind it.
func (h *Hub) sendSnapshot(ctx context.Context, client *Client) {
	notes := []store.Note{}
	if h.load != nil {
		loaded, err := h.load(ctx)
		if err != nil {
			logger.Sugar.Errorf("Failed to load notes for client %s: %v", client.ID, err)
		} else {
			notes = filterCategory(loaded, client.Category)
		}
	}

	payload, _ := json.Marshal(notes)
	msg, _ := json.Marshal(WSMessage{Type: SnapshotType, ClientID: client.ID, Payload: payload})
	select {
	case client.Send <- msg:
	default:
		logger.Sugar.Warnf("Client %s's send buffer was full during snapshot.", client.ID)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Clients)
}

func (h *Hub) publish(msg WSMessage) {
	select {
	case h.Broadcast <- msg:
	default:
		logger.Sugar.Warnf("Broadcast queue full, dropping %s event", msg.Type)
	}
}

// NoteCreated notifies clients watching the note's category, or all notes.
func (h *Hub) NoteCreated(note store.Note) {
	payload, err := json.Marshal(note)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling note %s: %v", note.ID, err)
		return
	}
	h.publish(WSMessage{Type: NoteCreatedType, NoteID: note.ID, Payload: payload, category: note.Category})
}

func (h *Hub) NoteDeleted(id string) {
	h.publish(WSMessage{Type: NoteDeletedType, NoteID: id})
}

func (h *Hub) NotesReloaded() {
	h.publish(WSMessage{Type: NotesReloadedType})
}

func filterCategory(notes []store.Note, category string) []store.Note {
	if category == "" {
		return notes
	}
	out := make([]store.Note, 0, len(notes))
	for _, n := range notes {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out
}
