package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/models"
)

const (
	sendBuffer = 256
	writeWait  = 10 * time.Second
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans flashcard events out to the sockets of the owning student.
type Hub struct {
	mu       sync.RWMutex
	students map[string]map[*websocket.Conn]*Client
	log      *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		students: make(map[string]map[*websocket.Conn]*Client),
		log:      log.With("component", "ws.Hub"),
	}
}

type FlashcardEvent struct {
	Type      string           `json:"type"`
	Flashcard models.Flashcard `json:"flashcard"`
}

// Register subscribes conn to a student's events and starts its writer.
func (h *Hub) Register(studentID string, conn *websocket.Conn) *Client {
	client := &Client{Conn: conn, Send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if _, ok := h.students[studentID]; !ok {
		h.students[studentID] = make(map[*websocket.Conn]*Client)
	}
	h.students[studentID][conn] = client
	h.mu.Unlock()

	go h.writePump(client)
	return client
}

func (h *Hub) Unregister(studentID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.students[studentID]
	if !ok {
		return
	}
	if client, ok := clients[conn]; ok {
		close(client.Send)
		delete(clients, conn)
	}
	if len(clients) == 0 {
		delete(h.students, studentID)
	}
}

// Broadcast queues data for every socket of studentID. Slow sockets drop the message.
func (h *Hub) Broadcast(studentID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.students[studentID] {
		select {
		case client.Send <- data:
		default:
			h.log.Warn("ws send buffer full, dropping message", "student_id", studentID)
		}
	}
}

// FlashcardCreated implements services.FlashcardNotifier.
func (h *Hub) FlashcardCreated(card models.Flashcard) {
	data, err := json.Marshal(FlashcardEvent{Type: "flashcard_created", Flashcard: card})
	if err != nil {
		h.log.Error("ws marshal flashcard event", "error", err)
		return
	}
	h.Broadcast(card.StudentID, data)
}

type Stats struct {
	Students int `json:"students"`
	Clients  int `json:"clients"`
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Stats{Students: len(h.students)}
	for _, clients := range h.students {
		s.Clients += len(clients)
	}
	return s
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		_ = client.Conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
		_ = client.Conn.Close()
	}()
	for msg := range client.Send {
		_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
