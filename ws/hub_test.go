package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/smart-flashcard-backend/models"
)

func dialStudent(t *testing.T, hub *Hub, studentID string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/students/:student_id", hub.HandleStudentWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/students/" + studentID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHubDeliversFlashcardCreatedToOwner(t *testing.T) {
	hub := NewHub(nil)
	conn := dialStudent(t, hub, "s1")

	hello := readJSON(t, conn)
	assert.Equal(t, "connected", hello["type"])
	assert.Equal(t, "s1", hello["student_id"])
	assert.Equal(t, Stats{Students: 1, Clients: 1}, hub.Stats())

	// another student's card must not reach s1
	hub.FlashcardCreated(models.Flashcard{ID: uuid.New(), StudentID: "s2", Question: "q2", Answer: "a2", Subject: models.SubjectBiology})
	card := models.Flashcard{ID: uuid.New(), StudentID: "s1", Question: "What is force?", Answer: "mass times acceleration", Subject: models.SubjectPhysics}
	hub.FlashcardCreated(card)

	event := readJSON(t, conn)
	assert.Equal(t, "flashcard_created", event["type"])
	fc, ok := event["flashcard"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, card.ID.String(), fc["id"])
	assert.Equal(t, "Physics", fc["subject"])
	assert.NotContains(t, fc, "dedup_key")
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	conn := dialStudent(t, hub, "s1")
	readJSON(t, conn)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.Stats() == Stats{}
	}, 2*time.Second, 10*time.Millisecond)

	// broadcasting to a student without sockets is a no-op
	hub.Broadcast("s1", []byte(`{}`))
}
