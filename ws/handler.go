package ws

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// sockets carry no credentials, so any origin may subscribe
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleStudentWebSocket streams flashcard events for one student.
// GET /ws/students/:student_id
func (h *Hub) HandleStudentWebSocket(c *gin.Context) {
	studentID := strings.TrimSpace(c.Param("student_id"))
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "student_id", studentID, "error", err)
		return
	}
	h.log.Info("student ws connected", "student_id", studentID)

	client := h.Register(studentID, conn)
	defer h.Unregister(studentID, conn)

	hello, _ := json.Marshal(gin.H{"type": "connected", "student_id": studentID})
	select {
	case client.Send <- hello:
	default:
	}

	// the read loop only detects disconnects; clients send nothing meaningful
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.log.Info("student ws disconnected", "student_id", studentID)
}
