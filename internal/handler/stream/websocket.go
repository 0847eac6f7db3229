package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/linzhe/interview-forge/internal/service/generator"
)

// WebSocketHandler delivers generated questions over a websocket. Each inbound
// message is one generation request; the questions come back one frame at a
// time so interview clients can reveal them progressively.
type WebSocketHandler struct {
	generator *generator.Service
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(gen *generator.Service) *WebSocketHandler {
	return &WebSocketHandler{
		generator: gen,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes wires the websocket endpoint.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/generate", h.handleWebSocket)
}

type wsRequest struct {
	JobRole         string   `json:"job_role"`
	ExperienceLevel string   `json:"experience_level"`
	Skills          []string `json:"skills"`
	NumQuestions    int      `json:"num_questions"`
	QuestionTypes   []string `json:"question_types"`
}

type wsMessage struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	Index     int    `json:"index,omitempty"`
	Total     int    `json:"total,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[stream] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[stream] websocket read failed: %v", err)
			}
			return
		}
		if req.NumQuestions == 0 {
			req.NumQuestions = 10
		}

		questions, err := h.generator.Generate(r.Context(), generator.Request{
			JobRole:         req.JobRole,
			ExperienceLevel: req.ExperienceLevel,
			Skills:          req.Skills,
			NumQuestions:    req.NumQuestions,
			QuestionTypes:   req.QuestionTypes,
		})
		if err != nil {
			h.send(conn, wsMessage{Type: "error", Error: err.Error()})
			continue
		}

		for i, q := range questions {
			h.send(conn, wsMessage{
				Type:    "question",
				Content: q,
				Index:   i + 1,
				Total:   len(questions),
			})
		}
		h.send(conn, wsMessage{Type: "done", Total: len(questions)})
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg wsMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[stream] websocket write failed: %v", err)
	}
}
