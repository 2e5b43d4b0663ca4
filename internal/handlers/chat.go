package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/worker"
)

// ModelUsedHeader names the model that served a successful response.
const ModelUsedHeader = "X-Model-Used"

type relayService interface {
	Relay(ctx context.Context, system string, messages []models.ChatMessage) (*services.RelayResult, *services.RelayError)
}

type profileLoader interface {
	Load(ctx context.Context) (*models.Profile, error)
}

type ChatHandler struct {
	loader  profileLoader
	relay   relayService
	apiKey  string
	env     string
	logPool *worker.Pool // nil when persistence is disabled
}

func NewChatHandler(loader profileLoader, relay relayService, apiKey, env string, logPool *worker.Pool) *ChatHandler {
	return &ChatHandler{
		loader:  loader,
		relay:   relay,
		apiKey:  apiKey,
		env:     env,
		logPool: logPool,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, http.StatusBadRequest, services.ErrInvalidRequest, "Request body must be JSON with a messages array", "", nil)
		return
	}
	if len(req.Messages) == 0 {
		writeChatError(w, http.StatusBadRequest, services.ErrInvalidRequest, "messages must be a non-empty array", "", nil)
		return
	}

	// Fail fast before touching the provider or the profile document.
	if h.apiKey == "" {
		writeChatError(w, http.StatusInternalServerError, services.ErrMisconfigured, "Provider API key is not configured", "", nil)
		return
	}

	prof, err := h.loader.Load(r.Context())
	if err != nil {
		log.Printf("chat: profile load failed: %v", err)
		writeChatError(w, http.StatusInternalServerError, services.ErrProfileLoad, "Failed to load profile document", "", h.details(err))
		return
	}

	messages := services.NormalizeMessages(req.Messages)
	if len(messages) == 0 {
		writeChatError(w, http.StatusBadRequest, services.ErrNoValidMessages, "All messages were empty after normalization", "", nil)
		return
	}

	system := services.BuildSystemPrompt(prof)

	result, relayErr := h.relay.Relay(r.Context(), system, messages)
	if relayErr != nil {
		h.logOutcome(start, len(messages), "", relayErr.Code)
		writeChatError(w, relayErr.Status, relayErr.Code, relayErr.Message, relayErr.ModelTried, h.details(relayErr.Err))
		return
	}
	defer result.Stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set(ModelUsedHeader, result.Model)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for {
		chunk, err := result.Stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Headers are already on the wire; all we can do is stop.
			log.Printf("chat: stream from %s aborted: %v", result.Model, err)
			break
		}
		if chunk == "" {
			continue
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			// Client disconnected; the request context tears down upstream.
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	h.logOutcome(start, len(messages), result.Model, "")
}

// logOutcome queues a diagnostic record; it never blocks the request.
func (h *ChatHandler) logOutcome(start time.Time, msgCount int, model, errCode string) {
	if h.logPool == nil {
		return
	}

	entry := models.ChatLog{
		MessageCount: msgCount,
		DurationMs:   time.Since(start).Milliseconds(),
		Status:       "success",
	}
	if model != "" {
		entry.ModelUsed = &model
	}
	if errCode != "" {
		entry.Status = "failed"
		entry.ErrorCode = &errCode
	}

	h.logPool.Enqueue(entry)
}

// details exposes the underlying cause outside production only.
func (h *ChatHandler) details(err error) map[string]interface{} {
	if err == nil || h.env == "production" {
		return nil
	}
	return map[string]interface{}{"cause": err.Error()}
}

func writeChatError(w http.ResponseWriter, status int, code, message, modelTried string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ChatErrorResponse{
		Error:      code,
		Message:    message,
		ModelTried: modelTried,
		Details:    details,
	})
}
