package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"portfolio-backend/internal/models"
)

const geminiTemperature = 0.7

// ChatStream yields incremental reply text. Recv returns io.EOF when the
// stream is exhausted; Close releases the underlying connection.
type ChatStream interface {
	Recv() (string, error)
	Close()
}

// ModelStreamer opens a streaming completion against a single model
// candidate.
type ModelStreamer interface {
	StreamChat(ctx context.Context, model, system string, messages []models.ChatMessage) (ChatStream, error)
}

// GeminiStreamer talks to the Gemini API. A client is created per call:
// each request may target a different model and holds its own system
// instruction, so there is nothing worth sharing between requests.
type GeminiStreamer struct {
	apiKey string
}

func NewGeminiStreamer(apiKey string) *GeminiStreamer {
	return &GeminiStreamer{apiKey: apiKey}
}

func (g *GeminiStreamer) StreamChat(ctx context.Context, modelName, system string, messages []models.ChatMessage) (ChatStream, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(geminiTemperature)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	chat := model.StartChat()
	last := messages[len(messages)-1]
	for _, m := range messages[:len(messages)-1] {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		chat.History = append(chat.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	iter := chat.SendMessageStream(ctx, genai.Text(last.Content))
	return &geminiStream{client: client, iter: iter}, nil
}

type geminiStream struct {
	client *genai.Client
	iter   *genai.GenerateContentResponseIterator
}

func (s *geminiStream) Recv() (string, error) {
	resp, err := s.iter.Next()
	if err == iterator.Done {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return chunkText(resp), nil
}

func (s *geminiStream) Close() {
	s.client.Close()
}

// chunkText flattens the text parts of one streamed response chunk.
func chunkText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
