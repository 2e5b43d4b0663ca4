package services

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"portfolio-backend/internal/models"
)

// RelayResult is a winning attempt: the model that answered and its
// reply stream. Callers must Close the stream when done.
type RelayResult struct {
	Model  string
	Stream ChatStream
}

// RelayService tries an ordered list of model candidates until one
// produces a usable stream. Candidates are attempted strictly
// sequentially: every attempt is a billable call, so nothing races.
type RelayService struct {
	streamer   ModelStreamer
	candidates []string
	timeout    time.Duration
}

func NewRelayService(streamer ModelStreamer, candidates []string, timeout time.Duration) *RelayService {
	return &RelayService{
		streamer:   streamer,
		candidates: candidates,
		timeout:    timeout,
	}
}

// Relay walks the candidate list in priority order. Transient failures
// (rate limiting, upstream 5xx) advance to the next candidate; anything
// else aborts immediately with the upstream status when it is numeric.
func (s *RelayService) Relay(ctx context.Context, system string, messages []models.ChatMessage) (*RelayResult, *RelayError) {
	var lastErr error
	var lastModel string

	for _, model := range s.candidates {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)

		stream, err := s.openStream(attemptCtx, model, system, messages)
		if err != nil {
			cancel()
			if isRetryable(err) {
				log.Printf("chat relay: model %s failed (retryable), trying next candidate: %v", model, err)
				lastErr = err
				lastModel = model
				continue
			}
			log.Printf("chat relay: model %s failed (fatal): %v", model, err)
			return nil, providerError(model, err)
		}

		log.Printf("chat relay: streaming from model %s (%d messages)", model, len(messages))
		return &RelayResult{
			Model:  model,
			Stream: &boundedStream{inner: stream, cancel: cancel},
		}, nil
	}

	return nil, &RelayError{
		Code:       ErrAllModelsFailed,
		Status:     http.StatusInternalServerError,
		Message:    "All model candidates failed",
		ModelTried: lastModel,
		Err:        lastErr,
	}
}

// openStream materializes the response far enough to know the candidate
// actually answered: the SDK often surfaces HTTP failures on the first
// read rather than when the stream is opened.
func (s *RelayService) openStream(ctx context.Context, model, system string, messages []models.ChatMessage) (ChatStream, error) {
	stream, err := s.streamer.StreamChat(ctx, model, system, messages)
	if err != nil {
		return nil, err
	}

	first, err := stream.Recv()
	if err != nil && err != io.EOF {
		stream.Close()
		return nil, err
	}

	return &primedStream{inner: stream, first: first, eof: err == io.EOF}, nil
}

// primedStream replays the chunk consumed while probing the candidate.
type primedStream struct {
	inner ChatStream
	first string
	sent  bool
	eof   bool
}

func (s *primedStream) Recv() (string, error) {
	if !s.sent {
		s.sent = true
		return s.first, nil
	}
	if s.eof {
		return "", io.EOF
	}
	return s.inner.Recv()
}

func (s *primedStream) Close() { s.inner.Close() }

// boundedStream ties the attempt deadline to the stream lifetime: the
// context stays alive while the winner streams and is released on Close.
type boundedStream struct {
	inner  ChatStream
	cancel context.CancelFunc
}

func (s *boundedStream) Recv() (string, error) { return s.inner.Recv() }

func (s *boundedStream) Close() {
	s.cancel()
	s.inner.Close()
}

// retryablePatterns is a last-resort heuristic for errors that carry no
// numeric status. Substring matching is fragile against provider message
// changes; the googleapi status check below is the authoritative signal.
var retryablePatterns = []string{
	"rate limit",
	"resource exhausted",
	"quota",
	"429",
	"500",
	"502",
	"503",
	"504",
	"overloaded",
	"unavailable",
	"internal server",
}

// isRetryable reports whether a candidate failure should advance the
// loop rather than abort the request. Rate limiting and upstream server
// faults are transient; everything else is terminal.
func isRetryable(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500
	}

	msg := strings.ToLower(err.Error())
	for _, pat := range retryablePatterns {
		if strings.Contains(msg, pat) {
			return true
		}
	}
	return false
}

// providerError converts a fatal candidate failure into the terminal
// relay error, passing through the upstream status when it is numeric.
func providerError(model string, err error) *RelayError {
	status := http.StatusInternalServerError
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code >= 400 && gerr.Code < 600 {
		status = gerr.Code
	}

	return &RelayError{
		Code:       ErrProvider,
		Status:     status,
		Message:    "Model request failed",
		ModelTried: model,
		Err:        err,
	}
}
