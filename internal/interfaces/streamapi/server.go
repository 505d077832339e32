// Package streamapi exposes a live SSE listener for match-event replay. It
// runs on its own fasthttp listener, separate from the synchronous
// net/http query surface in httpapi: a long-lived streaming connection
// doesn't fit the read/write timeout budget the JSON API is configured
// with, so it gets its own address and its own server loop.
package streamapi

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/platform/logging"
)

// pollInterval is how often the stream re-scans the event log for rows
// appended since the last poll. The log has no native wakeup signal, so
// this is a plain poll loop rather than a pubsub subscription.
const pollInterval = 500 * time.Millisecond

// Server serves GET /v1/matches/{id}/events/stream as server-sent events.
type Server struct {
	events eventlog.Repository
	logger *logging.Logger
}

func NewServer(events eventlog.Repository, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{events: events, logger: logger}
}

// Fasthttp returns the underlying server, ready for ListenAndServe.
func (s *Server) Fasthttp() *fasthttp.Server {
	return &fasthttp.Server{
		Handler: s.handle,
		Name:    "matchstate-streamapi",
	}
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodGet {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		return
	}
	matchID, ok := matchIDFromPath(string(ctx.Path()))
	if !ok {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	ctx.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		s.stream(ctx, matchID, w)
	})
}

// matchIDFromPath extracts {id} from /v1/matches/{id}/events/stream,
// mirroring the path httpapi registers for the synchronous equivalent.
func matchIDFromPath(path string) (string, bool) {
	const prefix = "/v1/matches/"
	const suffix = "/events/stream"
	if len(path) <= len(prefix)+len(suffix) {
		return "", false
	}
	if path[:len(prefix)] != prefix || path[len(path)-len(suffix):] != suffix {
		return "", false
	}
	return path[len(prefix) : len(path)-len(suffix)], true
}

// stream polls the event log from sequence 0 until the requested match ends
// or the client disconnects, writing one SSE frame per matching event.
func (s *Server) stream(ctx *fasthttp.RequestCtx, matchID string, w *bufio.Writer) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var next int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		batch, err := s.events.ReadFrom(context.Background(), next)
		if err != nil {
			s.logger.Error("stream read failed",
				"event", "stream_read_failed",
				"error", err.Error(),
				"match_id", matchID,
			)
			return
		}

		done := false
		for _, evt := range batch {
			if evt.Sequence >= next {
				next = evt.Sequence + 1
			}
			id, ok := matchIDOf(evt.Payload)
			if !ok || id != matchID {
				continue
			}
			if err := writeFrame(w, evt); err != nil {
				return
			}
			if evt.Kind == eventlog.KindMatchEnded || evt.Kind == eventlog.KindMatchAborted {
				done = true
			}
		}
		if err := w.Flush(); err != nil {
			return
		}
		if done {
			return
		}
	}
}

// writeFrame renders one event as an SSE frame, borrowing a pooled buffer
// for the JSON payload rather than allocating per event.
func writeFrame(w *bufio.Writer, evt eventlog.Event) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	payload, err := eventlog.EncodePayload(evt.Payload)
	if err != nil {
		return fmt.Errorf("encode event %d for stream: %w", evt.Sequence, err)
	}
	buf.B = append(buf.B, payload...)

	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", evt.Sequence, evt.Kind, buf.B)
	return err
}

// matchIDOf extracts the match id carried by payload kinds generated during
// a live match. Kinds with no match association (SoftStateUpdated,
// SeasonEnded, narrative events, etc.) never appear on this stream.
func matchIDOf(p eventlog.Payload) (string, bool) {
	switch v := p.(type) {
	case eventlog.MatchScheduled:
		return v.MatchID, true
	case eventlog.MatchStarted:
		return v.MatchID, true
	case eventlog.KickOff:
		return v.MatchID, true
	case eventlog.Goal:
		return v.MatchID, true
	case eventlog.YellowCard:
		return v.MatchID, true
	case eventlog.RedCard:
		return v.MatchID, true
	case eventlog.Substitution:
		return v.MatchID, true
	case eventlog.Injury:
		return v.MatchID, true
	case eventlog.CornerKick:
		return v.MatchID, true
	case eventlog.Foul:
		return v.MatchID, true
	case eventlog.FreeKick:
		return v.MatchID, true
	case eventlog.PenaltyAwarded:
		return v.MatchID, true
	case eventlog.Offside:
		return v.MatchID, true
	case eventlog.MatchEnded:
		return v.MatchID, true
	case eventlog.MatchAborted:
		return v.MatchID, true
	default:
		return "", false
	}
}
