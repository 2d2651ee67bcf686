// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/notify"
)

const (
	streamBuffer  = 64
	keepAliveTick = 15 * time.Second
)

// EventsHandler exposes the event history and a live Server-Sent Events feed.
type EventsHandler struct {
	ledger *ledger.Ledger
	broker *notify.Broker
}

func NewEventsHandler(l *ledger.Ledger, b *notify.Broker) *EventsHandler {
	return &EventsHandler{ledger: l, broker: b}
}

// GetEvents handles GET /election/events?after=N
func (h *EventsHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	after, err := parseAfter(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "after must be a non-negative integer")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{
		Events: h.ledger.History(after),
	})
}

// Stream handles GET /election/events/stream
// Retained events newer than ?after (or Last-Event-ID) are sent first, then
// live events until the client disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	after, err := parseAfter(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "after must be a non-negative integer")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// Subscribe before reading history so nothing falls in between.
	id, live := h.broker.Subscribe(streamBuffer)
	defer h.broker.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	last := after
	for _, ev := range h.ledger.History(after) {
		if err := writeEvent(w, ev); err != nil {
			return
		}
		last = ev.Seq
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveTick)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case env, ok := <-live:
			if !ok {
				return
			}
			if env.Event.Seq <= last {
				continue
			}
			if err := writeEvent(w, env.Event); err != nil {
				slog.Debug("event stream closed", "error", err)
				return
			}
			last = env.Event.Seq
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev election.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.Seq, ev.Kind, data)
	return err
}

func parseAfter(r *http.Request) (uint64, error) {
	raw := r.URL.Query().Get("after")
	if raw == "" {
		raw = r.Header.Get("Last-Event-ID")
	}
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
