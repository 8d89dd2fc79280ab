package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/infrastructure/pubsub"

	"github.com/rs/zerolog"
)

// heartbeatInterval keeps idle event streams open through proxies
const heartbeatInterval = 25 * time.Second

type activityHandler struct {
	activity Activity
	stream   EventStream
	logger   zerolog.Logger
}

func (h *activityHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorMessage(w, http.StatusBadRequest, "invalid limit: "+raw)
			return
		}
		limit = n
	}

	events, err := h.activity.ListEvents(r.Context(), domain.GetTenantIDFromContext(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *activityHandler) syncStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.activity.SyncStatuses(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// streamEvents writes the tenant's live activity as server-sent events until the client leaves
func (h *activityHandler) streamEvents(w http.ResponseWriter, r *http.Request) {
	if h.stream == nil {
		writeErrorMessage(w, http.StatusNotImplemented, "event stream is not available")
		return
	}

	ctx := r.Context()
	filter := &pubsub.EventFilter{TenantID: domain.GetTenantIDFromContext(ctx)}
	if types := r.URL.Query().Get("types"); types != "" {
		filter.Types = strings.Split(types, ",")
	}

	rc := http.NewResponseController(w)
	// the server write timeout would otherwise cut the stream
	_ = rc.SetWriteDeadline(time.Time{})

	sub := h.stream.Subscribe(ctx, filter)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Warn().Err(err).Msg("Event stream flush not supported")
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			if err := writeEvent(w, event); err != nil {
				h.logger.Debug().Err(err).Str("subscriptionId", sub.ID).Msg("Event stream write failed")
				return
			}
			rc.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			rc.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event *domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, data)
	return err
}
