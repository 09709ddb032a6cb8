package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ftransport/ftransport/internal/logger"
)

// streamEvents serves a transfer's progress stream as server-sent events.
// The current snapshot is sent immediately; the stream ends when the
// transfer's run finishes or the client disconnects. Slow clients get
// coalesced snapshots, so the stream never buffers unboundedly.
func (h *handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, stop, err := h.svc.Subscribe(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-events:
			if !ok {
				// Run ended; tell the client not to reconnect.
				fmt.Fprint(w, "event: done\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				logger.Error("marshalling snapshot for %s: %v", id, err)
				continue
			}
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
