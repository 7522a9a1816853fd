package bot

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/unai-bot/unai/internal/line"
)

// FailureSink observes errors from detached pipeline runs; the platform
// has already been acked by then, so this is the only place they surface.
type FailureSink func(err error)

func LogFailureSink(err error) {
	log.Printf("[svc] pipeline failed: %v", err)
}

type Handler struct {
	svc  Service
	sink FailureSink
}

func NewHandler(svc Service, sink FailureSink) *Handler {
	if sink == nil {
		sink = LogFailureSink
	}
	return &Handler{svc: svc, sink: sink}
}

// HandleWebhook acks the delivery immediately and detaches the pipeline;
// the platform never learns about downstream failures.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload line.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	// request context dies with the ack, so the run gets its own
	go func() {
		if err := h.svc.HandleEvent(context.Background(), payload); err != nil {
			h.sink(err)
		}
	}()
}
