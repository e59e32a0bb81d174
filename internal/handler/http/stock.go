package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/stream"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/httputil"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/logger"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/middleware"
)

// keepAliveInterval is how often an SSE comment is sent to hold idle
// connections open through proxies.
const keepAliveInterval = 30 * time.Second

// StockHandler streams a producer's stock changes over server-sent events.
type StockHandler struct {
	hub stream.Hub
	log *slog.Logger
}

// NewStockHandler creates a stock stream handler.
func NewStockHandler(hub stream.Hub, log *slog.Logger) *StockHandler {
	return &StockHandler{hub: hub, log: log}
}

// Stream handles GET /api/v1/producers/me/stock/stream. Producer role
// required. The subscription lives until the client disconnects.
func (h *StockHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, r, apperrors.Internal(fmt.Errorf("response writer does not support streaming")), h.log)
		return
	}

	producerID := middleware.UserIDFromContext(r.Context())
	changes, cancel, err := h.hub.Subscribe(r.Context(), producerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.log)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	reqLog := logger.FromContext(r.Context())
	reqLog.Info("stock stream opened", "producer_id", producerID)
	defer reqLog.Info("stock stream closed", "producer_id", producerID)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case change, open := <-changes:
			if !open {
				return
			}
			payload, err := json.Marshal(change)
			if err != nil {
				reqLog.Warn("dropping unmarshalable stock change", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Type, payload)
			flusher.Flush()
		}
	}
}
