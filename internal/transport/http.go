package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/readtrail/internal/domain/activity"
)

// Submitter accepts notifications for asynchronous classification.
type Submitter interface {
	Submit(n activity.Notification) bool
}

// Catalog receives entity snapshots and tab mappings from the host.
type Catalog interface {
	Upsert(entities ...activity.Entity) error
	SetTab(tabID, itemID string) error
	RemoveTab(tabID string)
}

// Server wires HTTP handlers.
type Server struct {
	submitter Submitter
	catalog   Catalog
	logger    *slog.Logger
}

// NotifyRequest is the body of POST /notify. Ids may be numbers or strings.
type NotifyRequest struct {
	Event     string          `json:"event"`
	Type      string          `json:"type"`
	IDs       []any           `json:"ids"`
	ExtraData json.RawMessage `json:"extraData,omitempty"`
}

// NotifyResponse reports what happened to a notification.
type NotifyResponse struct {
	Accepted      bool   `json:"accepted"`
	Ignored       bool   `json:"ignored,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// EntitiesRequest is the body of PUT /entities.
type EntitiesRequest struct {
	Entities []activity.Entity `json:"entities"`
}

// TabRequest is the body of PUT /tabs/{tabID}.
type TabRequest struct {
	ItemID string `json:"itemId"`
}

// NewServer creates the ingest router. Health checks bypass authMiddleware.
func NewServer(submitter Submitter, catalog Catalog, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{submitter: submitter, catalog: catalog, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/notify", srv.handleNotify)
		r.Put("/entities", srv.handleEntities)
		r.Put("/tabs/{tabID}", srv.handleSetTab)
		r.Delete("/tabs/{tabID}", srv.handleRemoveTab)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := ParseJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	correlationID, _ := RequestIDFromContext(r.Context())

	kind := activity.EntityKind(req.Type)
	if !kind.Supported() {
		s.logger.Debug("ignoring notification", "correlation_id", correlationID, "event", req.Event, "type", req.Type)
		WriteJSON(w, http.StatusAccepted, NotifyResponse{Ignored: true, CorrelationID: correlationID})
		return
	}

	if len(req.IDs) == 0 {
		WriteError(w, http.StatusBadRequest, "ids are required")
		return
	}
	// The first id names the subject and keeps its position even when it
	// is blank, so the classifier can reject it instead of promoting the
	// next id.
	ids := append([]string{activity.IDString(req.IDs[0])}, activity.IDStrings(req.IDs[1:])...)
	if req.Event == "" || ids[0] == "" {
		s.logger.Info("notification without event or subject", "correlation_id", correlationID, "event", req.Event, "type", req.Type, "ids", req.IDs)
	}

	n := activity.Notification{
		CorrelationID: correlationID,
		Event:         req.Event,
		Kind:          kind,
		IDs:           ids,
		Extra:         req.ExtraData,
	}
	if !s.submitter.Submit(n) {
		WriteError(w, http.StatusServiceUnavailable, "activity queue unavailable")
		return
	}
	WriteJSON(w, http.StatusAccepted, NotifyResponse{Accepted: true, CorrelationID: correlationID})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	var req EntitiesRequest
	if err := ParseJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := s.catalog.Upsert(req.Entities...); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var req TabRequest
	if err := ParseJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := s.catalog.SetTab(chi.URLParam(r, "tabID"), req.ItemID); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveTab(w http.ResponseWriter, r *http.Request) {
	s.catalog.RemoveTab(chi.URLParam(r, "tabID"))
	w.WriteHeader(http.StatusNoContent)
}
