package paysplithandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"paysplit/internal/domain/command"
	"paysplit/internal/domain/paysplit"
	"paysplit/internal/transport/http/api"
	"paysplit/internal/transport/http/middleware"
)

type Handler struct {
	Service *command.Service
}

func NewHandler(service *command.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/commands", h.handleCommand)
	r.Route("/paysplit", func(r chi.Router) {
		r.Post("/parse", h.handleParse)
		r.Post("/render", h.handleRender)
		r.Get("/sample.pdf", h.handleSample)
	})
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var payload command.Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.Action = command.Action(strings.TrimSpace(string(payload.Action)))

	resp, err := h.Service.Dispatch(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	document, ok := readDocument(w, r)
	if !ok {
		return
	}
	resp, err := h.Service.Dispatch(r.Context(), command.Request{Action: command.ActionParse, Document: document})
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, resp.PaySplit, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	document, ok := readDocument(w, r)
	if !ok {
		return
	}
	source := paysplit.NewDocumentSource(paysplit.ReaderLoader{HTML: []byte(document)})
	name, data, err := h.Service.Render(r.Context(), source)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Attachment(w, "application/pdf", name, data)
}

func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.Service.Render(r.Context(), paysplit.NewFixtureSource())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Attachment(w, "application/pdf", name, data)
}

// readDocument reads the raw frame HTML from the request body. An empty body
// is rejected here rather than reported as an unavailable source.
func readDocument(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "document exceeds the body limit", middleware.GetRequestID(r.Context()))
			return "", false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read document", middleware.GetRequestID(r.Context()))
		return "", false
	}
	if strings.TrimSpace(string(body)) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "document is required", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return string(body), true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, command.ErrUnknownAction):
		api.Fail(w, http.StatusBadRequest, "unknown_action", err.Error(), reqID)
	case errors.Is(err, paysplit.ErrSourceUnavailable):
		api.Fail(w, http.StatusBadGateway, "source_unavailable", err.Error(), reqID)
	case errors.Is(err, paysplit.ErrMissingSection),
		errors.Is(err, paysplit.ErrMissingField),
		errors.Is(err, paysplit.ErrMissingColumn),
		errors.Is(err, paysplit.ErrUnexpectedColumn),
		errors.Is(err, paysplit.ErrMalformedAmount):
		api.Fail(w, http.StatusUnprocessableEntity, "extraction_failed", err.Error(), reqID)
	default:
		slog.Error("paysplit request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", reqID)
	}
}
