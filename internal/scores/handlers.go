package scores

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/bugstroids/internal/apperr"
	"github.com/tomz197/bugstroids/internal/response"
)

const maxBodyBytes = 4 << 10

// Handler serves GET and POST on the scores collection.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger.With("handler", "scores")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		response.Error(w, r, h.logger, apperr.MethodNotAllowed(r.Method))
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.TopScores(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	h.logger.Debug("Scores listed", "count", len(entries), "remote_addr", r.RemoteAddr)
	response.Success(w, r, http.StatusOK, entries)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	sub, err := decodeSubmission(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	entry, err := h.service.Submission(r.Context(), sub)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.Success(w, r, http.StatusOK, entry)
}

func decodeSubmission(r *http.Request) (Submission, error) {
	var sub Submission
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), response.ContentTypeMsgpack) {
		err = msgpack.NewDecoder(r.Body).Decode(&sub)
	} else {
		err = json.NewDecoder(r.Body).Decode(&sub)
	}
	if err != nil {
		return Submission{}, apperr.WrapValidation("invalid player name or score", err)
	}
	return sub, nil
}
