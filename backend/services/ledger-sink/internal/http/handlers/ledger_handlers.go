package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"lremanager/backend/services/ledger-sink/internal/http/middleware"
	"lremanager/backend/services/ledger-sink/internal/models"
	"lremanager/backend/services/ledger-sink/internal/service"
	"lremanager/backend/services/ledger-sink/internal/store"
)

const maxBodyBytes = 1 << 20

// EntryCounter observes created entries.
type EntryCounter interface {
	EntryCreated(programID int64)
}

// LedgerHandlers serves program ledger endpoints.
type LedgerHandlers struct {
	svc     *service.LedgerService
	counter EntryCounter
	logger  *zap.Logger
}

// NewLedgerHandlers returns handler. counter may be nil.
func NewLedgerHandlers(svc *service.LedgerService, counter EntryCounter, logger *zap.Logger) *LedgerHandlers {
	return &LedgerHandlers{svc: svc, counter: counter, logger: logger}
}

// Create handles POST /api/programs/{programId}/ledger.
func (h *LedgerHandlers) Create(w http.ResponseWriter, r *http.Request) {
	programID, ok := programIDParam(w, r)
	if !ok {
		return
	}

	var in models.LedgerEntryInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.Create(r.Context(), programID, in)
	var injected *service.InjectedFailure
	switch {
	case err == nil:
	case errors.Is(err, store.ErrProgramNotFound):
		writeError(w, http.StatusNotFound, "Program not found")
		return
	case errors.Is(err, service.ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.As(err, &injected):
		writeText(w, injected.Status, injected.Body)
		return
	default:
		h.logger.Error("create ledger entry failed", zap.Int64("program_id", programID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error creating ledger entry")
		return
	}

	if h.counter != nil {
		h.counter.EntryCreated(programID)
	}

	fields := []zap.Field{
		zap.Int64("program_id", programID),
		zap.String("entry_id", entry.ID),
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
	}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		fields = append(fields, zap.String("caller", claims.Service))
	}
	h.logger.Debug("ledger entry created", fields...)

	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /api/programs/{programId}/ledger?page&pageSize&search.
func (h *LedgerHandlers) List(w http.ResponseWriter, r *http.Request) {
	programID, ok := programIDParam(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := h.svc.List(r.Context(), programID, page, pageSize, q.Get("search"))
	if errors.Is(err, store.ErrProgramNotFound) {
		writeError(w, http.StatusNotFound, "Program not found")
		return
	}
	if err != nil {
		h.logger.Error("list ledger entries failed", zap.Int64("program_id", programID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error fetching ledger entries")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /api/ledger/{id}.
func (h *LedgerHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "Ledger entry not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting ledger entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func programIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("programId"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return 0, false
	}
	return id, true
}
