package shift

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/pkg/response"
	"github.com/evn/eom_hradmin/internal/repositories"
	shiftService "github.com/evn/eom_hradmin/internal/services/shift"
)

const maxImportSize = 5 << 20

// ShiftStore описывает, что обработчикам нужно от репозитория смен.
type ShiftStore interface {
	List(ctx context.Context, includeInactive bool) ([]models.Shift, error)
	Get(ctx context.Context, id int64) (*models.Shift, error)
	Create(ctx context.Context, shift *models.Shift) error
	CreateBatch(ctx context.Context, shifts []*models.Shift) error
	Update(ctx context.Context, shift *models.Shift) error
	Deactivate(ctx context.Context, id int64) (*models.Shift, error)
}

// Publisher рассылает изменения смен (websocket-хаб).
type Publisher interface {
	Publish(event models.ShiftEvent)
}

type ShiftHandler struct {
	store  ShiftStore
	events Publisher
	sheets shiftService.SheetsReader
}

func NewShiftHandler(store ShiftStore, events Publisher, sheets shiftService.SheetsReader) *ShiftHandler {
	return &ShiftHandler{store: store, events: events, sheets: sheets}
}

// ListShiftsHandler GET /api/admin/shifts[?include_inactive=true]
func (h *ShiftHandler) ListShiftsHandler(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))

	shifts, err := h.store.List(r.Context(), includeInactive)
	if err != nil {
		slog.ErrorContext(r.Context(), "list shifts failed", "error", err)
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	for i := range shifts {
		shiftService.WithDuration(&shifts[i])
	}

	response.RespondWithJSON(w, http.StatusOK, shifts)
}

// GetShiftHandler GET /api/admin/shifts/{id}
func (h *ShiftHandler) GetShiftHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftID(w, r)
	if !ok {
		return
	}

	s, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, "get", err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, shiftService.WithDuration(s))
}

// CreateShiftHandler POST /api/admin/shifts
func (h *ShiftHandler) CreateShiftHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := decodeShift(w, r)
	if !ok {
		return
	}

	if err := h.store.Create(r.Context(), s); err != nil {
		h.respondStoreError(w, r, "create", err)
		return
	}

	slog.InfoContext(r.Context(), "shift created", "shift_id", s.ID, "name", s.Name)
	h.publish(models.ShiftEventCreated, s)
	response.RespondWithJSON(w, http.StatusCreated, shiftService.WithDuration(s))
}

// UpdateShiftHandler PUT /api/admin/shifts/{id}
func (h *ShiftHandler) UpdateShiftHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftID(w, r)
	if !ok {
		return
	}
	s, ok := decodeShift(w, r)
	if !ok {
		return
	}
	s.ID = id

	if err := h.store.Update(r.Context(), s); err != nil {
		h.respondStoreError(w, r, "update", err)
		return
	}

	updated, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, "get", err)
		return
	}

	h.publish(models.ShiftEventUpdated, updated)
	response.RespondWithJSON(w, http.StatusOK, shiftService.WithDuration(updated))
}

// DeactivateShiftHandler POST /api/admin/shifts/{id}/deactivate
func (h *ShiftHandler) DeactivateShiftHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftID(w, r)
	if !ok {
		return
	}

	s, err := h.store.Deactivate(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, "deactivate", err)
		return
	}

	slog.InfoContext(r.Context(), "shift deactivated", "shift_id", id)
	h.publish(models.ShiftEventDeactivated, s)
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Shift deactivated",
		"shift":   shiftService.WithDuration(s),
	})
}

// ExportShiftsHandler GET /api/admin/shifts/export
func (h *ShiftHandler) ExportShiftsHandler(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.List(r.Context(), true)
	if err != nil {
		slog.ErrorContext(r.Context(), "export shifts failed", "error", err)
		response.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var buf bytes.Buffer
	if err := shiftService.WriteXLSX(&buf, shifts); err != nil {
		slog.ErrorContext(r.Context(), "build shifts workbook failed", "error", err)
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	filename := fmt.Sprintf("shifts_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ImportShiftsHandler POST /api/admin/shifts/import
// multipart с полем file (xlsx) или JSON {"google_sheet_url": "..."}.
func (h *ShiftHandler) ImportShiftsHandler(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxImportSize {
		response.RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var rows [][]string
	var err error

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req models.ShiftImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBodyError(w, err, "Invalid JSON")
			return
		}
		if req.GoogleSheetURL == "" {
			response.RespondWithError(w, http.StatusBadRequest, "google_sheet_url is required")
			return
		}
		if h.sheets == nil {
			response.RespondWithError(w, http.StatusServiceUnavailable, "Google Sheets import is not configured")
			return
		}
		rows, err = h.sheets.ReadRows(r.Context(), req.GoogleSheetURL)
		if err != nil {
			slog.WarnContext(r.Context(), "google sheets import failed", "error", err)
			response.RespondWithError(w, http.StatusBadGateway, "Failed to read Google Sheets: "+err.Error())
			return
		}
	} else {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			respondBodyError(w, err, "Malformed multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			response.RespondWithError(w, http.StatusBadRequest, "File is required")
			return
		}
		defer file.Close()

		rows, err = shiftService.ReadXLSX(file)
		if err != nil {
			response.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	shifts, err := shiftService.ParseRows(rows)
	if err != nil {
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.CreateBatch(r.Context(), shifts); err != nil {
		slog.ErrorContext(r.Context(), "import shifts failed", "error", err)
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to save shifts")
		return
	}

	slog.InfoContext(r.Context(), "shifts imported", "count", len(shifts))
	h.events.Publish(models.ShiftEvent{Type: models.ShiftEventImported, Count: len(shifts)})
	response.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Shifts imported",
		"imported": len(shifts),
	})
}

func (h *ShiftHandler) publish(eventType string, s *models.Shift) {
	h.events.Publish(models.ShiftEvent{Type: eventType, Shift: s})
}

func (h *ShiftHandler) respondStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, repositories.ErrShiftNotFound) {
		response.RespondWithError(w, http.StatusNotFound, "Shift not found")
		return
	}
	slog.ErrorContext(r.Context(), "shift store error", "op", op, "error", err)
	response.RespondWithError(w, http.StatusInternalServerError, "Database error")
}

// respondBodyError отличает превышение лимита тела от прочих ошибок разбора.
func respondBodyError(w http.ResponseWriter, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	response.RespondWithError(w, http.StatusBadRequest, message)
}

func shiftID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid shift ID")
		return 0, false
	}
	return id, true
}

func decodeShift(w http.ResponseWriter, r *http.Request) (*models.Shift, bool) {
	var req models.ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	s, err := shiftService.Normalize(req)
	if err != nil {
		var vErr *shiftService.ValidationError
		if errors.As(err, &vErr) {
			response.RespondWithJSON(w, http.StatusBadRequest, map[string]string{
				"error": err.Error(),
				"field": vErr.Field,
			})
			return nil, false
		}
		response.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return s, true
}
