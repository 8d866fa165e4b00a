// Package client реализует клиентский API: одна точка входа, действие выбирается параметром action.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evn/eom_hradmin/internal/pkg/response"
	"github.com/evn/eom_hradmin/internal/repositories"
	"github.com/evn/eom_hradmin/internal/services/auth"
)

const maxBodyBytes = 1 << 20

type actionFunc func(ctx context.Context, req *request) (status int, message string, data interface{}, err error)

type Handler struct {
	verifier auth.KeyVerifier
	store    repositories.ClientStore
	actions  map[string]actionFunc
}

func NewHandler(verifier auth.KeyVerifier, store repositories.ClientStore) *Handler {
	h := &Handler{
		verifier: verifier,
		store:    store,
	}
	h.actions = map[string]actionFunc{
		"info":   h.info,
		"create": h.create,
		"update": h.update,
		"delete": h.remove,
	}
	return h
}

// request хранит разобранный запрос: ключ, действие и JSON-тело.
type request struct {
	apiKey string
	action string
	body   map[string]interface{}
	query  map[string][]string
}

// field возвращает строковое поле тела; нестроковые значения приводятся через JSON.
func (r *request) field(name string) (string, bool) {
	raw, ok := r.body[name]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// ServeHTTP: аутентификация, затем выбор действия. OPTIONS отвечает 200 без проверки ключа.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := r.Context()

	key := extractAPIKey(r)
	if key == "" {
		writeAPIError(w, errMissingAPIKey())
		return
	}

	ok, err := h.verifier.Verify(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "api key verification failed", "error", err)
	}
	if !ok {
		writeAPIError(w, errInvalidAPIKey())
		return
	}

	req := &request{
		apiKey: key,
		body:   decodeBody(r),
		query:  r.URL.Query(),
	}
	// action сравнивается с учётом регистра
	req.action = strings.TrimSpace(r.URL.Query().Get("action"))
	if req.action == "" {
		if a, ok := req.field("action"); ok {
			req.action = a
		}
	}

	act, found := h.actions[req.action]
	if !found {
		writeAPIError(w, errInvalidAction(req.action))
		return
	}

	status, message, data, err := act(ctx, req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			writeAPIError(w, apiErr)
			return
		}
		slog.ErrorContext(ctx, "client action failed", "action", req.action, "error", err)
		response.RespondFailure(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil, nil)
		return
	}

	response.RespondSuccess(w, status, message, data)
}

// extractAPIKey: сначала Authorization: Bearer, затем ?api_key=.
func extractAPIKey(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			if key := strings.TrimSpace(header[7:]); key != "" {
				return key
			}
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("api_key"))
}

// decodeBody читает JSON-объект; пустое или некорректное тело даёт пустую карту.
func decodeBody(r *http.Request) map[string]interface{} {
	body := map[string]interface{}{}
	if r.Body == nil {
		return body
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		slog.DebugContext(r.Context(), "ignoring malformed client api body", "error", err)
		return map[string]interface{}{}
	}
	return body
}

func writeAPIError(w http.ResponseWriter, e *APIError) {
	response.RespondFailure(w, e.Status, e.Code, e.Message, e.Data, e.Criteria)
}
