package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Envelope задаёт формат ответа клиентского API.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Criteria  interface{} `json:"criteria,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Timestamp возвращает текущее время в ISO-8601.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		code = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondSuccess пишет успешный конверт клиентского API.
func RespondSuccess(w http.ResponseWriter, code int, message string, data interface{}) {
	RespondWithJSON(w, code, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: Timestamp(),
	})
}

// RespondFailure пишет конверт с кодом ошибки; criteria может быть nil.
func RespondFailure(w http.ResponseWriter, code int, errCode, message string, data, criteria interface{}) {
	RespondWithJSON(w, code, Envelope{
		Success:   false,
		Message:   message,
		Data:      data,
		Error:     errCode,
		Criteria:  criteria,
		Timestamp: Timestamp(),
	})
}
