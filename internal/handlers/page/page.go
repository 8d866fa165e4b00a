// Package page отдаёт HTML-страницы админ-панели. Поведение страниц
// реализует внешний скрипт; здесь только разметка.
package page

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ShiftPageData содержит параметры для скрипта управления сменами.
type ShiftPageData struct {
	Title      string
	APIBase    string
	EventsPath string
	ScriptPath string
}

func DefaultShiftPageData() ShiftPageData {
	return ShiftPageData{
		Title:      "Управление сменами",
		APIBase:    "/api/admin/shifts",
		EventsPath: "/ws/shifts",
		ScriptPath: "/static/js/shift-management.js",
	}
}

// ShiftManagementHandler GET /admin/shifts
func ShiftManagementHandler(data ShiftPageData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, "shift_management.html", data); err != nil {
			slog.ErrorContext(r.Context(), "render shift page failed", "error", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
