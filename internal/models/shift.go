package models

import "time"

// Shift описывает шаблон смены (например, "Утренняя 07:00–15:00").
// Смены не удаляются, только деактивируются.
type Shift struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	StartTime   string    `json:"start_time" db:"start_time"`
	EndTime     string    `json:"end_time" db:"end_time"`
	Description string    `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	Duration    string    `json:"duration,omitempty" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type ShiftRequest struct {
	Name        string `json:"name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description,omitempty"`
}

type ShiftImportRequest struct {
	GoogleSheetURL string `json:"google_sheet_url,omitempty"`
}

// ShiftEvent рассылается подключённым админ-панелям.
type ShiftEvent struct {
	Type  string    `json:"type"`
	Shift *Shift    `json:"shift,omitempty"`
	Count int       `json:"count,omitempty"`
	At    time.Time `json:"at"`
}

const (
	ShiftEventCreated     = "shift.created"
	ShiftEventUpdated     = "shift.updated"
	ShiftEventDeactivated = "shift.deactivated"
	ShiftEventImported    = "shift.imported"
)
