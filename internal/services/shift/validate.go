package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/pkg/response"
)

const clockLayout = "15:04"

// ValidationError описывает ошибку во входных данных смены.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize проверяет обязательные поля и приводит время к HH:MM.
func Normalize(req models.ShiftRequest) (*models.Shift, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if len(name) > 100 {
		return nil, &ValidationError{Field: "name", Message: "must be at most 100 characters"}
	}

	start, err := parseClock("start_time", req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock("end_time", req.EndTime)
	if err != nil {
		return nil, err
	}
	if start == end {
		return nil, &ValidationError{Field: "end_time", Message: "must differ from start_time"}
	}

	return &models.Shift{
		Name:        name,
		StartTime:   start,
		EndTime:     end,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
	}, nil
}

func parseClock(field, value string) (string, error) {
	value = response.NormalizeClock(value)
	if value == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return "", &ValidationError{Field: field, Message: "must be in HH:MM format"}
	}
	return t.Format(clockLayout), nil
}

// DurationMinutes считает длительность; смена через полночь учитывается.
func DurationMinutes(start, end string) int {
	s, err1 := time.Parse(clockLayout, start)
	e, err2 := time.Parse(clockLayout, end)
	if err1 != nil || err2 != nil {
		return 0
	}
	d := e.Sub(s)
	if d <= 0 {
		d += 24 * time.Hour
	}
	return int(d.Minutes())
}

// WithDuration заполняет поле Duration для ответа.
func WithDuration(s *models.Shift) *models.Shift {
	s.Duration = response.FormatDuration(DurationMinutes(s.StartTime, s.EndTime))
	return s
}
