package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evn/eom_hradmin/internal/models"
)

var ErrShiftNotFound = errors.New("shift not found")

type ShiftRepository struct {
	db *sql.DB
}

func NewShiftRepository(db *sql.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

const shiftColumns = `id, name, start_time, end_time, description, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*models.Shift, error) {
	var s models.Shift
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.StartTime,
		&s.EndTime,
		&s.Description,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List возвращает смены по времени начала; неактивные только по запросу.
func (r *ShiftRepository) List(ctx context.Context, includeInactive bool) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY start_time, name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	shifts := []models.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}
	return shifts, nil
}

func (r *ShiftRepository) Get(ctx context.Context, id int64) (*models.Shift, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id)
	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift %d: %w", id, err)
	}
	return s, nil
}

// Create вставляет смену и заполняет ID и метки времени.
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	return insertShift(ctx, r.db, shift)
}

// CreateBatch вставляет все смены в одной транзакции.
func (r *ShiftRepository) CreateBatch(ctx context.Context, shifts []*models.Shift) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, shift := range shifts {
		if err := insertShift(ctx, tx, shift); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shifts: %w", err)
	}
	return nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertShift(ctx context.Context, q rowQuerier, shift *models.Shift) error {
	now := time.Now().UTC()
	shift.IsActive = true
	shift.CreatedAt = now
	shift.UpdatedAt = now

	err := q.QueryRowContext(ctx, `
		INSERT INTO shifts (name, start_time, end_time, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		shift.Name,
		shift.StartTime,
		shift.EndTime,
		shift.Description,
		shift.IsActive,
		shift.CreatedAt,
		shift.UpdatedAt,
	).Scan(&shift.ID)
	if err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

// Update меняет поля смены; активность не трогает.
func (r *ShiftRepository) Update(ctx context.Context, shift *models.Shift) error {
	shift.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE shifts
		SET name = $1, start_time = $2, end_time = $3, description = $4, updated_at = $5
		WHERE id = $6`,
		shift.Name,
		shift.StartTime,
		shift.EndTime,
		shift.Description,
		shift.UpdatedAt,
		shift.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift %d: %w", shift.ID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrShiftNotFound
	}
	return nil
}

// Deactivate снимает флаг is_active. Повторная деактивация не ошибка.
func (r *ShiftRepository) Deactivate(ctx context.Context, id int64) (*models.Shift, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET is_active = $1, updated_at = $2 WHERE id = $3`,
		false, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate shift %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrShiftNotFound
	}
	return r.Get(ctx, id)
}
