package repository

import (
	"github.com/jmoiron/sqlx"

	"plantcare-service/internal/models"
)

type ISeasonalTaskRepository interface {
	// ClaimKey records a (business, task, season, year) occurrence.
	// Returns false when the key already exists, making scheduling idempotent.
	ClaimKey(key models.SeasonalTaskKey) (bool, error)
	CancelAll(businessID string) error
}

type SeasonalTaskRepository struct {
	db *sqlx.DB
}

func NewSeasonalTaskRepository(db *sqlx.DB) ISeasonalTaskRepository {
	return &SeasonalTaskRepository{
		db: db,
	}
}

func (r *SeasonalTaskRepository) ClaimKey(key models.SeasonalTaskKey) (bool, error) {
	query := `
	INSERT INTO seasonal_task_schedule (business_id, task_id, season, year)
	VALUES (:business_id, :task_id, :season, :year)
	ON CONFLICT (business_id, task_id, season, year) DO NOTHING`
	result, err := r.db.NamedExec(query, key)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CancelAll removes every pending seasonal occurrence for a business along
// with its undelivered notifications.
func (r *SeasonalTaskRepository) CancelAll(businessID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM seasonal_task_schedule WHERE business_id = $1`, businessID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`DELETE FROM notifications WHERE business_id = $1 AND type = $2 AND read_at IS NULL`,
		businessID, models.NotificationSeasonalTask); err != nil {
		return err
	}

	return tx.Commit()
}
