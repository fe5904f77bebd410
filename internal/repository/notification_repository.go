package repository

import (
	"time"

	"plantcare-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type INotificationRepository interface {
	Create(notification *models.Notification) error
	FetchPending(businessID string, now time.Time) ([]models.Notification, error)
	MarkRead(id string, readAt time.Time) error
}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) INotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

func (r *NotificationRepository) Create(notification *models.Notification) error {
	query := `
	INSERT INTO notifications (id, type, title, body, urgency, business_id, created_at, deliver_at)
	VALUES (:id, :type, :title, :body, :urgency, :business_id, :created_at, :deliver_at)`
	_, err := r.db.NamedExec(query, notification)
	return err
}

// FetchPending returns unread notifications whose delivery time has passed,
// oldest first so fetch order is stable.
func (r *NotificationRepository) FetchPending(businessID string, now time.Time) ([]models.Notification, error) {
	var notifications []models.Notification
	query := `
	SELECT id, type, title, body, urgency, business_id, created_at, deliver_at, read_at
	FROM notifications
	WHERE business_id = $1 AND read_at IS NULL AND deliver_at <= $2
	ORDER BY deliver_at, created_at`
	if err := r.db.Select(&notifications, query, businessID, now); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(id string, readAt time.Time) error {
	query := `UPDATE notifications SET read_at = $2 WHERE id = $1 AND read_at IS NULL`
	_, err := r.db.Exec(query, id, readAt)
	return err
}
