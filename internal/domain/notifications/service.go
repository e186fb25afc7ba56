package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/platform/email"
)

var (
	ErrNotFound        = errors.New("alert not found")
	ErrInvalidSeverity = errors.New("invalid alert severity")
)

type Service struct {
	DB     *pgxpool.Pool
	Mailer email.Mailer
}

func NewService(db *pgxpool.Pool, mailer email.Mailer) *Service {
	return &Service{DB: db, Mailer: mailer}
}

func (s *Service) CreateAlert(ctx context.Context, tenantID string, alert Alert) (string, error) {
	if !ValidSeverity(alert.Severity) {
		return "", ErrInvalidSeverity
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO alerts (tenant_id, severity, title, message, employee_id)
    VALUES ($1,$2,$3,$4,NULLIF($5,'')::uuid) RETURNING id
  `, tenantID, alert.Severity, alert.Title, alert.Message, alert.EmployeeID).Scan(&id)
	return id, err
}

func (s *Service) ListAlerts(ctx context.Context, tenantID string, unreadOnly bool, limit, offset int) ([]Alert, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, severity, title, message, COALESCE(employee_id::text, ''), read, created_at
    FROM alerts
    WHERE tenant_id = $1 AND ($2 = false OR read = false)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Severity, &a.Title, &a.Message, &a.EmployeeID, &a.Read, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) MarkAlertRead(ctx context.Context, tenantID, alertID string) error {
	tag, err := s.DB.Exec(ctx,
		"UPDATE alerts SET read = true WHERE tenant_id = $1 AND id = $2", tenantID, alertID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Notify stores a notification for the user and emails it when the tenant
// has outbound mail enabled.
func (s *Service) Notify(ctx context.Context, tenantID, userID, subject, message string) error {
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (tenant_id, user_id, subject, message)
    VALUES ($1,$2,$3,$4)
  `, tenantID, userID, subject, message); err != nil {
		return err
	}

	settings, err := s.emailSettings(ctx, tenantID)
	if err != nil || !settings.Enabled {
		return err
	}
	var to string
	if err := s.DB.QueryRow(ctx,
		"SELECT email FROM users WHERE tenant_id = $1 AND id = $2", tenantID, userID).Scan(&to); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	return s.Mailer.Send(ctx, settings.FromAddress, to, subject, message)
}

func (s *Service) ListNotifications(ctx context.Context, tenantID, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(user_id::text, ''), subject, message, read, created_at
    FROM notifications
    WHERE tenant_id = $1 AND user_id = $2
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Subject, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, tenantID, userID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read = true
    WHERE tenant_id = $1 AND user_id = $2 AND id = $3
  `, tenantID, userID, notificationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetEmailSettings(ctx context.Context, tenantID string) (EmailSettings, error) {
	return s.emailSettings(ctx, tenantID)
}

func (s *Service) emailSettings(ctx context.Context, tenantID string) (EmailSettings, error) {
	var settings EmailSettings
	err := s.DB.QueryRow(ctx, `
    SELECT email_enabled, COALESCE(email_from, '') FROM tenants WHERE id = $1
  `, tenantID).Scan(&settings.Enabled, &settings.FromAddress)
	return settings, err
}

func (s *Service) UpdateEmailSettings(ctx context.Context, tenantID string, settings EmailSettings) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE tenants SET email_enabled = $1, email_from = $2 WHERE id = $3
  `, settings.Enabled, settings.FromAddress, tenantID)
	return err
}
