package holidays

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Create(ctx context.Context, tenantID string, h PublicHoliday) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO public_holidays (tenant_id, country_code, holiday_date, name, description, recurring, paid)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, tenantID, h.CountryCode, h.Date, h.Name, h.Description, h.Recurring, h.Paid).Scan(&id)
	return id, err
}

func (s *Service) Update(ctx context.Context, tenantID string, h PublicHoliday) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE public_holidays
    SET country_code = $1, holiday_date = $2, name = $3, description = $4, recurring = $5, paid = $6
    WHERE tenant_id = $7 AND id = $8
  `, h.CountryCode, h.Date, h.Name, h.Description, h.Recurring, h.Paid, tenantID, h.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, holidayID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM public_holidays WHERE tenant_id = $1 AND id = $2", tenantID, holidayID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Service) ListByCountry(ctx context.Context, tenantID, countryCode string) ([]PublicHoliday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, country_code, holiday_date, name, COALESCE(description, ''), recurring, paid, created_at
    FROM public_holidays
    WHERE tenant_id = $1 AND country_code = $2
    ORDER BY holiday_date
  `, tenantID, countryCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

// ListForYear materializes recurring holidays into the requested year and
// keeps one-off holidays falling in it.
func (s *Service) ListForYear(ctx context.Context, tenantID, countryCode string, year int) ([]PublicHoliday, error) {
	all, err := s.ListByCountry(ctx, tenantID, countryCode)
	if err != nil {
		return nil, err
	}
	var out []PublicHoliday
	for _, h := range all {
		date, ok := h.MaterializeYear(year)
		if !ok {
			continue
		}
		h.Date = date
		out = append(out, h)
	}
	return out, nil
}

func (s *Service) IsHolidayOn(ctx context.Context, tenantID, countryCode string, day time.Time) (bool, error) {
	all, err := s.ListByCountry(ctx, tenantID, countryCode)
	if err != nil {
		return false, err
	}
	for _, h := range all {
		if h.OccursOn(day) {
			return true, nil
		}
	}
	return false, nil
}

func scanHolidays(rows pgx.Rows) ([]PublicHoliday, error) {
	var out []PublicHoliday
	for rows.Next() {
		var h PublicHoliday
		if err := rows.Scan(&h.ID, &h.CountryCode, &h.Date, &h.Name, &h.Description, &h.Recurring, &h.Paid, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
