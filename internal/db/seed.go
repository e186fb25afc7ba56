package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sirh/internal/domain/auth"
	"sirh/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	tenantID, err := ensureTenant(ctx, pool, cfg.SeedTenantName, cfg.SeedHolidayCountry, cfg.EmailEnabled, cfg.EmailFrom)
	if err != nil {
		return err
	}

	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}

	roleIDs, err := ensureRoles(ctx, pool, tenantID)
	if err != nil {
		return err
	}

	if err := ensureRolePermissions(ctx, pool, roleIDs); err != nil {
		return err
	}

	if err := ensureAdminUser(ctx, pool, tenantID, roleIDs[auth.RoleAdmin], cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	if err := ensureHolidays(ctx, pool, tenantID, cfg.SeedHolidayCountry); err != nil {
		return err
	}

	return ensureLeaveTypes(ctx, pool, tenantID)
}

func ensureTenant(ctx context.Context, pool *pgxpool.Pool, name, countryCode string, emailEnabled bool, emailFrom string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO tenants (name, country_code, email_enabled, email_from)
    VALUES ($1, $2, $3, NULLIF($4, '')) RETURNING id
  `, name, countryCode, emailEnabled, emailFrom).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := pool.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool, tenantID string) (map[string]string, error) {
	roleIDs := map[string]string{}
	for roleName := range auth.RolePermissions {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM roles WHERE tenant_id = $1 AND name = $2", tenantID, roleName).Scan(&id)
		if err == nil {
			roleIDs[roleName] = id
			continue
		}

		err = pool.QueryRow(ctx, "INSERT INTO roles (tenant_id, name) VALUES ($1, $2) RETURNING id", tenantID, roleName).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[roleName] = id
	}
	return roleIDs, nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool, roleIDs map[string]string) error {
	permMap := map[string]string{}
	rows, err := pool.Query(ctx, "SELECT id, key FROM permissions")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return err
		}
		permMap[key] = id
	}

	for roleName, perms := range auth.RolePermissions {
		roleID := roleIDs[roleName]
		for _, permKey := range perms {
			permID, ok := permMap[permKey]
			if !ok {
				return errors.New("permission not found: " + permKey)
			}
			_, err := pool.Exec(ctx, "INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", roleID, permID)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, tenantID, roleID, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE tenant_id = $1 AND email = $2", tenantID, email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx,
		"INSERT INTO users (tenant_id, email, password_hash, role_id) VALUES ($1, $2, $3, $4) RETURNING id",
		tenantID, email, hash, roleID).Scan(&id)
}

// Statutory public holidays of Côte d'Ivoire. Fixed-date holidays recur
// every year; the religious ones move and are seeded for the current year
// only, HR maintains them afterwards.
func ensureHolidays(ctx context.Context, pool *pgxpool.Pool, tenantID, countryCode string) error {
	if countryCode != "CI" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(1) FROM public_holidays WHERE tenant_id = $1 AND country_code = $2",
		tenantID, countryCode).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	year := time.Now().Year()
	fixed := []struct {
		month time.Month
		day   int
		name  string
	}{
		{time.January, 1, "Jour de l'An"},
		{time.May, 1, "Fête du Travail"},
		{time.August, 7, "Fête de l'Indépendance"},
		{time.August, 15, "Assomption"},
		{time.November, 1, "Toussaint"},
		{time.November, 15, "Journée Nationale de la Paix"},
		{time.December, 25, "Noël"},
	}
	for _, h := range fixed {
		date := time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC)
		if _, err := pool.Exec(ctx, `
      INSERT INTO public_holidays (tenant_id, country_code, holiday_date, name, recurring, paid)
      VALUES ($1, $2, $3, $4, true, true)
    `, tenantID, countryCode, date, h.name); err != nil {
			return err
		}
	}
	return nil
}

func ensureLeaveTypes(ctx context.Context, pool *pgxpool.Pool, tenantID string) error {
	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(1) FROM leave_types WHERE tenant_id = $1", tenantID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	types := []struct {
		name        string
		paid        bool
		entitlement int
	}{
		{"Congés payés", true, 27},
		{"Congé maladie", true, 5},
		{"Congé maternité", true, 98},
		{"Congé sans solde", false, 0},
	}
	for _, lt := range types {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_types (tenant_id, name, is_paid, annual_entitlement)
      VALUES ($1, $2, $3, $4)
    `, tenantID, lt.name, lt.paid, lt.entitlement); err != nil {
			return err
		}
	}
	return nil
}
