package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// true - обновить название статуса, если status_const уже есть.
const updateIfExistsStatuses = false

func seedStatuses(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'appeal_statuses'...")

	query := `INSERT INTO appeal_statuses (title, status_const) VALUES ($1, $2)
			  ON CONFLICT (status_const) DO NOTHING`
	if updateIfExistsStatuses {
		query = `INSERT INTO appeal_statuses (title, status_const) VALUES ($1, $2)
				 ON CONFLICT (status_const) DO UPDATE SET title = EXCLUDED.title`
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range statusesData {
		if _, err := tx.Exec(ctx, query, s.Title, s.StatusConst); err != nil {
			return fmt.Errorf("статус %s: %w", s.StatusConst, err)
		}
	}
	return tx.Commit(ctx)
}

func seedSocialGroups(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'social_groups'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, name := range socialGroupsData {
		if _, err := tx.Exec(ctx, `INSERT INTO social_groups (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("социальная группа %q: %w", name, err)
		}
	}
	return tx.Commit(ctx)
}

func seedDepartmentsAndThemes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблиц 'departments' и 'appeal_themes'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for department, themes := range departmentThemesData {
		var departmentID uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO departments (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, department).Scan(&departmentID)
		if err != nil {
			return fmt.Errorf("департамент %q: %w", department, err)
		}

		for _, theme := range themes {
			_, err := tx.Exec(ctx,
				`INSERT INTO appeal_themes (theme, department_id)
				 SELECT $1, $2 WHERE NOT EXISTS (
					 SELECT 1 FROM appeal_themes WHERE theme = $1 AND department_id = $2)`,
				theme, departmentID)
			if err != nil {
				return fmt.Errorf("тема %q: %w", theme, err)
			}
		}
	}
	return tx.Commit(ctx)
}
