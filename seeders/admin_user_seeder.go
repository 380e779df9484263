package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"appeals-system/pkg/config"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/utils"
)

// seedAdmin создаёт администратора, если пользователя с таким email ещё нет.
func seedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) error {
	email := strings.ToLower(cfg.Seed.AdminEmail)
	log.Printf("  - Создание администратора %s...", email)

	var existingID uint64
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE lower(email) = $1`, email).Scan(&existingID)
	if err == nil {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}

	hash, err := utils.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (first_name, last_name, email, password, roles, is_active, email_verified_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, NOW())`,
		"Администратор", "Системы", email, hash, []string{constants.AdminRole, constants.ModeratorRole})
	if err != nil {
		return fmt.Errorf("не удалось создать администратора: %w", err)
	}

	log.Println("    - Администратор создан.")
	return nil
}
