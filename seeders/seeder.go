package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"appeals-system/pkg/config"
)

// SeedDictionaries наполняет справочники без зависимостей от пользователей.
func SeedDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения справочников...")

	if err := seedStatuses(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения статусов обращений: %v", err)
	}
	if err := seedSocialGroups(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения социальных групп: %v", err)
	}
	if err := seedDepartmentsAndThemes(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения департаментов и тем: %v", err)
	}
	log.Println("✅ Наполнение справочников завершено!")
}

func SeedAdmin(db *pgxpool.Pool, cfg *config.Config) {
	if err := seedAdmin(context.Background(), db, cfg); err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}
}
