package main

import (
	"context"
	"flag"
	"log"

	"appeals-system/migrations"
	"appeals-system/pkg/config"
	"appeals-system/pkg/database/postgresql"
	"appeals-system/seeders"
)

func main() {
	runMigrate := flag.Bool("migrate", false, "Применить миграции перед наполнением")
	runCore := flag.Bool("core", false, "Наполнить справочники (статусы, социальные группы, департаменты и темы)")
	runAdmin := flag.Bool("admin", false, "Создать администратора из SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD")
	runAll := flag.Bool("all", false, "Эквивалентно -migrate -core -admin")
	flag.Parse()

	if !*runMigrate && !*runCore && !*runAdmin && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска. Доступные флаги:")
		flag.PrintDefaults()
		log.Println("Пример: go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runMigrate {
		if err := migrations.Up(context.Background(), dbPool); err != nil {
			log.Fatalf("❌ Ошибка миграций: %v", err)
		}
		log.Println("✅ Миграции применены")
	}
	if *runAll || *runCore {
		seeders.SeedDictionaries(dbPool)
	}
	if *runAll || *runAdmin {
		seeders.SeedAdmin(dbPool, cfg)
	}

	log.Println("✅ Все указанные операции сидирования завершены.")
}
