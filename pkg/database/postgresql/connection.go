package postgresql

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectDB(dsn string) *pgxpool.Pool {
	dbpool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Ошибка создания пула соединений к БД: %v", err)
	}

	// Недоступность БД на старте не фатальна: пул соединяется лениво,
	// а заявки в период деградации уходят в локальный резервный кеш.
	if err := dbpool.Ping(context.Background()); err != nil {
		log.Printf("Предупреждение: БД недоступна, сервис работает через резервный кеш: %v", err)
		return dbpool
	}

	log.Println("✅ Подключено к PostgreSQL")
	return dbpool
}
