package infra_pg_init

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/VICHiNG16/MusicDuel/internal/config"
)

func MustEstablishConn(cfg config.Postgres) *sqlx.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := db.Exec(schema); err != nil {
		log.Fatal(err)
	}

	return db
}

const schema = `
CREATE TABLE IF NOT EXISTS match_results (
	id UUID PRIMARY KEY,
	room_code TEXT NOT NULL,
	artist TEXT NOT NULL,
	host_score INTEGER NOT NULL,
	guest_score INTEGER NOT NULL,
	solo BOOLEAN NOT NULL,
	finished_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS match_results_finished_at_idx ON match_results (finished_at DESC);
`
