package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pet-registry/internal/domain/pets"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS pets (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT      NOT NULL,
	species    TEXT      NOT NULL,
	age        INTEGER   NULL CHECK (age >= 0),
	owner_name TEXT      NULL,
	version    BIGINT    NOT NULL DEFAULT 0
)`

// EnsureSchema crea la tabla si no existe. Es idempotente.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Seed inserta pets ya persistidos (con id) y avanza la secuencia después
// del mayor id, para que el próximo INSERT no choque. Filas existentes no se tocan.
func Seed(ctx context.Context, db *sql.DB, seed ...pets.Pet) error {
	if len(seed) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range seed {
		id, ok := p.ID()
		if !ok {
			return fmt.Errorf("postgres: seed pet without id: %s", p)
		}
		age, owner := nullables(p)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pets (id, name, species, age, owner_name, version)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, id, p.Name().Value(), p.Species().Value(), age, owner, p.Version()); err != nil {
			return fmt.Errorf("postgres: seed pet %d: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		SELECT setval(pg_get_serial_sequence('pets', 'id'), (SELECT MAX(id) FROM pets))
	`); err != nil {
		return fmt.Errorf("postgres: advance id sequence: %w", err)
	}

	return tx.Commit()
}
