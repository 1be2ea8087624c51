package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema cria as tabelas lidas pelo motor de métricas e a tabela de fotografias.
// Os tipos são aceitos tanto pelo Postgres quanto pelo SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		date DATE NOT NULL,
		status TEXT NOT NULL,
		service TEXT,
		total_amount NUMERIC(10,2),
		customer_email TEXT,
		start_time TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_date_status ON appointments (date, status)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT,
		profile_completed BOOLEAN NOT NULL DEFAULT FALSE,
		age_group TEXT,
		hair_type TEXT,
		visit_frequency TEXT,
		spending_range TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_snapshots (
		id TEXT PRIMARY KEY,
		taken_at TEXT NOT NULL,
		fallback_views INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_snapshots_taken_at ON analytics_snapshots (taken_at)`,
}

// Migrate aplica o schema em uma única transação
func (c *Connection) Migrate(ctx context.Context) error {
	return c.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, statement := range schema {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("erro ao aplicar schema (passo %d): %w", i+1, err)
			}
		}
		return nil
	})
}
