// internal/store/db.go
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite" // драйвер "sqlite" для встроенной базы и тестов
)

// Имена драйверов database/sql, с которыми работает SQL-бэкенд.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// pgForeignKeyViolation код ошибки PostgreSQL foreign_key_violation.
const pgForeignKeyViolation = "23503"

//go:embed schema/*.sql
var schemaFS embed.FS

// Connect открывает соединение с базой и проверяет его.
func Connect(ctx context.Context, driver, dsn string, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to database", slog.String("driver", driver), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Одно соединение: каждое новое соединение с :memory: видело бы пустую базу.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}
	logger.InfoContext(ctx, "Successfully connected to database", slog.String("driver", driver))
	return db, nil
}

// Migrate создает таблицы, если их нет, и заполняет справочники жанров и MPA.
// Повторный вызов ничего не меняет.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	script, err := schemaFS.ReadFile("schema/" + schemaName(db.DriverName()) + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", db.DriverName(), err)
	}
	for _, stmt := range strings.Split(string(script), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func schemaName(driver string) string {
	if driver == DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

// withTx выполняет fn в транзакции: commit при успехе, rollback при ошибке.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// queryer общий интерфейс *sqlx.DB и *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(query string) string
}

// exists проверяет наличие строки с данным id. table берется только из констант пакета.
func exists(ctx context.Context, q queryer, table string, id int64) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind("SELECT COUNT(*) FROM "+table+" WHERE id = ?"), id); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	return n > 0, nil
}

// translateError превращает нарушение внешнего ключа в PostgreSQL в domain.ErrNotFound.
func translateError(err error, notFound error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", notFound, pqErr.Detail)
	}
	return err
}
