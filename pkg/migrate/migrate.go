package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// dialectFor maps a configured DB driver onto the goose dialect name.
func dialectFor(driver string) string {
	if strings.EqualFold(strings.TrimSpace(driver), "sqlite") {
		return "sqlite3"
	}
	return "postgres"
}

// Run executes a standard goose command that requires a DB connection.
func Run(ctx context.Context, db *sql.DB, driver, dir, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	if err := goose.SetDialect(dialectFor(driver)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down to targetVersion. The target
// must be 0 or a version present in dir.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver, dir, targetVersion string) error {
	target, err := resolveTarget(dir, targetVersion)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("db is required")
	}

	if err := goose.SetDialect(dialectFor(driver)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}

func resolveTarget(dir, targetVersion string) (int64, error) {
	targetVersion = strings.TrimSpace(targetVersion)
	if targetVersion == "" {
		return 0, fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	if target == 0 {
		return 0, nil
	}

	files, err := listMigrations(dir)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		if f.Version == targetVersion {
			return target, nil
		}
	}
	return 0, fmt.Errorf("version %s not found in %q", targetVersion, dir)
}
