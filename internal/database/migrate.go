package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/iliyamo/fixsewa/internal/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates any missing tables for the given driver.  Every
// statement is idempotent (IF NOT EXISTS), so it is safe to run on
// each start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	name := "schema/mysql.sql"
	if driver == config.DriverSQLite {
		name = "schema/sqlite.sql"
	}
	content, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	for _, stmt := range splitStatements(string(content)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// splitStatements breaks a schema file on semicolons, dropping comment
// lines and empty statements.
func splitStatements(content string) []string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
