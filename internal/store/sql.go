package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/najdeno/internal/db"
)

// SQL is a Store backed by a SQLite or PostgreSQL database. Queries are
// written with "?" placeholders and rebound for PostgreSQL.
type SQL struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

var _ Store = (*SQL)(nil)

// NewSQL wraps an open database. The schema must already exist.
func NewSQL(database *sql.DB, dialect db.Dialect, opts ...Option) *SQL {
	o := buildOptions(opts)
	return &SQL{db: database, dialect: dialect, now: o.now}
}

// Ping checks the database connection.
func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQL) Close() error {
	return s.db.Close()
}

// q rebinds "?" placeholders to "$n" for PostgreSQL.
func (s *SQL) q(query string) string {
	if s.dialect != db.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// stamp returns the current time in UTC with the precision both dialects keep.
func (s *SQL) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// isUniqueViolation reports whether err is a unique constraint failure.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// nullable turns an absent patch field into a SQL NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
