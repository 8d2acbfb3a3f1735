package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const maxChainDepth = 8

// ErrorDump flattens an error chain into loggable fields, including the
// driver details gorm hides behind its own wrapping.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`

	SQLiteCode    string `json:"sqlite_code,omitempty"`
	SQLiteMessage string `json:"sqlite_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e, depth := err, 0; e != nil && depth < maxChainDepth; e, depth = errors.Unwrap(e), depth+1 {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	var liteErr sqlite3.Error
	switch {
	case errors.As(err, &pgxErr):
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGDetail = pgxErr.Detail
	case errors.As(err, &pqErr):
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGDetail = pqErr.Detail
	case errors.As(err, &liteErr):
		d.SQLiteCode = liteErr.ExtendedCode.Error()
		d.SQLiteMessage = liteErr.Error()
	}
	return d
}

// Fields returns the populated dump entries keyed for structured logging.
func (d ErrorDump) Fields() map[string]any {
	out := map[string]any{"error": d.TopMessage}
	add := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	add("error_code", string(d.Code))
	add("pg_code", d.PGCode)
	add("pg_constraint", d.PGConstraint)
	add("pg_table", d.PGTable)
	add("pg_detail", d.PGDetail)
	add("sqlite_code", d.SQLiteCode)
	add("sqlite_message", d.SQLiteMessage)
	if len(d.Chain) > 1 {
		out["error_chain"] = d.Chain
	}
	return out
}
