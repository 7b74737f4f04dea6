package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/logging"
)

type schema struct {
	table string
	sql   string
}

var schemas = []schema{}

// RegisterSchema lets schemas register themselves. Schemas are executed in
// registration order so tables can reference previously registered ones.
func RegisterSchema(
	table string,
	sql string,
) {
	schemas = append(schemas, schema{table, sql})
}

// CreateDBTables creates the registered tables if they don't exist.
func CreateDBTables(
	ctx context.Context,
	db *sqlx.DB,
) error {
	for _, s := range schemas {
		logging.Logf(ctx, "Executing schema: table=%s", s.table)
		_, err := db.Exec(s.sql)
		if err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
