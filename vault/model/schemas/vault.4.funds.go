package schemas

import "github.com/nottyhq/notty/lib/db"

const (
	fundsSQL = `
CREATE TABLE IF NOT EXISTS funds(
  token VARCHAR(256) NOT NULL,
  created TIMESTAMP NOT NULL,

  holder VARCHAR(256) NOT NULL, -- holder identity
  value VARCHAR(64) NOT NULL,

  PRIMARY KEY(token),
  CONSTRAINT funds_holder_u UNIQUE (holder)
);
`
)

func init() {
	db.RegisterSchema(
		"funds",
		fundsSQL,
	)
}
