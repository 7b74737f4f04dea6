package schemas

import "github.com/nottyhq/notty/lib/db"

const (
	balancesSQL = `
CREATE TABLE IF NOT EXISTS balances(
  token VARCHAR(256) NOT NULL,
  created TIMESTAMP NOT NULL,

  asset VARCHAR(256) NOT NULL,  -- asset token
  holder VARCHAR(256) NOT NULL, -- holder identity
  value VARCHAR(64) NOT NULL,

  PRIMARY KEY(token),
  CONSTRAINT balances_asset_holder_u UNIQUE (asset, holder),
  CONSTRAINT balances_asset_fk FOREIGN KEY (asset) REFERENCES assets(token)
);
`
)

func init() {
	db.RegisterSchema(
		"balances",
		balancesSQL,
	)
}
