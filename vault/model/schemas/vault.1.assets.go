package schemas

import "github.com/nottyhq/notty/lib/db"

const (
	assetsSQL = `
CREATE TABLE IF NOT EXISTS assets(
  token VARCHAR(256) NOT NULL,
  created TIMESTAMP NOT NULL,

  creator VARCHAR(256) NOT NULL,        -- creator address
  name VARCHAR(256) NOT NULL,
  symbol VARCHAR(64) NOT NULL,
  uri VARCHAR(512) NOT NULL,
  decimals SMALLINT NOT NULL,
  mint_authority VARCHAR(256) NOT NULL, -- current mint authority identity

  PRIMARY KEY(token),
  CONSTRAINT assets_creator_symbol_u UNIQUE (creator, symbol)
);
`
)

func init() {
	db.RegisterSchema(
		"assets",
		assetsSQL,
	)
}
