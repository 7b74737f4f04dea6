package schemas

import "github.com/nottyhq/notty/lib/db"

const (
	vaultsSQL = `
CREATE TABLE IF NOT EXISTS vaults(
  token VARCHAR(256) NOT NULL,
  created TIMESTAMP NOT NULL,

  asset VARCHAR(256) NOT NULL,           -- asset token
  authority VARCHAR(256) NOT NULL,       -- derived vault authority
  token_store VARCHAR(256) NOT NULL,     -- token custody identity
  value_store VARCHAR(256) NOT NULL,     -- value custody identity
  price_per_token VARCHAR(64) NOT NULL,

  PRIMARY KEY(token),
  CONSTRAINT vaults_asset_u UNIQUE (asset),
  CONSTRAINT vaults_asset_fk FOREIGN KEY (asset) REFERENCES assets(token)
);
`
)

func init() {
	db.RegisterSchema(
		"vaults",
		vaultsSQL,
	)
}
