package schemas

import "github.com/nottyhq/notty/lib/db"

const (
	eventsSQL = `
CREATE TABLE IF NOT EXISTS events(
  token VARCHAR(256) NOT NULL,
  created TIMESTAMP NOT NULL,
  kind VARCHAR(32) NOT NULL,

  asset VARCHAR(256) NOT NULL, -- asset token
  usr VARCHAR(256),            -- initiating party address

  name VARCHAR(256),
  symbol VARCHAR(64),
  uri VARCHAR(512),
  decimals SMALLINT,

  initial_supply VARCHAR(64),
  price_per_token VARCHAR(64),

  direction VARCHAR(8),
  value_amount VARCHAR(64),
  token_amount VARCHAR(64),

  PRIMARY KEY(token),
  CONSTRAINT events_asset_fk FOREIGN KEY (asset) REFERENCES assets(token)
);
`
)

func init() {
	db.RegisterSchema(
		"events",
		eventsSQL,
	)
}
