package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/token"
	"github.com/nottyhq/notty/vault"
)

// Event represents an emitted lifecycle or trade event. Events are written
// in the same transaction as the effects they describe and propagated to the
// configured observer after commit, fire-and-forget. They are immutable.
type Event struct {
	Token   string
	Created time.Time
	Kind    vault.EvKind

	Asset string  // Asset token.
	User  *string `db:"usr"` // Initiating party address, if any.

	Name     *string
	Symbol   *string
	URI      *string `db:"uri"`
	Decimals *uint8

	InitialSupply *Amount `db:"initial_supply"`
	PricePerToken *Amount `db:"price_per_token"`

	Direction   *vault.TrDirection
	ValueAmount *Amount `db:"value_amount"`
	TokenAmount *Amount `db:"token_amount"`
}

// NewEventResource generates a new resource.
func NewEventResource(
	ctx context.Context,
	event *Event,
) vault.EventResource {
	r := vault.EventResource{
		ID:      event.Token,
		Created: event.Created.UnixNano() / (1000 * 1000),
		Kind:    event.Kind,
		Asset:   event.Asset,
		User:    event.User,

		Name:     event.Name,
		Symbol:   event.Symbol,
		URI:      event.URI,
		Decimals: event.Decimals,

		Direction: event.Direction,
	}
	if event.InitialSupply != nil {
		v := uint64(*event.InitialSupply)
		r.InitialSupply = &v
	}
	if event.PricePerToken != nil {
		v := uint64(*event.PricePerToken)
		r.PricePerToken = &v
	}
	if event.ValueAmount != nil {
		v := uint64(*event.ValueAmount)
		r.ValueAmount = &v
	}
	if event.TokenAmount != nil {
		v := uint64(*event.TokenAmount)
		r.TokenAmount = &v
	}
	return r
}

// CreateEvent creates and stores a new Event object.
func CreateEvent(
	ctx context.Context,
	event Event,
) (*Event, error) {
	event.Token = token.New("event")
	event.Created = time.Now().UTC()

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO events
  (token, created, kind, asset, usr, name, symbol, uri, decimals,
   initial_supply, price_per_token, direction, value_amount, token_amount)
VALUES
  (:token, :created, :kind, :asset, :usr, :name, :symbol, :uri, :decimals,
   :initial_supply, :price_per_token, :direction, :value_amount,
   :token_amount)
`, event); err != nil {
		return nil, errors.Trace(err)
	}

	return &event, nil
}

// LoadEventByToken attempts to load the event with the given token.
func LoadEventByToken(
	ctx context.Context,
	tok string,
) (*Event, error) {
	event := Event{
		Token: tok,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM events
WHERE token = :token
`, event); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&event); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &event, nil
}

// LoadTradeEventsByAsset loads the trade events of an asset, most recent
// first.
func LoadTradeEventsByAsset(
	ctx context.Context,
	asset string,
) ([]*Event, error) {
	query := map[string]interface{}{
		"asset": asset,
		"kind":  vault.EvKdTrade,
	}

	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM events
WHERE asset = :asset
  AND kind = :kind
ORDER BY created DESC
`, query)
	if err != nil {
		return nil, errors.Trace(err)
	}

	events := []*Event{}

	defer rows.Close()
	for rows.Next() {
		e := Event{}
		if err := rows.StructScan(&e); err != nil {
			return nil, errors.Trace(err)
		}
		events = append(events, &e)
	}

	return events, nil
}
