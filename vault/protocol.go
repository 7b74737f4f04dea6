package vault

// AssetResource is the representation of an asset in the vault API.
type AssetResource struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`

	Creator       string `json:"creator"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	URI           string `json:"uri"`
	Decimals      uint8  `json:"decimals"`
	MintAuthority string `json:"mint_authority"`
}

// VaultResource is the representation of a vault in the vault API. A vault
// record carries exactly five fields: the asset it is bound to, its derived
// authority, its two custody stores and the immutable price.
type VaultResource struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`

	Asset         string `json:"asset"`
	Authority     string `json:"authority"`
	TokenStore    string `json:"token_store"`
	ValueStore    string `json:"value_store"`
	PricePerToken uint64 `json:"price_per_token"`
}

// BalanceResource is the representation of an asset-unit holding in the
// vault API.
type BalanceResource struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`

	Asset  string `json:"asset"`
	Holder string `json:"holder"`
	Value  uint64 `json:"value"`
}

// EventResource is the representation of an emitted event in the vault API.
// Fields not carried by the event's kind are omitted.
type EventResource struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	Kind    EvKind `json:"kind"`

	Asset string  `json:"asset"`
	User  *string `json:"user,omitempty"`

	Name     *string `json:"name,omitempty"`
	Symbol   *string `json:"symbol,omitempty"`
	URI      *string `json:"uri,omitempty"`
	Decimals *uint8  `json:"decimals,omitempty"`

	InitialSupply *uint64 `json:"initial_supply,omitempty"`
	PricePerToken *uint64 `json:"price_per_token,omitempty"`

	Direction   *TrDirection `json:"direction,omitempty"`
	ValueAmount *uint64      `json:"value_amount,omitempty"`
	TokenAmount *uint64      `json:"token_amount,omitempty"`
}
