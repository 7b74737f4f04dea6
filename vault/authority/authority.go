// Package authority derives the keyless control identities used by the
// vault: deterministic identities computed from a role seed and an asset id,
// recognized by the model transfer primitives as valid signers for the
// resources they were assigned to control. No secret material exists; being
// able to re-derive the identity for a role is the capability.
package authority

import (
	"crypto/sha256"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Role is a derivation role seed.
type Role string

const (
	// RoleMint controls minting of an asset after creation hands minting
	// control over.
	RoleMint Role = "mint_authority"
	// RoleVault controls transfers out of an asset's token store.
	RoleVault Role = "authority"
	// RoleTokenStore is the identity holding an asset's token custody
	// store.
	RoleTokenStore Role = "token_vault"
	// RoleValueStore is the identity holding the value custody store. It is
	// derived without an asset id: a single value store is shared by every
	// vault in the deployment.
	RoleValueStore Role = "value_vault"
)

// derivationTag domain-separates vault derivations from any other use of the
// underlying hash.
const derivationTag = "vault/authority:v0"

// prefix marks derived identities apart from user addresses.
const prefix = "vlt1"

// Derive returns the deterministic identity for the provided role and asset
// id. Two calls with identical inputs always return identical identities.
func Derive(
	role Role,
	asset string,
) string {
	h := sha256.Sum256([]byte(derivationTag + "|" + string(role) + "|" + asset))
	return prefix + base58.Encode(h[:])
}

// ValueStore returns the identity of the shared value custody store. The
// derivation deliberately excludes the asset id, commingling every vault's
// backing value in one store.
func ValueStore() string {
	h := sha256.Sum256([]byte(derivationTag + "|" + string(RoleValueStore)))
	return prefix + base58.Encode(h[:])
}

// IsDerived returns true if the identity is a derived identity rather than a
// user address.
func IsDerived(
	identity string,
) bool {
	return strings.HasPrefix(identity, prefix)
}
