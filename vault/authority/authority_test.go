package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveIsDeterministic(
	t *testing.T,
) {
	i0 := Derive(RoleMint, "asset_1234567890")
	i1 := Derive(RoleMint, "asset_1234567890")
	assert.Equal(t, i0, i1)
}

func TestDeriveSeparatesRolesAndAssets(
	t *testing.T,
) {
	mint := Derive(RoleMint, "asset_1234567890")
	vlt := Derive(RoleVault, "asset_1234567890")
	store := Derive(RoleTokenStore, "asset_1234567890")
	assert.NotEqual(t, mint, vlt)
	assert.NotEqual(t, mint, store)
	assert.NotEqual(t, vlt, store)

	other := Derive(RoleMint, "asset_0987654321")
	assert.NotEqual(t, mint, other)
}

func TestValueStoreIsAssetIndependent(
	t *testing.T,
) {
	assert.Equal(t, ValueStore(), ValueStore())
	assert.NotEqual(t,
		ValueStore(), Derive(RoleValueStore, "asset_1234567890"))
}

func TestIsDerived(
	t *testing.T,
) {
	assert.True(t, IsDerived(Derive(RoleVault, "asset_1234567890")))
	assert.True(t, IsDerived(ValueStore()))
	assert.False(t, IsDerived("alice@127.0.0.1"))
}
