package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"commerceledger/core/types"
)

func testProgram() types.Address {
	return ModuleAddress("derive-test")
}

func TestDeriveAddressDeterministic(t *testing.T) {
	program := testProgram()
	owner := []byte("owner-identity-owner-identity-32")

	addr1, bump1, err := DeriveAddress(program, []byte("merchant"), owner)
	require.NoError(t, err)
	addr2, bump2, err := DeriveAddress(program, []byte("merchant"), owner)
	require.NoError(t, err)

	require.Equal(t, addr1, addr2)
	require.Equal(t, bump1, bump2)
	require.NotEqual(t, byte(0), addr1[0], "derived address must not land in the reserved namespace")
}

func TestDeriveAddressSeedSensitivity(t *testing.T) {
	program := testProgram()

	a, _, err := DeriveAddress(program, []byte("merchant"), []byte("alice"))
	require.NoError(t, err)
	b, _, err := DeriveAddress(program, []byte("merchant"), []byte("bob"))
	require.NoError(t, err)
	c, _, err := DeriveAddress(program, []byte("operator"), []byte("alice"))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
}

func TestDeriveAddressSeedBoundaryAliasing(t *testing.T) {
	program := testProgram()

	// ["ab", "c"] and ["a", "bc"] concatenate identically; the length
	// prefix must keep them apart.
	a, _, err := DeriveAddress(program, []byte("ab"), []byte("c"))
	require.NoError(t, err)
	b, _, err := DeriveAddress(program, []byte("a"), []byte("bc"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyDerived(t *testing.T) {
	program := testProgram()
	seeds := [][]byte{[]byte("payment"), []byte("some-config"), []byte("buyer")}

	addr, bump, err := DeriveAddress(program, seeds...)
	require.NoError(t, err)
	require.NoError(t, VerifyDerived(program, addr, bump, seeds...))

	var wrong types.Address
	copy(wrong[:], addr[:])
	wrong[31] ^= 0xFF
	require.ErrorIs(t, VerifyDerived(program, wrong, bump, seeds...), ErrDerivedAddressMismatch)
	require.ErrorIs(t, VerifyDerived(program, addr, bump^1, seeds...), ErrDerivedAddressMismatch)
}

func TestModuleAddressStableAndDistinct(t *testing.T) {
	commerce := ModuleAddress("commerce")
	token := ModuleAddress("token")

	require.Equal(t, commerce, ModuleAddress("commerce"))
	require.NotEqual(t, commerce, token)
	require.NotEqual(t, byte(0), commerce[0])
	require.NotEqual(t, byte(0), token[0])
}

func TestDeriveAddressRejectsOversizedSeed(t *testing.T) {
	program := testProgram()
	_, _, err := DeriveAddress(program, make([]byte, 256))
	require.Error(t, err)
}
