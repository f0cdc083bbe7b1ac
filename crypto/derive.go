package crypto

import (
	"errors"
	"fmt"

	"lukechampine.com/blake3"

	"commerceledger/core/types"
)

// Derivation domain tags. Versioned so a future scheme change cannot
// collide with addresses minted under this one.
const (
	derivedAddressTag = "commerceledger/derived-address/v1"
	moduleAddressTag  = "commerceledger/module-address/v1"
)

// Addresses whose leading byte is zero form the reserved system namespace
// (the all-zero system identity lives there). Derivation skips candidates
// that land in it, which is what makes the bump a meaningful, recomputable
// part of every derived address.
const reservedPrefix = 0x00

// ErrNoCanonicalBump is returned when no bump in [0, 255] yields an
// address outside the reserved namespace. With a 1/256 rejection rate per
// candidate this is unreachable in practice, but the search is bounded and
// the failure explicit.
var ErrNoCanonicalBump = errors.New("crypto: no canonical bump for seed list")

// ErrDerivedAddressMismatch is returned by VerifyDerived when either the
// claimed address or the claimed bump disagrees with the canonical
// derivation.
var ErrDerivedAddressMismatch = errors.New("crypto: derived address mismatch")

const maxSeedLen = 255

// ModuleAddress returns the fixed ledger identity of a named native
// module. The search mirrors DeriveAddress so module identities never
// land in the reserved namespace either.
func ModuleAddress(name string) types.Address {
	for i := 0; i < 256; i++ {
		h := blake3.New(types.AddressLength, nil)
		h.Write([]byte(moduleAddressTag))
		h.Write([]byte(name))
		h.Write([]byte{byte(i)})
		var addr types.Address
		copy(addr[:], h.Sum(nil))
		if addr[0] != reservedPrefix {
			return addr
		}
	}
	// 256 consecutive reserved-prefix digests cannot happen for a fixed
	// tag; returning the zero identity keeps the signature total.
	return types.Address{}
}

// DeriveAddress computes the canonical derived address for a program and
// seed list, searching bumps downward from 255 and skipping candidates in
// the reserved namespace. The returned bump is part of the address's
// identity: validation must compare both.
func DeriveAddress(program types.Address, seeds ...[]byte) (types.Address, uint8, error) {
	for _, seed := range seeds {
		if len(seed) > maxSeedLen {
			return types.Address{}, 0, fmt.Errorf("crypto: seed exceeds %d bytes", maxSeedLen)
		}
	}
	for bump := 255; bump >= 0; bump-- {
		addr := deriveWithBump(program, seeds, uint8(bump))
		if addr[0] != reservedPrefix {
			return addr, uint8(bump), nil
		}
	}
	return types.Address{}, 0, ErrNoCanonicalBump
}

// VerifyDerived recomputes the canonical derivation and fails unless both
// the claimed address and the claimed bump match it exactly.
func VerifyDerived(program types.Address, claimed types.Address, claimedBump uint8, seeds ...[]byte) error {
	addr, bump, err := DeriveAddress(program, seeds...)
	if err != nil {
		return err
	}
	if addr != claimed || bump != claimedBump {
		return ErrDerivedAddressMismatch
	}
	return nil
}

func deriveWithBump(program types.Address, seeds [][]byte, bump uint8) types.Address {
	h := blake3.New(types.AddressLength, nil)
	h.Write([]byte(derivedAddressTag))
	h.Write(program[:])
	for _, seed := range seeds {
		// Length-prefixed so adjacent seeds cannot alias each other.
		h.Write([]byte{byte(len(seed))})
		h.Write(seed)
	}
	h.Write([]byte{bump})
	var addr types.Address
	copy(addr[:], h.Sum(nil))
	return addr
}
