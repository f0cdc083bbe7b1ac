package types

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// AddressHRP is the human readable prefix used when rendering ledger
// addresses for operators, logs and the RPC surface.
const AddressHRP = "cmx"

// AddressLength is the byte length of every ledger address.
const AddressLength = 32

// Address identifies a single ledger account. Module identities, wallet
// identities and derived sub-accounts all share this keyspace.
type Address [AddressLength]byte

// SystemOwner owns every account that has not been assigned to a module
// yet. Freshly referenced accounts carry it until a program claims them.
var SystemOwner = Address{}

// Bytes returns the raw address bytes.
func (a Address) Bytes() []byte { return a[:] }

// IsZero reports whether the address is the all-zero system identity.
func (a Address) IsZero() bool { return a == (Address{}) }

// String renders the address in bech32 with the ledger prefix. Rendering
// never fails for a well-formed 32-byte address; on the impossible error
// path it falls back to hex so logs stay readable.
func (a Address) String() string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return hex.EncodeToString(a[:])
	}
	encoded, err := bech32.Encode(AddressHRP, conv)
	if err != nil {
		return hex.EncodeToString(a[:])
	}
	return encoded
}

// ParseAddress decodes a bech32 rendered ledger address.
func ParseAddress(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("types: decode address: %w", err)
	}
	if hrp != AddressHRP {
		return Address{}, fmt.Errorf("types: unexpected address prefix %q", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("types: decode address: %w", err)
	}
	if len(raw) != AddressLength {
		return Address{}, fmt.Errorf("types: address must be %d bytes, got %d", AddressLength, len(raw))
	}
	var addr Address
	copy(addr[:], raw)
	return addr, nil
}

// Account is the snapshot of one ledger account handed to an invocation.
// The runtime loads the stored content at invocation start; nothing in the
// snapshot reflects concurrent invocations still pending.
type Account struct {
	Address Address
	// Owner is the module that has custody of the account. Only the
	// owning module may rewrite Data or debit Reserve.
	Owner Address
	// Reserve is the balance backing the account's storage, reclaimed
	// when the account is closed.
	Reserve uint64
	Data    []byte
	// Signer reports whether the holder of this address authorised the
	// invocation.
	Signer bool
	// Writable reports whether the invocation declared the account
	// mutable. The runtime serialises writers per account.
	Writable bool
}

// Clone returns a deep copy so an invocation can mutate its snapshot
// without touching the stored instance.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Data = append([]byte(nil), a.Data...)
	return &clone
}

// Initialized reports whether a module has written content to the account.
func (a *Account) Initialized() bool { return len(a.Data) > 0 }

// Equal reports whether two snapshots carry identical persistent content.
// The signer and writable flags are invocation-scoped and ignored.
func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Address == other.Address &&
		a.Owner == other.Owner &&
		a.Reserve == other.Reserve &&
		bytes.Equal(a.Data, other.Data)
}
