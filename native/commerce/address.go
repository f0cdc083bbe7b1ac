package commerce

import (
	"encoding/binary"

	"commerceledger/core/types"
	"commerceledger/crypto"
)

// ProgramID is the commerce program's fixed identity on the ledger. Every
// record account it creates is owned by this address.
var ProgramID = crypto.ModuleAddress("commerce")

// Derivation seeds. Record addresses are derived from these fixed labels
// plus the identifying fields, so an account's address alone pins down
// what it is and who it belongs to.
const (
	SeedMerchant       = "merchant"
	SeedOperator       = "operator"
	SeedConfig         = "merchant_operator_config"
	SeedPayment        = "payment"
	SeedEventAuthority = "event_authority"
)

// MerchantAddress derives the merchant record address for an owner.
func MerchantAddress(owner types.Address) (types.Address, uint8, error) {
	return crypto.DeriveAddress(ProgramID, []byte(SeedMerchant), owner[:])
}

// OperatorAddress derives the operator record address for an owner.
func OperatorAddress(owner types.Address) (types.Address, uint8, error) {
	return crypto.DeriveAddress(ProgramID, []byte(SeedOperator), owner[:])
}

// ConfigAddress derives the per-relationship config address for a
// (merchant, operator, version) triple.
func ConfigAddress(merchant, operator types.Address, version uint32) (types.Address, uint8, error) {
	return crypto.DeriveAddress(ProgramID, []byte(SeedConfig), merchant[:], operator[:], le32(version))
}

// PaymentAddress derives a payment record address. The config, buyer,
// currency and order id are recoverable only through this derivation; the
// record itself stores none of them beyond the order id.
func PaymentAddress(config, buyer, currency types.Address, orderID uint32) (types.Address, uint8, error) {
	return crypto.DeriveAddress(ProgramID, []byte(SeedPayment), config[:], buyer[:], currency[:], le32(orderID))
}

// EventAuthority derives the fixed self-signing credential used for event
// emission. The account never stores data.
func EventAuthority() (types.Address, uint8, error) {
	return crypto.DeriveAddress(ProgramID, []byte(SeedEventAuthority))
}

func le32(v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return buf[:]
}
