package commerce

import (
	"encoding/binary"
	"fmt"

	"commerceledger/core/types"
)

// Instruction discriminators. The first byte of every invocation payload
// selects the handler; the remainder is that handler's argument encoding.
const (
	OpCreateMerchant                 uint8 = 0
	OpCreateOperator                 uint8 = 1
	OpInitializeConfig               uint8 = 2
	OpMakePayment                    uint8 = 3
	OpClearPayment                   uint8 = 4
	OpRefundPayment                  uint8 = 5
	OpChargebackPayment              uint8 = 6
	OpUpdateMerchantSettlementWallet uint8 = 7
	OpUpdateMerchantAuthority        uint8 = 8
	OpUpdateOperatorAuthority        uint8 = 9
	OpClosePayment                   uint8 = 10

	// OpEmitEvent is the reserved self-invocation discriminator. It sits
	// far from the public range so new public instructions never collide
	// with it.
	OpEmitEvent uint8 = 228
)

// InstructionName returns a stable label for an instruction discriminator,
// for logs and metrics.
func InstructionName(op uint8) string {
	switch op {
	case OpCreateMerchant:
		return "create_merchant"
	case OpCreateOperator:
		return "create_operator"
	case OpInitializeConfig:
		return "initialize_config"
	case OpMakePayment:
		return "make_payment"
	case OpClearPayment:
		return "clear_payment"
	case OpRefundPayment:
		return "refund_payment"
	case OpChargebackPayment:
		return "chargeback_payment"
	case OpUpdateMerchantSettlementWallet:
		return "update_merchant_settlement_wallet"
	case OpUpdateMerchantAuthority:
		return "update_merchant_authority"
	case OpUpdateOperatorAuthority:
		return "update_operator_authority"
	case OpClosePayment:
		return "close_payment"
	case OpEmitEvent:
		return "emit_event"
	}
	return "unknown"
}

// InitializeConfigArgs carries the relationship parameters for config
// creation. The accepted currency list rides in the payload and must match
// the trailing currency accounts pairwise.
type InitializeConfigArgs struct {
	Version     uint32
	OperatorFee uint64
	FeeType     FeeType
	DaysToClose uint16
	Policies    []Policy
	Currencies  []types.Address
}

// MakePaymentArgs carries the payment parameters. The order id must equal
// the config's current counter.
type MakePaymentArgs struct {
	OrderID uint32
	Amount  uint64
}

// EncodeCreateMerchant builds a merchant creation payload.
func EncodeCreateMerchant() []byte { return []byte{OpCreateMerchant} }

// EncodeCreateOperator builds an operator creation payload.
func EncodeCreateOperator() []byte { return []byte{OpCreateOperator} }

// EncodeInitializeConfig builds a config creation payload.
func EncodeInitializeConfig(args InitializeConfigArgs) []byte {
	size := 1 + 4 + 8 + 1 + 2 + 4 + len(args.Policies)*PolicySlotLen +
		4 + len(args.Currencies)*types.AddressLength
	data := make([]byte, 0, size)
	data = append(data, OpInitializeConfig)
	data = binary.LittleEndian.AppendUint32(data, args.Version)
	data = binary.LittleEndian.AppendUint64(data, args.OperatorFee)
	data = append(data, byte(args.FeeType))
	data = binary.LittleEndian.AppendUint16(data, args.DaysToClose)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(args.Policies)))
	for _, p := range args.Policies {
		data = append(data, encodePolicySlot(p)...)
	}
	data = binary.LittleEndian.AppendUint32(data, uint32(len(args.Currencies)))
	for _, currency := range args.Currencies {
		data = append(data, currency[:]...)
	}
	return data
}

// EncodeMakePayment builds a payment creation payload.
func EncodeMakePayment(args MakePaymentArgs) []byte {
	data := make([]byte, 0, 1+4+8)
	data = append(data, OpMakePayment)
	data = binary.LittleEndian.AppendUint32(data, args.OrderID)
	data = binary.LittleEndian.AppendUint64(data, args.Amount)
	return data
}

// EncodeClearPayment builds a clearing payload.
func EncodeClearPayment() []byte { return []byte{OpClearPayment} }

// EncodeRefundPayment builds a refund payload.
func EncodeRefundPayment() []byte { return []byte{OpRefundPayment} }

// EncodeChargebackPayment builds a chargeback payload for the reserved
// instruction.
func EncodeChargebackPayment() []byte { return []byte{OpChargebackPayment} }

// EncodeUpdateMerchantSettlementWallet builds a settlement wallet update
// payload. The new wallet arrives as an account.
func EncodeUpdateMerchantSettlementWallet() []byte {
	return []byte{OpUpdateMerchantSettlementWallet}
}

// EncodeUpdateMerchantAuthority builds a merchant authority transfer
// payload.
func EncodeUpdateMerchantAuthority() []byte { return []byte{OpUpdateMerchantAuthority} }

// EncodeUpdateOperatorAuthority builds an operator authority transfer
// payload.
func EncodeUpdateOperatorAuthority() []byte { return []byte{OpUpdateOperatorAuthority} }

// EncodeClosePayment builds a payment close payload.
func EncodeClosePayment() []byte { return []byte{OpClosePayment} }

func parseInitializeConfigArgs(data []byte) (InitializeConfigArgs, error) {
	var args InitializeConfigArgs
	const fixed = 4 + 8 + 1 + 2 + 4
	if len(data) < fixed {
		return args, fmt.Errorf("%w: initialize config args truncated", ErrMalformedInstructionData)
	}
	args.Version = binary.LittleEndian.Uint32(data[0:4])
	args.OperatorFee = binary.LittleEndian.Uint64(data[4:12])
	args.FeeType = FeeType(data[12])
	if !args.FeeType.Valid() {
		return args, fmt.Errorf("%w: invalid fee type %d", ErrMalformedInstructionData, data[12])
	}
	args.DaysToClose = binary.LittleEndian.Uint16(data[13:15])
	numPolicies := binary.LittleEndian.Uint32(data[15:19])
	offset := fixed

	// Bound the declared count by the bytes actually present before
	// allocating for it.
	if int64(numPolicies) > int64((len(data)-offset)/PolicySlotLen) {
		return args, fmt.Errorf("%w: policy count exceeds payload", ErrMalformedInstructionData)
	}
	args.Policies = make([]Policy, 0, numPolicies)
	for i := uint32(0); i < numPolicies; i++ {
		if offset+PolicySlotLen > len(data) {
			return args, fmt.Errorf("%w: initialize config policy region truncated", ErrMalformedInstructionData)
		}
		policy, err := decodePolicySlot(data[offset : offset+PolicySlotLen])
		if err != nil {
			return args, fmt.Errorf("%w: %v", ErrMalformedInstructionData, err)
		}
		args.Policies = append(args.Policies, policy)
		offset += PolicySlotLen
	}

	if offset+4 > len(data) {
		return args, fmt.Errorf("%w: initialize config args truncated", ErrMalformedInstructionData)
	}
	numCurrencies := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	if len(data) != offset+int(numCurrencies)*types.AddressLength {
		return args, fmt.Errorf("%w: initialize config currency region size mismatch", ErrMalformedInstructionData)
	}
	args.Currencies = make([]types.Address, 0, numCurrencies)
	for i := uint32(0); i < numCurrencies; i++ {
		var currency types.Address
		copy(currency[:], data[offset:offset+types.AddressLength])
		args.Currencies = append(args.Currencies, currency)
		offset += types.AddressLength
	}
	return args, nil
}

func parseMakePaymentArgs(data []byte) (MakePaymentArgs, error) {
	var args MakePaymentArgs
	if len(data) != 4+8 {
		return args, fmt.Errorf("%w: make payment args size mismatch", ErrMalformedInstructionData)
	}
	args.OrderID = binary.LittleEndian.Uint32(data[0:4])
	args.Amount = binary.LittleEndian.Uint64(data[4:12])
	return args, nil
}
