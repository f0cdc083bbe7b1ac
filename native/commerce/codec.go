package commerce

import (
	"encoding/binary"
	"fmt"

	"commerceledger/core/types"
)

// Record byte layouts are a wire contract: one kind-tag byte followed by
// little-endian fields, with the config's variable tail walked from the
// header counts. Encoding and decoding are exact inverses over well-formed
// input.
const (
	MerchantRecordLen = 1 + 32 + 1 + 32
	OperatorRecordLen = 1 + 32 + 1
	ConfigHeaderLen   = 1 + 4 + 1 + 32 + 32 + 8 + 1 + 4 + 2 + 4 + 4
	PaymentRecordLen  = 1 + 4 + 8 + 8 + 1 + 1

	// PolicySlotLen is one tag byte plus a 100-byte payload region;
	// payloads shorter than the region are zero padded.
	PolicySlotLen = 1 + 100

	refundPolicyLen     = 16
	chargebackPolicyLen = 16
	settlementPolicyLen = 13
)

// ConfigRecordSize returns the full encoded size of a config record with
// the given tail counts.
func ConfigRecordSize(numPolicies, numCurrencies int) int {
	return ConfigHeaderLen + numPolicies*PolicySlotLen + numCurrencies*types.AddressLength
}

// EncodeMerchant serialises a merchant record.
func EncodeMerchant(m *Merchant) []byte {
	data := make([]byte, 0, MerchantRecordLen)
	data = append(data, byte(KindMerchant))
	data = append(data, m.Owner[:]...)
	data = append(data, m.Bump)
	data = append(data, m.SettlementWallet[:]...)
	return data
}

// DecodeMerchant parses a merchant record, rejecting a wrong kind tag or
// a short buffer as malformed.
func DecodeMerchant(data []byte) (*Merchant, error) {
	if len(data) < MerchantRecordLen {
		return nil, fmt.Errorf("%w: merchant record too short", ErrMalformedRecord)
	}
	if RecordKind(data[0]) != KindMerchant {
		return nil, fmt.Errorf("%w: not a merchant record", ErrMalformedRecord)
	}
	m := &Merchant{}
	offset := 1
	copy(m.Owner[:], data[offset:offset+32])
	offset += 32
	m.Bump = data[offset]
	offset++
	copy(m.SettlementWallet[:], data[offset:offset+32])
	return m, nil
}

// EncodeOperator serialises an operator record.
func EncodeOperator(o *Operator) []byte {
	data := make([]byte, 0, OperatorRecordLen)
	data = append(data, byte(KindOperator))
	data = append(data, o.Owner[:]...)
	data = append(data, o.Bump)
	return data
}

// DecodeOperator parses an operator record.
func DecodeOperator(data []byte) (*Operator, error) {
	if len(data) < OperatorRecordLen {
		return nil, fmt.Errorf("%w: operator record too short", ErrMalformedRecord)
	}
	if RecordKind(data[0]) != KindOperator {
		return nil, fmt.Errorf("%w: not an operator record", ErrMalformedRecord)
	}
	o := &Operator{}
	copy(o.Owner[:], data[1:33])
	o.Bump = data[33]
	return o, nil
}

// EncodeConfig serialises a config record with its policy and accepted
// currency tail.
func EncodeConfig(c *MerchantOperatorConfig, policies []Policy, currencies []types.Address) []byte {
	data := make([]byte, 0, ConfigRecordSize(len(policies), len(currencies)))
	data = append(data, byte(KindConfig))
	data = binary.LittleEndian.AppendUint32(data, c.Version)
	data = append(data, c.Bump)
	data = append(data, c.Merchant[:]...)
	data = append(data, c.Operator[:]...)
	data = binary.LittleEndian.AppendUint64(data, c.OperatorFee)
	data = append(data, byte(c.FeeType))
	data = binary.LittleEndian.AppendUint32(data, c.CurrentOrderID)
	data = binary.LittleEndian.AppendUint16(data, c.DaysToClose)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(policies)))
	data = binary.LittleEndian.AppendUint32(data, uint32(len(currencies)))
	for _, p := range policies {
		data = append(data, encodePolicySlot(p)...)
	}
	for _, currency := range currencies {
		data = append(data, currency[:]...)
	}
	return data
}

// DecodeConfig parses a config record including its variable tail. The
// policy region (count x slot) sits immediately after the header, the
// currency region immediately after the policies.
func DecodeConfig(data []byte) (*MerchantOperatorConfig, []Policy, []types.Address, error) {
	if len(data) < ConfigHeaderLen {
		return nil, nil, nil, fmt.Errorf("%w: config record too short", ErrMalformedRecord)
	}
	if RecordKind(data[0]) != KindConfig {
		return nil, nil, nil, fmt.Errorf("%w: not a config record", ErrMalformedRecord)
	}
	c := &MerchantOperatorConfig{}
	offset := 1
	c.Version = binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	c.Bump = data[offset]
	offset++
	copy(c.Merchant[:], data[offset:offset+32])
	offset += 32
	copy(c.Operator[:], data[offset:offset+32])
	offset += 32
	c.OperatorFee = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	c.FeeType = FeeType(data[offset])
	if !c.FeeType.Valid() {
		return nil, nil, nil, fmt.Errorf("%w: invalid fee type %d", ErrMalformedRecord, data[offset])
	}
	offset++
	c.CurrentOrderID = binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	c.DaysToClose = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	numPolicies := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	numCurrencies := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4

	// Bound the declared counts by the bytes actually present before
	// allocating for them.
	if int64(numPolicies) > int64((len(data)-offset)/PolicySlotLen) {
		return nil, nil, nil, fmt.Errorf("%w: config policy region truncated", ErrMalformedRecord)
	}
	policies := make([]Policy, 0, numPolicies)
	for i := uint32(0); i < numPolicies; i++ {
		if offset+PolicySlotLen > len(data) {
			return nil, nil, nil, fmt.Errorf("%w: config policy region truncated", ErrMalformedRecord)
		}
		policy, err := decodePolicySlot(data[offset : offset+PolicySlotLen])
		if err != nil {
			return nil, nil, nil, err
		}
		policies = append(policies, policy)
		offset += PolicySlotLen
	}

	if int64(numCurrencies) > int64((len(data)-offset)/types.AddressLength) {
		return nil, nil, nil, fmt.Errorf("%w: config currency region truncated", ErrMalformedRecord)
	}
	currencies := make([]types.Address, 0, numCurrencies)
	for i := uint32(0); i < numCurrencies; i++ {
		if offset+types.AddressLength > len(data) {
			return nil, nil, nil, fmt.Errorf("%w: config currency region truncated", ErrMalformedRecord)
		}
		var currency types.Address
		copy(currency[:], data[offset:offset+types.AddressLength])
		currencies = append(currencies, currency)
		offset += types.AddressLength
	}
	return c, policies, currencies, nil
}

// EncodePayment serialises a payment record.
func EncodePayment(p *Payment) []byte {
	data := make([]byte, 0, PaymentRecordLen)
	data = append(data, byte(KindPayment))
	data = binary.LittleEndian.AppendUint32(data, p.OrderID)
	data = binary.LittleEndian.AppendUint64(data, p.Amount)
	data = binary.LittleEndian.AppendUint64(data, uint64(p.CreatedAt))
	data = append(data, byte(p.Status))
	data = append(data, p.Bump)
	return data
}

// DecodePayment parses a payment record.
func DecodePayment(data []byte) (*Payment, error) {
	if len(data) < PaymentRecordLen {
		return nil, fmt.Errorf("%w: payment record too short", ErrMalformedRecord)
	}
	if RecordKind(data[0]) != KindPayment {
		return nil, fmt.Errorf("%w: not a payment record", ErrMalformedRecord)
	}
	p := &Payment{}
	offset := 1
	p.OrderID = binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4
	p.Amount = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	p.CreatedAt = int64(binary.LittleEndian.Uint64(data[offset : offset+8]))
	offset += 8
	p.Status = PaymentStatus(data[offset])
	if !p.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid payment status %d", ErrMalformedRecord, data[offset])
	}
	offset++
	p.Bump = data[offset]
	return p, nil
}

func encodePolicySlot(p Policy) []byte {
	slot := make([]byte, PolicySlotLen)
	slot[0] = byte(p.Kind())
	switch policy := p.(type) {
	case RefundPolicy:
		binary.LittleEndian.PutUint64(slot[1:9], policy.MaxAmount)
		binary.LittleEndian.PutUint64(slot[9:17], policy.MaxTimeAfterPurchase)
	case ChargebackPolicy:
		binary.LittleEndian.PutUint64(slot[1:9], policy.MaxAmount)
		binary.LittleEndian.PutUint64(slot[9:17], policy.MaxTimeAfterPurchase)
	case SettlementPolicy:
		binary.LittleEndian.PutUint64(slot[1:9], policy.MinSettlementAmount)
		binary.LittleEndian.PutUint32(slot[9:13], policy.SettlementFrequencyHours)
		if policy.AutoSettle {
			slot[13] = 1
		}
	}
	return slot
}

func decodePolicySlot(data []byte) (Policy, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty policy slot", ErrMalformedRecord)
	}
	kind := PolicyKind(data[0])
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: invalid policy kind %d", ErrMalformedRecord, data[0])
	}
	payload := data[1:]
	switch kind {
	case PolicyRefund:
		if len(payload) < refundPolicyLen {
			return nil, fmt.Errorf("%w: refund policy truncated", ErrMalformedRecord)
		}
		return RefundPolicy{
			MaxAmount:            binary.LittleEndian.Uint64(payload[0:8]),
			MaxTimeAfterPurchase: binary.LittleEndian.Uint64(payload[8:16]),
		}, nil
	case PolicyChargeback:
		if len(payload) < chargebackPolicyLen {
			return nil, fmt.Errorf("%w: chargeback policy truncated", ErrMalformedRecord)
		}
		return ChargebackPolicy{
			MaxAmount:            binary.LittleEndian.Uint64(payload[0:8]),
			MaxTimeAfterPurchase: binary.LittleEndian.Uint64(payload[8:16]),
		}, nil
	case PolicySettlement:
		if len(payload) < settlementPolicyLen {
			return nil, fmt.Errorf("%w: settlement policy truncated", ErrMalformedRecord)
		}
		return SettlementPolicy{
			MinSettlementAmount:      binary.LittleEndian.Uint64(payload[0:8]),
			SettlementFrequencyHours: binary.LittleEndian.Uint32(payload[8:12]),
			AutoSettle:               payload[12] == 1,
		}, nil
	}
	return nil, fmt.Errorf("%w: invalid policy kind %d", ErrMalformedRecord, data[0])
}
