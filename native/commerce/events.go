package commerce

import (
	"encoding/binary"

	"commerceledger/core/types"
)

// EventTag is the 8-byte little-endian marker leading every commerce wire
// event, so off-ledger consumers can pick them out of a mixed stream.
const EventTag uint64 = 0x1d9acb512ea545e4

// EventKind discriminates the wire payload variants.
type EventKind uint8

const (
	EventKindCreated EventKind = iota
	EventKindCleared
	EventKindRefunded
)

// PaymentCreatedEvent is emitted when a payment enters escrow.
type PaymentCreatedEvent struct {
	Buyer    types.Address
	Merchant types.Address
	Operator types.Address
	Amount   uint64
	OrderID  uint32
}

func (PaymentCreatedEvent) EventType() string { return "commerce.payment.created" }

// Bytes returns the canonical wire payload.
func (e PaymentCreatedEvent) Bytes() []byte {
	return encodeEvent(EventKindCreated, e.Buyer, e.Merchant, e.Operator, e.Amount, nil, e.OrderID)
}

// PaymentClearedEvent is emitted when escrowed funds settle to the
// merchant, with the operator's cut broken out.
type PaymentClearedEvent struct {
	Buyer       types.Address
	Merchant    types.Address
	Operator    types.Address
	Amount      uint64
	OperatorFee uint64
	OrderID     uint32
}

func (PaymentClearedEvent) EventType() string { return "commerce.payment.cleared" }

// Bytes returns the canonical wire payload. The cleared variant is the
// only one carrying the extra fee field, placed before the order id.
func (e PaymentClearedEvent) Bytes() []byte {
	fee := e.OperatorFee
	return encodeEvent(EventKindCleared, e.Buyer, e.Merchant, e.Operator, e.Amount, &fee, e.OrderID)
}

// PaymentRefundedEvent is emitted when escrowed funds return to the buyer.
type PaymentRefundedEvent struct {
	Buyer    types.Address
	Merchant types.Address
	Operator types.Address
	Amount   uint64
	OrderID  uint32
}

func (PaymentRefundedEvent) EventType() string { return "commerce.payment.refunded" }

// Bytes returns the canonical wire payload.
func (e PaymentRefundedEvent) Bytes() []byte {
	return encodeEvent(EventKindRefunded, e.Buyer, e.Merchant, e.Operator, e.Amount, nil, e.OrderID)
}

func encodeEvent(kind EventKind, buyer, merchant, operator types.Address, amount uint64, fee *uint64, orderID uint32) []byte {
	data := make([]byte, 0, 8+1+32+32+32+8+8+4)
	data = binary.LittleEndian.AppendUint64(data, EventTag)
	data = append(data, byte(kind))
	data = append(data, buyer[:]...)
	data = append(data, merchant[:]...)
	data = append(data, operator[:]...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	if fee != nil {
		data = binary.LittleEndian.AppendUint64(data, *fee)
	}
	data = binary.LittleEndian.AppendUint32(data, orderID)
	return data
}
