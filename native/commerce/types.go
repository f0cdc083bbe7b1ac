package commerce

import (
	"commerceledger/core/types"
	"commerceledger/crypto"
)

// RecordKind is the one-byte tag leading every record the program stores.
type RecordKind uint8

const (
	KindMerchant RecordKind = iota
	KindOperator
	KindConfig
	KindPayment
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus uint8

const (
	StatusPaid PaymentStatus = iota
	StatusCleared
	// StatusChargedback is reserved for a future clawback design. It
	// decodes but no transition produces it.
	StatusChargedback
	StatusRefunded
)

// Valid reports whether the status value is within the supported range.
func (s PaymentStatus) Valid() bool { return s <= StatusRefunded }

func (s PaymentStatus) String() string {
	switch s {
	case StatusPaid:
		return "paid"
	case StatusCleared:
		return "cleared"
	case StatusChargedback:
		return "chargedback"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// FeeType selects how the operator's cut of a cleared payment is computed.
type FeeType uint8

const (
	FeeBps   FeeType = 0
	FeeFixed FeeType = 1
)

// Valid reports whether the fee type value is within the supported range.
func (f FeeType) Valid() bool { return f == FeeBps || f == FeeFixed }

// SecondsPerHour and SecondsPerDay convert policy windows to timestamps.
const (
	SecondsPerHour int64 = 3600
	SecondsPerDay  int64 = 86400
)

// MaxBps is the denominator of basis-point fee math.
const MaxBps uint64 = 10_000

// Merchant is the per-owner merchant record.
// Address: derive(["merchant", owner]).
type Merchant struct {
	Owner types.Address
	Bump  uint8
	// SettlementWallet owns the balance accounts that receive the
	// merchant's cleared funds.
	SettlementWallet types.Address
}

// VerifyOwner fails unless the supplied authority is the record owner.
func (m *Merchant) VerifyOwner(authority types.Address) error {
	if m.Owner != authority {
		return ErrMerchantOwnerMismatch
	}
	return nil
}

// VerifyDerivation recomputes the record's canonical address from its own
// fields and fails unless account address and stored bump both match. Only
// meaningful before an authority transfer: the address stays bound to the
// owner the record was created under.
func (m *Merchant) VerifyDerivation(account types.Address) error {
	if err := crypto.VerifyDerived(ProgramID, account, m.Bump, []byte(SeedMerchant), m.Owner[:]); err != nil {
		return ErrMerchantInvalidDerivation
	}
	return nil
}

// Operator is the per-owner operator record.
// Address: derive(["operator", owner]).
type Operator struct {
	Owner types.Address
	Bump  uint8
}

// VerifyOwner fails unless the supplied authority is the record owner.
func (o *Operator) VerifyOwner(authority types.Address) error {
	if o.Owner != authority {
		return ErrOperatorOwnerMismatch
	}
	return nil
}

// VerifyDerivation recomputes the record's canonical address from its own
// fields and fails unless account address and stored bump both match. Like
// the merchant variant, only meaningful before an authority transfer.
func (o *Operator) VerifyDerivation(account types.Address) error {
	if err := crypto.VerifyDerived(ProgramID, account, o.Bump, []byte(SeedOperator), o.Owner[:]); err != nil {
		return ErrOperatorInvalidDerivation
	}
	return nil
}

// MerchantOperatorConfig is the per-relationship configuration record.
// Address: derive(["merchant_operator_config", merchant, operator, version]).
// The policy list and accepted-currency set live in a variable tail after
// the fixed header; see the codec.
type MerchantOperatorConfig struct {
	Version  uint32
	Bump     uint8
	Merchant types.Address
	Operator types.Address
	// OperatorFee is interpreted per FeeType: basis points for FeeBps,
	// an absolute amount for FeeFixed.
	OperatorFee uint64
	FeeType     FeeType
	// CurrentOrderID is the authoritative fencing counter; payment
	// creation must present exactly this value and advances it.
	CurrentOrderID uint32
	// DaysToClose is how long after creation a settled payment must age
	// before its record can be closed.
	DaysToClose uint16
}

// VerifyDerivation recomputes the record's canonical address from its own
// fields and fails unless account address and stored bump both match.
func (c *MerchantOperatorConfig) VerifyDerivation(account types.Address) error {
	err := crypto.VerifyDerived(ProgramID, account, c.Bump,
		[]byte(SeedConfig), c.Merchant[:], c.Operator[:], le32(c.Version))
	if err != nil {
		return ErrConfigInvalidDerivation
	}
	return nil
}

// VerifyOperator fails unless the supplied record address is the config's
// operator.
func (c *MerchantOperatorConfig) VerifyOperator(operator types.Address) error {
	if c.Operator != operator {
		return ErrOperatorMismatch
	}
	return nil
}

// VerifyMerchant fails unless the supplied record address is the config's
// merchant.
func (c *MerchantOperatorConfig) VerifyMerchant(merchant types.Address) error {
	if c.Merchant != merchant {
		return ErrMerchantMismatch
	}
	return nil
}

// VerifyParticipants checks both relationship members at once.
func (c *MerchantOperatorConfig) VerifyParticipants(operator, merchant types.Address) error {
	if err := c.VerifyOperator(operator); err != nil {
		return err
	}
	return c.VerifyMerchant(merchant)
}

// VerifyOrderID enforces the creation fence: the submitted order id must
// equal the next expected counter value.
func (c *MerchantOperatorConfig) VerifyOrderID(orderID uint32) error {
	if orderID != c.CurrentOrderID {
		return ErrOrderIDInvalid
	}
	return nil
}

// Payment is the minimal per-payment fact. Buyer, currency and config are
// not stored; they are recoverable only through the account's own address.
// Address: derive(["payment", config, buyer, currency, order_id]).
type Payment struct {
	OrderID   uint32
	Amount    uint64
	CreatedAt int64
	Status    PaymentStatus
	Bump      uint8
}

// VerifyStatus fails unless the payment is in the given state.
func (p *Payment) VerifyStatus(status PaymentStatus) error {
	if p.Status != status {
		return ErrInvalidPaymentStatus
	}
	return nil
}

// VerifyNotStatus fails if the payment is in the given state.
func (p *Payment) VerifyNotStatus(status PaymentStatus) error {
	if p.Status == status {
		return ErrInvalidPaymentStatus
	}
	return nil
}

// VerifyCanClose gates record destruction: the payment must have left the
// Paid state and must have aged at least daysToClose days since creation.
func (p *Payment) VerifyCanClose(daysToClose uint16, now int64) error {
	if err := p.VerifyNotStatus(StatusPaid); err != nil {
		return err
	}
	elapsed := now - p.CreatedAt
	if elapsed < 0 {
		return ErrArithmeticOverflow
	}
	if elapsed/SecondsPerDay < int64(daysToClose) {
		return ErrCloseWindowNotReached
	}
	return nil
}

// VerifyDerivation reconstructs the payment's composite key from the
// supplied accounts and the stored order id, and fails unless the account
// address and stored bump match the canonical derivation.
func (p *Payment) VerifyDerivation(account, config, buyer, currency types.Address) error {
	err := crypto.VerifyDerived(ProgramID, account, p.Bump,
		[]byte(SeedPayment), config[:], buyer[:], currency[:], le32(p.OrderID))
	if err != nil {
		return ErrPaymentInvalidDerivation
	}
	return nil
}
