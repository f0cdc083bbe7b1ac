package commerce

// PolicyKind tags the variants of the policy union stored in a config's
// tail. At most one policy of each kind is meaningful per config; lookup
// returns the first match.
type PolicyKind uint8

const (
	PolicyRefund PolicyKind = iota
	// PolicyChargeback is reserved alongside the chargeback instruction;
	// it decodes but is never evaluated.
	PolicyChargeback
	PolicySettlement
)

// Valid reports whether the kind value is within the supported range.
func (k PolicyKind) Valid() bool { return k <= PolicySettlement }

// Policy is the tagged union of per-relationship rules. Policies are
// opt-in allowlists: the absence of a policy of some kind means no
// restriction of that kind applies.
type Policy interface {
	Kind() PolicyKind
}

// RefundPolicy bounds refunds by amount and age. A MaxAmount of zero
// blocks all refunds; only MaxTimeAfterPurchase uses zero-as-unbounded.
type RefundPolicy struct {
	MaxAmount uint64
	// MaxTimeAfterPurchase is in seconds; zero disables the window.
	MaxTimeAfterPurchase uint64
}

func (RefundPolicy) Kind() PolicyKind { return PolicyRefund }

// ChargebackPolicy mirrors RefundPolicy for the reserved chargeback flow.
type ChargebackPolicy struct {
	MaxAmount            uint64
	MaxTimeAfterPurchase uint64
}

func (ChargebackPolicy) Kind() PolicyKind { return PolicyChargeback }

// SettlementPolicy bounds clearing. Zero values disable the respective
// check; AutoSettle is read once at payment creation.
type SettlementPolicy struct {
	MinSettlementAmount      uint64
	SettlementFrequencyHours uint32
	AutoSettle               bool
}

func (SettlementPolicy) Kind() PolicyKind { return PolicySettlement }

// FindPolicy returns the first policy of the given kind, or nil.
func FindPolicy(policies []Policy, kind PolicyKind) Policy {
	for _, p := range policies {
		if p != nil && p.Kind() == kind {
			return p
		}
	}
	return nil
}

// CheckRefundPolicy evaluates the refund rules against a payment. Checks
// run in fixed order; the first failure is the one reported.
func CheckRefundPolicy(policies []Policy, payment *Payment, now int64) error {
	found := FindPolicy(policies, PolicyRefund)
	if found == nil {
		return nil
	}
	refund, ok := found.(RefundPolicy)
	if !ok {
		return nil
	}
	if refund.MaxAmount < payment.Amount {
		return ErrRefundExceedsPolicyLimit
	}
	if refund.MaxTimeAfterPurchase > 0 {
		if now-payment.CreatedAt > int64(refund.MaxTimeAfterPurchase) {
			return ErrRefundWindowExpired
		}
	}
	return nil
}

// CheckSettlementPolicy evaluates the clearing rules against a payment.
// Checks run in fixed order; the first failure is the one reported. The
// AutoSettle flag is not consulted here: it only chooses the immediate
// post-creation status.
func CheckSettlementPolicy(policies []Policy, payment *Payment, now int64) error {
	found := FindPolicy(policies, PolicySettlement)
	if found == nil {
		return nil
	}
	settlement, ok := found.(SettlementPolicy)
	if !ok {
		return nil
	}
	if settlement.MinSettlementAmount > 0 && payment.Amount < settlement.MinSettlementAmount {
		return ErrInsufficientSettlementAmount
	}
	if settlement.SettlementFrequencyHours > 0 {
		minAge := int64(settlement.SettlementFrequencyHours) * SecondsPerHour
		if now-payment.CreatedAt < minAge {
			return ErrSettlementTooEarly
		}
	}
	return nil
}

// AutoSettle reports whether the config's settlement policy requests
// immediate clearing at payment creation.
func AutoSettle(policies []Policy) bool {
	found := FindPolicy(policies, PolicySettlement)
	if found == nil {
		return false
	}
	settlement, ok := found.(SettlementPolicy)
	return ok && settlement.AutoSettle
}
