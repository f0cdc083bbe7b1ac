package commerce

import "math/bits"

// SplitFee divides a payment total into the operator's cut and the
// merchant's remainder. For FeeBps the fee is floor(total*fee/10000); for
// FeeFixed it is the configured amount capped at the total. The two parts
// always sum exactly to total.
func SplitFee(total, fee uint64, feeType FeeType) (operator, merchant uint64, err error) {
	switch feeType {
	case FeeBps:
		hi, lo := bits.Mul64(total, fee)
		if hi != 0 {
			return 0, 0, ErrArithmeticOverflow
		}
		operator = lo / MaxBps
		// A rate above 10000 bps would push the cut past the total and
		// wrap the remainder.
		if operator > total {
			return 0, 0, ErrArithmeticOverflow
		}
	case FeeFixed:
		operator = fee
		if operator > total {
			operator = total
		}
	default:
		return 0, 0, ErrMalformedRecord
	}
	merchant = total - operator
	return operator, merchant, nil
}
