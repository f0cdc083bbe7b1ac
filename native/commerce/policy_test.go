package commerce

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindPolicyFirstMatch(t *testing.T) {
	first := RefundPolicy{MaxAmount: 1}
	policies := []Policy{
		SettlementPolicy{MinSettlementAmount: 5},
		first,
		RefundPolicy{MaxAmount: 2},
	}
	require.Equal(t, first, FindPolicy(policies, PolicyRefund))
	require.Nil(t, FindPolicy(policies, PolicyChargeback))
	require.Nil(t, FindPolicy(nil, PolicyRefund))
}

func TestRefundPolicyAbsentAllowsAll(t *testing.T) {
	payment := &Payment{Amount: 1 << 40, CreatedAt: 0}
	require.NoError(t, CheckRefundPolicy(nil, payment, 1<<40))
}

func TestRefundPolicyAmountBoundary(t *testing.T) {
	policies := []Policy{RefundPolicy{MaxAmount: 500}}

	require.NoError(t, CheckRefundPolicy(policies, &Payment{Amount: 500}, 0))
	err := CheckRefundPolicy(policies, &Payment{Amount: 501}, 0)
	require.ErrorIs(t, err, ErrRefundExceedsPolicyLimit)
}

func TestRefundPolicyZeroMaxAmountBlocksAll(t *testing.T) {
	policies := []Policy{RefundPolicy{}}
	err := CheckRefundPolicy(policies, &Payment{Amount: 1}, 0)
	require.ErrorIs(t, err, ErrRefundExceedsPolicyLimit)
}

func TestRefundPolicyWindow(t *testing.T) {
	policies := []Policy{RefundPolicy{MaxAmount: 1_000, MaxTimeAfterPurchase: 3600}}
	payment := &Payment{Amount: 100, CreatedAt: 10_000}

	require.NoError(t, CheckRefundPolicy(policies, payment, 10_000+3600))
	err := CheckRefundPolicy(policies, payment, 10_000+3601)
	require.ErrorIs(t, err, ErrRefundWindowExpired)
}

func TestRefundPolicyZeroWindowUnbounded(t *testing.T) {
	policies := []Policy{RefundPolicy{MaxAmount: 1_000}}
	payment := &Payment{Amount: 100, CreatedAt: 0}
	require.NoError(t, CheckRefundPolicy(policies, payment, 1<<40))
}

func TestRefundPolicyAmountCheckedBeforeWindow(t *testing.T) {
	policies := []Policy{RefundPolicy{MaxAmount: 10, MaxTimeAfterPurchase: 1}}
	payment := &Payment{Amount: 100, CreatedAt: 0}
	err := CheckRefundPolicy(policies, payment, 1<<40)
	require.ErrorIs(t, err, ErrRefundExceedsPolicyLimit)
}

func TestSettlementPolicyAbsentAllowsAll(t *testing.T) {
	require.NoError(t, CheckSettlementPolicy(nil, &Payment{Amount: 1}, 0))
}

func TestSettlementPolicyMinimumAmount(t *testing.T) {
	policies := []Policy{SettlementPolicy{MinSettlementAmount: 100}}

	require.NoError(t, CheckSettlementPolicy(policies, &Payment{Amount: 100}, 0))
	err := CheckSettlementPolicy(policies, &Payment{Amount: 99}, 0)
	require.ErrorIs(t, err, ErrInsufficientSettlementAmount)
}

func TestSettlementPolicyFrequency(t *testing.T) {
	policies := []Policy{SettlementPolicy{SettlementFrequencyHours: 24}}
	payment := &Payment{Amount: 100, CreatedAt: 0}

	err := CheckSettlementPolicy(policies, payment, 24*SecondsPerHour-1)
	require.ErrorIs(t, err, ErrSettlementTooEarly)
	require.NoError(t, CheckSettlementPolicy(policies, payment, 24*SecondsPerHour))
}

func TestSettlementPolicyZeroValuesDisableChecks(t *testing.T) {
	policies := []Policy{SettlementPolicy{}}
	require.NoError(t, CheckSettlementPolicy(policies, &Payment{Amount: 1, CreatedAt: 100}, 100))
}

func TestAutoSettle(t *testing.T) {
	require.False(t, AutoSettle(nil))
	require.False(t, AutoSettle([]Policy{SettlementPolicy{}}))
	require.True(t, AutoSettle([]Policy{SettlementPolicy{AutoSettle: true}}))
}
