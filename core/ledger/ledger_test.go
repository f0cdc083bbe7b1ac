package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"commerceledger/core/types"
	"commerceledger/native/commerce"
	"commerceledger/storage"
)

type execFunc func(accounts []*types.Account, data []byte) error

func (f execFunc) Execute(accounts []*types.Account, data []byte) error {
	return f(accounts, data)
}

func addr(fill byte) types.Address {
	var a types.Address
	for i := range a {
		a[i] = fill
	}
	return a
}

func TestInvokeCommitsOnSuccess(t *testing.T) {
	l := NewLedger(storage.NewMemDB())
	target := addr(0x01)

	err := l.Invoke(execFunc(func(accounts []*types.Account, _ []byte) error {
		accounts[0].Owner = addr(0xee)
		accounts[0].Reserve = 500
		accounts[0].Data = []byte("hello")
		return nil
	}), []AccountMeta{{Address: target, Writable: true}}, nil)
	require.NoError(t, err)

	stored, err := l.GetAccount(target)
	require.NoError(t, err)
	require.Equal(t, addr(0xee), stored.Owner)
	require.Equal(t, uint64(500), stored.Reserve)
	require.Equal(t, []byte("hello"), stored.Data)
}

func TestInvokeDiscardsOnFailure(t *testing.T) {
	l := NewLedger(storage.NewMemDB())
	target := addr(0x01)
	require.NoError(t, l.SetAccount(&types.Account{Address: target, Owner: addr(0xee), Reserve: 900}))

	boom := errors.New("boom")
	err := l.Invoke(execFunc(func(accounts []*types.Account, _ []byte) error {
		accounts[0].Reserve = 0
		accounts[0].Data = []byte("scribbled")
		return boom
	}), []AccountMeta{{Address: target, Writable: true}}, nil)
	require.ErrorIs(t, err, boom)

	stored, err := l.GetAccount(target)
	require.NoError(t, err)
	require.Equal(t, uint64(900), stored.Reserve)
	require.Empty(t, stored.Data)
}

func TestInvokeDeduplicatesMetas(t *testing.T) {
	l := NewLedger(storage.NewMemDB())
	target := addr(0x01)

	err := l.Invoke(execFunc(func(accounts []*types.Account, _ []byte) error {
		require.Len(t, accounts, 2)
		require.Same(t, accounts[0], accounts[1])
		require.True(t, accounts[0].Signer)
		require.True(t, accounts[0].Writable)
		return nil
	}), []AccountMeta{
		{Address: target, Signer: true},
		{Address: target, Writable: true},
	}, nil)
	require.NoError(t, err)
}

func TestInvokeDeletesReleasedAccounts(t *testing.T) {
	l := NewLedger(storage.NewMemDB())
	target := addr(0x01)
	require.NoError(t, l.SetAccount(&types.Account{Address: target, Owner: addr(0xee), Reserve: 100, Data: []byte{1}}))

	err := l.Invoke(execFunc(func(accounts []*types.Account, _ []byte) error {
		accounts[0].Owner = types.SystemOwner
		accounts[0].Reserve = 0
		accounts[0].Data = nil
		return nil
	}), []AccountMeta{{Address: target, Writable: true}}, nil)
	require.NoError(t, err)

	_, err = l.GetAccount(target)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCreateBalanceIdempotent(t *testing.T) {
	token := NewTokenModule(DefaultRent)
	wallet, currency := addr(0x01), addr(0x02)

	payer := &types.Account{Address: addr(0x03), Reserve: 1 << 20}
	balance := &types.Account{Address: token.BalanceAddress(wallet, currency), Writable: true}

	require.NoError(t, token.CreateBalanceIdempotent(payer, balance, wallet, currency))
	reserveAfterFirst := payer.Reserve
	require.Less(t, reserveAfterFirst, uint64(1<<20))
	first := balance.Clone()

	// Second call is a no-op: no reserve charged, record unchanged.
	require.NoError(t, token.CreateBalanceIdempotent(payer, balance, wallet, currency))
	require.Equal(t, reserveAfterFirst, payer.Reserve)
	require.True(t, balance.Equal(first))
}

func TestCreateBalanceRejectsWrongAddress(t *testing.T) {
	token := NewTokenModule(DefaultRent)
	payer := &types.Account{Address: addr(0x03), Reserve: 1 << 20}
	balance := &types.Account{Address: addr(0x04), Writable: true}

	err := token.CreateBalanceIdempotent(payer, balance, addr(0x01), addr(0x02))
	require.ErrorIs(t, err, ErrBalanceMismatch)
}

func TestCreateBalanceRejectsForeignRecord(t *testing.T) {
	token := NewTokenModule(DefaultRent)
	wallet, currency := addr(0x01), addr(0x02)
	payer := &types.Account{Address: addr(0x03), Reserve: 1 << 20}

	// An account already holding a balance for a different pair must not
	// be silently accepted.
	balance := token.NewBalanceAccount(addr(0x05), currency, 10)
	err := token.CreateBalanceIdempotent(payer, balance, wallet, currency)
	require.ErrorIs(t, err, ErrBalanceMismatch)
}

func TestTransfer(t *testing.T) {
	token := NewTokenModule(DefaultRent)
	wallet, other, currency := addr(0x01), addr(0x02), addr(0x03)

	from := token.NewBalanceAccount(wallet, currency, 1_000)
	to := token.NewBalanceAccount(other, currency, 0)

	require.NoError(t, token.Transfer(from, to, wallet, 400))

	fromAmount, err := token.BalanceAmount(from)
	require.NoError(t, err)
	require.Equal(t, uint64(600), fromAmount)
	toAmount, err := token.BalanceAmount(to)
	require.NoError(t, err)
	require.Equal(t, uint64(400), toAmount)
}

func TestTransferRejectsInsufficientFunds(t *testing.T) {
	token := NewTokenModule(DefaultRent)
	wallet, other, currency := addr(0x01), addr(0x02), addr(0x03)

	from := token.NewBalanceAccount(wallet, currency, 100)
	to := token.NewBalanceAccount(other, currency, 0)

	err := token.Transfer(from, to, wallet, 101)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestTransferRejectsForeignAuthority(t *testing.T) {
	token := NewTokenModule(DefaultRent)
	wallet, other, currency := addr(0x01), addr(0x02), addr(0x03)

	from := token.NewBalanceAccount(wallet, currency, 100)
	to := token.NewBalanceAccount(other, currency, 0)

	err := token.Transfer(from, to, other, 10)
	require.ErrorIs(t, err, ErrBadAuthority)
}

func TestTransferRejectsCurrencyMismatch(t *testing.T) {
	token := NewTokenModule(DefaultRent)
	wallet, other := addr(0x01), addr(0x02)

	from := token.NewBalanceAccount(wallet, addr(0x03), 100)
	to := token.NewBalanceAccount(other, addr(0x04), 0)

	err := token.Transfer(from, to, wallet, 10)
	require.ErrorIs(t, err, ErrCurrencyMismatch)
}

// settlementFixture drives the commerce engine through the ledger, end to
// end over stored state.
type settlementFixture struct {
	t      *testing.T
	ledger *Ledger
	token  *TokenModule
	engine *commerce.Engine
	now    int64

	payer        types.Address
	merchantAuth types.Address
	operatorAuth types.Address
	wallet       types.Address
	buyer        types.Address
	currency     types.Address

	merchant types.Address
	operator types.Address
	config   types.Address
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	f := &settlementFixture{
		t:            t,
		ledger:       NewLedger(storage.NewMemDB()),
		token:        NewTokenModule(DefaultRent),
		now:          1_700_000_000,
		payer:        addr(0xfa),
		merchantAuth: addr(0x01),
		operatorAuth: addr(0x02),
		wallet:       addr(0x03),
		buyer:        addr(0x04),
		currency:     addr(0xc0),
	}
	f.engine = commerce.NewEngine(f.token, DefaultRent)
	f.engine.SetNowFunc(func() int64 { return f.now })

	require.NoError(t, f.ledger.SetAccount(NewCurrencyAccount(f.currency, 6, 1_000_000_000)))
	require.NoError(t, f.ledger.SetAccount(&types.Account{Address: f.payer, Reserve: 1 << 30}))
	require.NoError(t, f.ledger.SetAccount(f.token.NewBalanceAccount(f.buyer, f.currency, 1_000_000)))

	var err error
	f.merchant, _, err = commerce.MerchantAddress(f.merchantAuth)
	require.NoError(t, err)
	f.operator, _, err = commerce.OperatorAddress(f.operatorAuth)
	require.NoError(t, err)

	require.NoError(t, f.ledger.Invoke(f.engine, []AccountMeta{
		{Address: f.payer, Signer: true, Writable: true},
		{Address: f.merchantAuth, Signer: true},
		{Address: f.merchant, Writable: true},
		{Address: f.wallet},
		{Address: f.token.BalanceAddress(f.wallet, f.currency), Writable: true},
		{Address: f.token.BalanceAddress(f.merchant, f.currency), Writable: true},
		{Address: f.currency},
	}, commerce.EncodeCreateMerchant()))

	require.NoError(t, f.ledger.Invoke(f.engine, []AccountMeta{
		{Address: f.payer, Signer: true, Writable: true},
		{Address: f.operator, Writable: true},
		{Address: f.operatorAuth, Signer: true},
	}, commerce.EncodeCreateOperator()))

	f.config, _, err = commerce.ConfigAddress(f.merchant, f.operator, 1)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Invoke(f.engine, []AccountMeta{
		{Address: f.payer, Signer: true, Writable: true},
		{Address: f.merchantAuth, Signer: true},
		{Address: f.merchant},
		{Address: f.operator},
		{Address: f.config, Writable: true},
		{Address: f.currency},
	}, commerce.EncodeInitializeConfig(commerce.InitializeConfigArgs{
		Version:     1,
		OperatorFee: 500,
		FeeType:     commerce.FeeBps,
		DaysToClose: 1,
		Currencies:  []types.Address{f.currency},
	})))
	return f
}

func (f *settlementFixture) balanceOf(wallet types.Address) uint64 {
	f.t.Helper()
	acc, err := f.ledger.GetAccount(f.token.BalanceAddress(wallet, f.currency))
	require.NoError(f.t, err)
	amount, err := f.token.BalanceAmount(acc)
	require.NoError(f.t, err)
	return amount
}

func TestSettlementEndToEnd(t *testing.T) {
	f := newSettlementFixture(t)

	paymentAddr, _, err := commerce.PaymentAddress(f.config, f.buyer, f.currency, 0)
	require.NoError(t, err)

	require.NoError(t, f.ledger.Invoke(f.engine, []AccountMeta{
		{Address: f.payer, Signer: true, Writable: true},
		{Address: paymentAddr, Writable: true},
		{Address: f.operatorAuth, Signer: true},
		{Address: f.buyer, Signer: true},
		{Address: f.operator},
		{Address: f.merchant},
		{Address: f.config, Writable: true},
		{Address: f.currency},
		{Address: f.token.BalanceAddress(f.buyer, f.currency), Writable: true},
		{Address: f.token.BalanceAddress(f.merchant, f.currency), Writable: true},
		{Address: f.token.BalanceAddress(f.wallet, f.currency), Writable: true},
	}, commerce.EncodeMakePayment(commerce.MakePaymentArgs{OrderID: 0, Amount: 1_000_000})))

	require.Equal(t, uint64(0), f.balanceOf(f.buyer))
	require.Equal(t, uint64(1_000_000), f.balanceOf(f.merchant))

	paymentAcc, err := f.ledger.GetAccount(paymentAddr)
	require.NoError(t, err)
	payment, err := commerce.DecodePayment(paymentAcc.Data)
	require.NoError(t, err)
	require.Equal(t, commerce.StatusPaid, payment.Status)

	require.NoError(t, f.ledger.Invoke(f.engine, []AccountMeta{
		{Address: f.payer, Signer: true, Writable: true},
		{Address: paymentAddr, Writable: true},
		{Address: f.operatorAuth, Signer: true},
		{Address: f.buyer},
		{Address: f.merchant},
		{Address: f.operator},
		{Address: f.config},
		{Address: f.currency},
		{Address: f.token.BalanceAddress(f.merchant, f.currency), Writable: true},
		{Address: f.token.BalanceAddress(f.wallet, f.currency), Writable: true},
		{Address: f.token.BalanceAddress(f.operatorAuth, f.currency), Writable: true},
	}, commerce.EncodeClearPayment()))

	// 5% operator fee on 1_000_000: escrow fully drained.
	require.Equal(t, uint64(950_000), f.balanceOf(f.wallet))
	require.Equal(t, uint64(50_000), f.balanceOf(f.operatorAuth))
	require.Equal(t, uint64(0), f.balanceOf(f.merchant))

	paymentAcc, err = f.ledger.GetAccount(paymentAddr)
	require.NoError(t, err)
	payment, err = commerce.DecodePayment(paymentAcc.Data)
	require.NoError(t, err)
	require.Equal(t, commerce.StatusCleared, payment.Status)

	// Close after the aging window: the record is gone and the reserve is
	// back with the payer.
	f.now += commerce.SecondsPerDay
	payerBefore, err := f.ledger.GetAccount(f.payer)
	require.NoError(t, err)

	require.NoError(t, f.ledger.Invoke(f.engine, []AccountMeta{
		{Address: f.payer, Signer: true, Writable: true},
		{Address: paymentAddr, Writable: true},
		{Address: f.operatorAuth, Signer: true},
		{Address: f.operator},
		{Address: f.merchant},
		{Address: f.buyer},
		{Address: f.config},
		{Address: f.currency},
	}, commerce.EncodeClosePayment()))

	_, err = f.ledger.GetAccount(paymentAddr)
	require.ErrorIs(t, err, ErrAccountNotFound)

	payerAfter, err := f.ledger.GetAccount(f.payer)
	require.NoError(t, err)
	require.Greater(t, payerAfter.Reserve, payerBefore.Reserve)
}

func TestFailedInstructionLeavesStateUntouched(t *testing.T) {
	f := newSettlementFixture(t)

	paymentAddr, _, err := commerce.PaymentAddress(f.config, f.buyer, f.currency, 7)
	require.NoError(t, err)

	// Wrong order id: the fence rejects, and nothing is persisted.
	err = f.ledger.Invoke(f.engine, []AccountMeta{
		{Address: f.payer, Signer: true, Writable: true},
		{Address: paymentAddr, Writable: true},
		{Address: f.operatorAuth, Signer: true},
		{Address: f.buyer, Signer: true},
		{Address: f.operator},
		{Address: f.merchant},
		{Address: f.config, Writable: true},
		{Address: f.currency},
		{Address: f.token.BalanceAddress(f.buyer, f.currency), Writable: true},
		{Address: f.token.BalanceAddress(f.merchant, f.currency), Writable: true},
		{Address: f.token.BalanceAddress(f.wallet, f.currency), Writable: true},
	}, commerce.EncodeMakePayment(commerce.MakePaymentArgs{OrderID: 7, Amount: 1_000}))
	require.ErrorIs(t, err, commerce.ErrOrderIDInvalid)

	require.Equal(t, uint64(1_000_000), f.balanceOf(f.buyer))
	_, err = f.ledger.GetAccount(paymentAddr)
	require.ErrorIs(t, err, ErrAccountNotFound)
}
