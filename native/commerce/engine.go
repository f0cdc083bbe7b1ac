package commerce

import (
	"fmt"
	"math"
	"time"

	"commerceledger/core/events"
	"commerceledger/core/types"
)

// TokenService is the token collaborator the engine settles through. The
// ledger's token module implements it; tests supply mocks.
type TokenService interface {
	// BalanceAddress returns the canonical balance account address for a
	// (wallet, currency) pair.
	BalanceAddress(wallet, currency types.Address) types.Address
	// VerifyCurrency checks that the account is an initialized currency
	// record under the token module's custody.
	VerifyCurrency(acc *types.Account) error
	// Transfer moves amount between two balance accounts. The authority
	// must be the wallet that owns the source balance.
	Transfer(from, to *types.Account, authority types.Address, amount uint64) error
	// CreateBalanceIdempotent initialises a balance account for the pair,
	// funding its reserve from the payer. An already existing balance for
	// the same pair is left untouched.
	CreateBalanceIdempotent(payer, balance *types.Account, wallet, currency types.Address) error
}

// RentModel prices the reserve an account must carry for its storage.
type RentModel interface {
	MinimumReserve(space int) uint64
}

// Engine executes commerce instructions against account snapshots. It is
// stateless between invocations; everything it reads and writes arrives
// through the account list.
type Engine struct {
	token   TokenService
	rent    RentModel
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine wires an engine to its token and rent collaborators.
func NewEngine(token TokenService, rent RentModel) *Engine {
	return &Engine{
		token:   token,
		rent:    rent,
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetEmitter installs the event sink. Passing nil restores the no-op sink.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// SetNowFunc overrides the timestamp source. Primarily used by tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	e.nowFn = now
}

func (e *Engine) now() int64 { return e.nowFn() }

// Execute runs one instruction. Account buffers are validated exhaustively
// before any mutation; the runtime commits the mutated set only when
// Execute returns nil.
func (e *Engine) Execute(accounts []*types.Account, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty payload", ErrMalformedInstructionData)
	}
	args := data[1:]
	switch data[0] {
	case OpCreateMerchant:
		return e.processCreateMerchant(accounts)
	case OpCreateOperator:
		return e.processCreateOperator(accounts)
	case OpInitializeConfig:
		return e.processInitializeConfig(accounts, args)
	case OpMakePayment:
		return e.processMakePayment(accounts, args)
	case OpClearPayment:
		return e.processClearPayment(accounts)
	case OpRefundPayment:
		return e.processRefundPayment(accounts)
	case OpChargebackPayment:
		return e.processChargebackPayment(accounts)
	case OpUpdateMerchantSettlementWallet:
		return e.processUpdateMerchantSettlementWallet(accounts)
	case OpUpdateMerchantAuthority:
		return e.processUpdateMerchantAuthority(accounts)
	case OpUpdateOperatorAuthority:
		return e.processUpdateOperatorAuthority(accounts)
	case OpClosePayment:
		return e.processClosePayment(accounts)
	case OpEmitEvent:
		return e.processEmitEvent(accounts)
	}
	return fmt.Errorf("%w: %d", ErrUnknownInstruction, data[0])
}

// createRecordAccount claims an unclaimed account for the program, funding
// its reserve from the payer. Callers write the record bytes afterwards.
func (e *Engine) createRecordAccount(payer, target *types.Account, space int) error {
	minimum := e.rent.MinimumReserve(space)
	if payer.Reserve < minimum {
		return fmt.Errorf("%w: need %d", ErrInsufficientReserve, minimum)
	}
	payer.Reserve -= minimum
	target.Reserve += minimum
	target.Owner = ProgramID
	return nil
}

// verifyBalanceAccount pins a supplied balance account to the canonical
// address for its (wallet, currency) pair.
func (e *Engine) verifyBalanceAccount(acc *types.Account, wallet, currency types.Address) error {
	if acc.Address != e.token.BalanceAddress(wallet, currency) {
		return ErrInvalidBalanceAccount
	}
	return nil
}

// CreateMerchant accounts: payer, authority, merchant, settlementWallet,
// then one (settlementBalance, escrowBalance, currency) triple per
// bootstrap currency.
func (e *Engine) processCreateMerchant(accounts []*types.Account) error {
	const fixed = 4
	if len(accounts) < fixed || (len(accounts)-fixed)%3 != 0 {
		return ErrNotEnoughAccounts
	}
	payer, authority, merchantAcc, wallet := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(authority, false); err != nil {
		return err
	}
	if err := verifyUninitialized(merchantAcc, true); err != nil {
		return err
	}

	addr, bump, err := MerchantAddress(authority.Address)
	if err != nil {
		return err
	}
	if addr != merchantAcc.Address {
		return ErrMerchantInvalidDerivation
	}

	if err := e.createRecordAccount(payer, merchantAcc, MerchantRecordLen); err != nil {
		return err
	}
	merchant := &Merchant{
		Owner:            authority.Address,
		Bump:             bump,
		SettlementWallet: wallet.Address,
	}
	merchantAcc.Data = EncodeMerchant(merchant)

	// Bootstrap balance accounts so first settlement and escrow transfers
	// need no further setup.
	for i := fixed; i < len(accounts); i += 3 {
		settlementBal, escrowBal, currency := accounts[i], accounts[i+1], accounts[i+2]
		if err := e.token.VerifyCurrency(currency); err != nil {
			return err
		}
		if err := e.verifyBalanceAccount(settlementBal, wallet.Address, currency.Address); err != nil {
			return err
		}
		if err := e.token.CreateBalanceIdempotent(payer, settlementBal, wallet.Address, currency.Address); err != nil {
			return err
		}
		if err := e.verifyBalanceAccount(escrowBal, merchantAcc.Address, currency.Address); err != nil {
			return err
		}
		if err := e.token.CreateBalanceIdempotent(payer, escrowBal, merchantAcc.Address, currency.Address); err != nil {
			return err
		}
	}
	return nil
}

// CreateOperator accounts: payer, operator, authority.
func (e *Engine) processCreateOperator(accounts []*types.Account) error {
	if len(accounts) < 3 {
		return ErrNotEnoughAccounts
	}
	payer, operatorAcc, authority := accounts[0], accounts[1], accounts[2]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(authority, false); err != nil {
		return err
	}
	if err := verifyUninitialized(operatorAcc, true); err != nil {
		return err
	}

	addr, bump, err := OperatorAddress(authority.Address)
	if err != nil {
		return err
	}
	if addr != operatorAcc.Address {
		return ErrOperatorInvalidDerivation
	}

	if err := e.createRecordAccount(payer, operatorAcc, OperatorRecordLen); err != nil {
		return err
	}
	operatorAcc.Data = EncodeOperator(&Operator{Owner: authority.Address, Bump: bump})
	return nil
}

// InitializeConfig accounts: payer, authority, merchant, operator, config,
// then one currency account per accepted currency, in payload order.
func (e *Engine) processInitializeConfig(accounts []*types.Account, data []byte) error {
	args, err := parseInitializeConfigArgs(data)
	if err != nil {
		return err
	}
	if len(args.Currencies) == 0 {
		return ErrAcceptedCurrenciesEmpty
	}
	seen := make(map[types.Address]struct{}, len(args.Currencies))
	for _, currency := range args.Currencies {
		if _, dup := seen[currency]; dup {
			return ErrDuplicateCurrency
		}
		seen[currency] = struct{}{}
	}

	const fixed = 5
	if len(accounts) < fixed+len(args.Currencies) {
		return ErrNotEnoughAccounts
	}
	payer, authority := accounts[0], accounts[1]
	merchantAcc, operatorAcc, configAcc := accounts[2], accounts[3], accounts[4]
	currencyAccs := accounts[fixed : fixed+len(args.Currencies)]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(authority, false); err != nil {
		return err
	}
	if err := verifyUninitialized(configAcc, true); err != nil {
		return err
	}

	merchant, err := loadMerchant(merchantAcc, false)
	if err != nil {
		return err
	}
	if _, err := loadOperator(operatorAcc, false); err != nil {
		return err
	}
	// Only the merchant side may bind itself to an operator.
	if err := merchant.VerifyOwner(authority.Address); err != nil {
		return err
	}

	for i, acc := range currencyAccs {
		if acc.Address != args.Currencies[i] {
			return ErrInvalidCurrency
		}
		if err := e.token.VerifyCurrency(acc); err != nil {
			return err
		}
	}

	addr, bump, err := ConfigAddress(merchantAcc.Address, operatorAcc.Address, args.Version)
	if err != nil {
		return err
	}
	if addr != configAcc.Address {
		return ErrConfigInvalidDerivation
	}

	space := ConfigRecordSize(len(args.Policies), len(args.Currencies))
	if err := e.createRecordAccount(payer, configAcc, space); err != nil {
		return err
	}
	config := &MerchantOperatorConfig{
		Version:        args.Version,
		Bump:           bump,
		Merchant:       merchantAcc.Address,
		Operator:       operatorAcc.Address,
		OperatorFee:    args.OperatorFee,
		FeeType:        args.FeeType,
		CurrentOrderID: 0,
		DaysToClose:    args.DaysToClose,
	}
	configAcc.Data = EncodeConfig(config, args.Policies, args.Currencies)
	return nil
}

// MakePayment accounts: payer, payment, operatorAuthority, buyer,
// operator, merchant, config, currency, buyerBalance, escrowBalance,
// settlementBalance.
func (e *Engine) processMakePayment(accounts []*types.Account, data []byte) error {
	args, err := parseMakePaymentArgs(data)
	if err != nil {
		return err
	}
	if len(accounts) < 11 {
		return ErrNotEnoughAccounts
	}
	payer, paymentAcc, operatorAuthority, buyer := accounts[0], accounts[1], accounts[2], accounts[3]
	operatorAcc, merchantAcc, configAcc, currency := accounts[4], accounts[5], accounts[6], accounts[7]
	buyerBal, escrowBal, settlementBal := accounts[8], accounts[9], accounts[10]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(operatorAuthority, false); err != nil {
		return err
	}
	if err := verifySigner(buyer, false); err != nil {
		return err
	}
	if err := verifyUninitialized(paymentAcc, true); err != nil {
		return err
	}

	operator, err := loadOperator(operatorAcc, false)
	if err != nil {
		return err
	}
	if err := operator.VerifyOwner(operatorAuthority.Address); err != nil {
		return err
	}
	merchant, err := loadMerchant(merchantAcc, false)
	if err != nil {
		return err
	}
	config, policies, currencies, err := loadConfig(configAcc, true)
	if err != nil {
		return err
	}
	if err := config.VerifyParticipants(operatorAcc.Address, merchantAcc.Address); err != nil {
		return err
	}
	if err := config.VerifyOrderID(args.OrderID); err != nil {
		return err
	}
	if !containsCurrency(currencies, currency.Address) {
		return ErrInvalidCurrency
	}
	if err := e.token.VerifyCurrency(currency); err != nil {
		return err
	}

	addr, bump, err := PaymentAddress(configAcc.Address, buyer.Address, currency.Address, args.OrderID)
	if err != nil {
		return err
	}
	if addr != paymentAcc.Address {
		return ErrPaymentInvalidDerivation
	}

	if err := e.verifyBalanceAccount(buyerBal, buyer.Address, currency.Address); err != nil {
		return err
	}

	// Auto settlement skips escrow entirely: funds land in the merchant's
	// settlement wallet and the payment starts out Cleared.
	status := StatusPaid
	destination := escrowBal
	if AutoSettle(policies) {
		if err := e.verifyBalanceAccount(settlementBal, merchant.SettlementWallet, currency.Address); err != nil {
			return err
		}
		status = StatusCleared
		destination = settlementBal
	} else {
		if err := e.verifyBalanceAccount(escrowBal, merchantAcc.Address, currency.Address); err != nil {
			return err
		}
	}

	if err := e.token.Transfer(buyerBal, destination, buyer.Address, args.Amount); err != nil {
		return err
	}

	if err := e.createRecordAccount(payer, paymentAcc, PaymentRecordLen); err != nil {
		return err
	}
	payment := &Payment{
		OrderID:   args.OrderID,
		Amount:    args.Amount,
		CreatedAt: e.now(),
		Status:    status,
		Bump:      bump,
	}
	paymentAcc.Data = EncodePayment(payment)

	if config.CurrentOrderID == math.MaxUint32 {
		return ErrArithmeticOverflow
	}
	config.CurrentOrderID++
	configAcc.Data = EncodeConfig(config, policies, currencies)

	e.emitter.Emit(PaymentCreatedEvent{
		Buyer:    buyer.Address,
		Merchant: merchantAcc.Address,
		Operator: operatorAcc.Address,
		Amount:   args.Amount,
		OrderID:  args.OrderID,
	})
	return nil
}

// ClearPayment accounts: payer, payment, operatorAuthority, buyer,
// merchant, operator, config, currency, escrowBalance, settlementBalance,
// operatorSettlementBalance.
func (e *Engine) processClearPayment(accounts []*types.Account) error {
	if len(accounts) < 11 {
		return ErrNotEnoughAccounts
	}
	payer, paymentAcc, operatorAuthority, buyer := accounts[0], accounts[1], accounts[2], accounts[3]
	merchantAcc, operatorAcc, configAcc, currency := accounts[4], accounts[5], accounts[6], accounts[7]
	escrowBal, settlementBal, operatorBal := accounts[8], accounts[9], accounts[10]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(operatorAuthority, false); err != nil {
		return err
	}

	operator, err := loadOperator(operatorAcc, false)
	if err != nil {
		return err
	}
	if err := operator.VerifyOwner(operatorAuthority.Address); err != nil {
		return err
	}
	merchant, err := loadMerchant(merchantAcc, false)
	if err != nil {
		return err
	}
	config, policies, currencies, err := loadConfig(configAcc, false)
	if err != nil {
		return err
	}
	if err := config.VerifyParticipants(operatorAcc.Address, merchantAcc.Address); err != nil {
		return err
	}
	if !containsCurrency(currencies, currency.Address) {
		return ErrInvalidCurrency
	}

	payment, err := loadPayment(paymentAcc, true)
	if err != nil {
		return err
	}
	if err := payment.VerifyStatus(StatusPaid); err != nil {
		return err
	}
	if err := payment.VerifyDerivation(paymentAcc.Address, configAcc.Address, buyer.Address, currency.Address); err != nil {
		return err
	}
	if err := CheckSettlementPolicy(policies, payment, e.now()); err != nil {
		return err
	}

	if err := e.verifyBalanceAccount(escrowBal, merchantAcc.Address, currency.Address); err != nil {
		return err
	}
	if err := e.verifyBalanceAccount(settlementBal, merchant.SettlementWallet, currency.Address); err != nil {
		return err
	}

	operatorFee, merchantAmount, err := SplitFee(payment.Amount, config.OperatorFee, config.FeeType)
	if err != nil {
		return err
	}

	// The merchant record address custodies the escrow balance, so it is
	// the authority for both outbound transfers.
	if operatorFee > 0 {
		if err := e.verifyBalanceAccount(operatorBal, operatorAuthority.Address, currency.Address); err != nil {
			return err
		}
		if err := e.token.CreateBalanceIdempotent(payer, operatorBal, operatorAuthority.Address, currency.Address); err != nil {
			return err
		}
		if err := e.token.Transfer(escrowBal, operatorBal, merchantAcc.Address, operatorFee); err != nil {
			return err
		}
	}
	if err := e.token.Transfer(escrowBal, settlementBal, merchantAcc.Address, merchantAmount); err != nil {
		return err
	}

	payment.Status = StatusCleared
	paymentAcc.Data = EncodePayment(payment)

	e.emitter.Emit(PaymentClearedEvent{
		Buyer:       buyer.Address,
		Merchant:    merchantAcc.Address,
		Operator:    operatorAcc.Address,
		Amount:      payment.Amount,
		OperatorFee: operatorFee,
		OrderID:     payment.OrderID,
	})
	return nil
}

// RefundPayment accounts: payer, payment, operatorAuthority, buyer,
// merchant, operator, config, currency, escrowBalance, buyerBalance.
func (e *Engine) processRefundPayment(accounts []*types.Account) error {
	if len(accounts) < 10 {
		return ErrNotEnoughAccounts
	}
	payer, paymentAcc, operatorAuthority, buyer := accounts[0], accounts[1], accounts[2], accounts[3]
	merchantAcc, operatorAcc, configAcc, currency := accounts[4], accounts[5], accounts[6], accounts[7]
	escrowBal, buyerBal := accounts[8], accounts[9]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(operatorAuthority, false); err != nil {
		return err
	}

	operator, err := loadOperator(operatorAcc, false)
	if err != nil {
		return err
	}
	if err := operator.VerifyOwner(operatorAuthority.Address); err != nil {
		return err
	}
	if _, err := loadMerchant(merchantAcc, false); err != nil {
		return err
	}
	config, policies, _, err := loadConfig(configAcc, false)
	if err != nil {
		return err
	}
	if err := config.VerifyParticipants(operatorAcc.Address, merchantAcc.Address); err != nil {
		return err
	}

	payment, err := loadPayment(paymentAcc, true)
	if err != nil {
		return err
	}
	if err := payment.VerifyStatus(StatusPaid); err != nil {
		return err
	}
	// The currency needs no accepted-set check here: the derivation below
	// already binds the payment to it.
	if err := payment.VerifyDerivation(paymentAcc.Address, configAcc.Address, buyer.Address, currency.Address); err != nil {
		return err
	}
	if err := CheckRefundPolicy(policies, payment, e.now()); err != nil {
		return err
	}

	if err := e.verifyBalanceAccount(escrowBal, merchantAcc.Address, currency.Address); err != nil {
		return err
	}
	if err := e.verifyBalanceAccount(buyerBal, buyer.Address, currency.Address); err != nil {
		return err
	}

	if err := e.token.Transfer(escrowBal, buyerBal, merchantAcc.Address, payment.Amount); err != nil {
		return err
	}

	payment.Status = StatusRefunded
	paymentAcc.Data = EncodePayment(payment)

	e.emitter.Emit(PaymentRefundedEvent{
		Buyer:    buyer.Address,
		Merchant: merchantAcc.Address,
		Operator: operatorAcc.Address,
		Amount:   payment.Amount,
		OrderID:  payment.OrderID,
	})
	return nil
}

// ChargebackPayment is a reserved placeholder. It validates nothing and
// mutates nothing.
func (e *Engine) processChargebackPayment(accounts []*types.Account) error {
	_ = accounts
	return nil
}

// UpdateMerchantSettlementWallet accounts: payer, authority, merchant,
// newSettlementWallet, then one (settlementBalance, currency) pair per
// bootstrap currency.
func (e *Engine) processUpdateMerchantSettlementWallet(accounts []*types.Account) error {
	const fixed = 4
	if len(accounts) < fixed || (len(accounts)-fixed)%2 != 0 {
		return ErrNotEnoughAccounts
	}
	payer, authority, merchantAcc, newWallet := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(authority, false); err != nil {
		return err
	}

	merchant, err := loadMerchant(merchantAcc, true)
	if err != nil {
		return err
	}
	if err := merchant.VerifyOwner(authority.Address); err != nil {
		return err
	}

	// The new wallet gets its settlement balances up front so clearing
	// never stalls on a missing account.
	for i := fixed; i < len(accounts); i += 2 {
		balance, currency := accounts[i], accounts[i+1]
		if err := e.token.VerifyCurrency(currency); err != nil {
			return err
		}
		if err := e.verifyBalanceAccount(balance, newWallet.Address, currency.Address); err != nil {
			return err
		}
		if err := e.token.CreateBalanceIdempotent(payer, balance, newWallet.Address, currency.Address); err != nil {
			return err
		}
	}

	merchant.SettlementWallet = newWallet.Address
	merchantAcc.Data = EncodeMerchant(merchant)
	return nil
}

// UpdateMerchantAuthority accounts: payer, authority, merchant,
// newAuthority. The record address stays bound to the original owner;
// only the stored owner changes.
func (e *Engine) processUpdateMerchantAuthority(accounts []*types.Account) error {
	if len(accounts) < 4 {
		return ErrNotEnoughAccounts
	}
	payer, authority, merchantAcc, newAuthority := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(authority, false); err != nil {
		return err
	}

	merchant, err := loadMerchant(merchantAcc, true)
	if err != nil {
		return err
	}
	if err := merchant.VerifyOwner(authority.Address); err != nil {
		return err
	}

	merchant.Owner = newAuthority.Address
	merchantAcc.Data = EncodeMerchant(merchant)
	return nil
}

// UpdateOperatorAuthority accounts: payer, authority, operator,
// newAuthority.
func (e *Engine) processUpdateOperatorAuthority(accounts []*types.Account) error {
	if len(accounts) < 4 {
		return ErrNotEnoughAccounts
	}
	payer, authority, operatorAcc, newAuthority := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(authority, false); err != nil {
		return err
	}

	operator, err := loadOperator(operatorAcc, true)
	if err != nil {
		return err
	}
	if err := operator.VerifyOwner(authority.Address); err != nil {
		return err
	}

	operator.Owner = newAuthority.Address
	operatorAcc.Data = EncodeOperator(operator)
	return nil
}

// ClosePayment accounts: payer, payment, operatorAuthority, operator,
// merchant, buyer, config, currency. The record's reserve sweeps back to
// the payer and the account returns to the system namespace.
func (e *Engine) processClosePayment(accounts []*types.Account) error {
	if len(accounts) < 8 {
		return ErrNotEnoughAccounts
	}
	payer, paymentAcc, operatorAuthority, operatorAcc := accounts[0], accounts[1], accounts[2], accounts[3]
	merchantAcc, buyer, configAcc, currency := accounts[4], accounts[5], accounts[6], accounts[7]

	if err := verifySigner(payer, true); err != nil {
		return err
	}
	if err := verifySigner(operatorAuthority, false); err != nil {
		return err
	}

	operator, err := loadOperator(operatorAcc, false)
	if err != nil {
		return err
	}
	if err := operator.VerifyOwner(operatorAuthority.Address); err != nil {
		return err
	}
	if _, err := loadMerchant(merchantAcc, false); err != nil {
		return err
	}
	config, _, _, err := loadConfig(configAcc, false)
	if err != nil {
		return err
	}
	if err := config.VerifyParticipants(operatorAcc.Address, merchantAcc.Address); err != nil {
		return err
	}

	payment, err := loadPayment(paymentAcc, true)
	if err != nil {
		return err
	}
	if err := payment.VerifyCanClose(config.DaysToClose, e.now()); err != nil {
		return err
	}
	if err := payment.VerifyDerivation(paymentAcc.Address, configAcc.Address, buyer.Address, currency.Address); err != nil {
		return err
	}

	if payer.Reserve > math.MaxUint64-paymentAcc.Reserve {
		return ErrArithmeticOverflow
	}
	payer.Reserve += paymentAcc.Reserve
	paymentAcc.Reserve = 0
	paymentAcc.Data = nil
	paymentAcc.Owner = types.SystemOwner
	return nil
}

// EmitEvent is the reserved self-invocation sink. The engine hands events
// to its emitter directly, so a valid self-call is a no-op; anything else
// is rejected.
func (e *Engine) processEmitEvent(accounts []*types.Account) error {
	if len(accounts) < 1 {
		return ErrNotEnoughAccounts
	}
	eventAuthority := accounts[0]
	addr, _, err := EventAuthority()
	if err != nil {
		return err
	}
	if eventAuthority.Address != addr {
		return ErrInvalidEventAuthority
	}
	if !eventAuthority.Signer {
		return fmt.Errorf("%w: %s", ErrMissingSignature, eventAuthority.Address)
	}
	return nil
}
