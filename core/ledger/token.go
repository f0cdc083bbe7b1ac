package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"commerceledger/core/types"
	"commerceledger/crypto"
)

// TokenModuleID is the token module's fixed ledger identity. Currency and
// balance records live under its custody.
var TokenModuleID = crypto.ModuleAddress("token")

// SeedBalance derives balance account addresses from (wallet, currency).
const SeedBalance = "balance"

const (
	// wallet(32) || currency(32) || amount(8)
	balanceRecordLen = 32 + 32 + 8
	// decimals(1) || supply(8)
	currencyRecordLen = 1 + 8
)

var (
	ErrNotCurrency       = errors.New("ledger: not a currency account")
	ErrNotBalance        = errors.New("ledger: not a balance account")
	ErrBalanceMismatch   = errors.New("ledger: balance account does not match wallet and currency")
	ErrCurrencyMismatch  = errors.New("ledger: transfer between different currencies")
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrBadAuthority      = errors.New("ledger: transfer authority is not the balance owner")
)

// TokenModule is the ledger's native token service. It satisfies the
// commerce engine's token collaborator interface.
type TokenModule struct {
	rent RentModel
}

// RentModel prices the reserve backing an account's storage.
type RentModel interface {
	MinimumReserve(space int) uint64
}

// NewTokenModule wires the token service to a rent model.
func NewTokenModule(rent RentModel) *TokenModule {
	return &TokenModule{rent: rent}
}

// BalanceAddress returns the canonical balance account address for a
// (wallet, currency) pair.
func (t *TokenModule) BalanceAddress(wallet, currency types.Address) types.Address {
	addr, _, err := crypto.DeriveAddress(TokenModuleID, []byte(SeedBalance), wallet[:], currency[:])
	if err != nil {
		// Unreachable for fixed-length seeds; the zero address can never
		// match a real account.
		return types.Address{}
	}
	return addr
}

// VerifyCurrency checks that the account holds an initialized currency
// record under the token module's custody.
func (t *TokenModule) VerifyCurrency(acc *types.Account) error {
	if acc.Owner != TokenModuleID || len(acc.Data) != currencyRecordLen {
		return fmt.Errorf("%w: %s", ErrNotCurrency, acc.Address)
	}
	return nil
}

// Transfer moves amount between two balance accounts of the same currency.
// The authority must be the wallet owning the source balance.
func (t *TokenModule) Transfer(from, to *types.Account, authority types.Address, amount uint64) error {
	fromWallet, fromCurrency, fromAmount, err := decodeBalance(from)
	if err != nil {
		return err
	}
	toWallet, toCurrency, toAmount, err := decodeBalance(to)
	if err != nil {
		return err
	}
	if fromWallet != authority {
		return fmt.Errorf("%w: %s", ErrBadAuthority, authority)
	}
	if fromCurrency != toCurrency {
		return ErrCurrencyMismatch
	}
	if fromAmount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, fromAmount, amount)
	}
	writeBalance(from, fromWallet, fromCurrency, fromAmount-amount)
	writeBalance(to, toWallet, toCurrency, toAmount+amount)
	return nil
}

// CreateBalanceIdempotent initialises a balance account for the pair,
// funding its reserve from the payer. An existing balance for the same
// pair is left untouched; an account holding anything else is rejected.
func (t *TokenModule) CreateBalanceIdempotent(payer, balance *types.Account, wallet, currency types.Address) error {
	if balance.Initialized() {
		gotWallet, gotCurrency, _, err := decodeBalance(balance)
		if err != nil {
			return err
		}
		if gotWallet != wallet || gotCurrency != currency {
			return fmt.Errorf("%w: %s", ErrBalanceMismatch, balance.Address)
		}
		return nil
	}
	if balance.Address != t.BalanceAddress(wallet, currency) {
		return fmt.Errorf("%w: %s", ErrBalanceMismatch, balance.Address)
	}
	minimum := t.rent.MinimumReserve(balanceRecordLen)
	if payer.Reserve < minimum {
		return fmt.Errorf("%w: reserve %d below %d", ErrInsufficientFunds, payer.Reserve, minimum)
	}
	payer.Reserve -= minimum
	balance.Reserve += minimum
	balance.Owner = TokenModuleID
	writeBalance(balance, wallet, currency, 0)
	return nil
}

// BalanceAmount reads the amount out of a balance account.
func (t *TokenModule) BalanceAmount(acc *types.Account) (uint64, error) {
	_, _, amount, err := decodeBalance(acc)
	return amount, err
}

// NewCurrencyAccount builds an initialized currency record, for genesis
// seeding and tests.
func NewCurrencyAccount(addr types.Address, decimals uint8, supply uint64) *types.Account {
	data := make([]byte, currencyRecordLen)
	data[0] = decimals
	binary.LittleEndian.PutUint64(data[1:], supply)
	return &types.Account{Address: addr, Owner: TokenModuleID, Data: data}
}

// NewBalanceAccount builds an initialized balance record at its canonical
// address, for genesis seeding and tests.
func (t *TokenModule) NewBalanceAccount(wallet, currency types.Address, amount uint64) *types.Account {
	acc := &types.Account{
		Address: t.BalanceAddress(wallet, currency),
		Owner:   TokenModuleID,
	}
	writeBalance(acc, wallet, currency, amount)
	return acc
}

func decodeBalance(acc *types.Account) (wallet, currency types.Address, amount uint64, err error) {
	if acc.Owner != TokenModuleID || len(acc.Data) != balanceRecordLen {
		return wallet, currency, 0, fmt.Errorf("%w: %s", ErrNotBalance, acc.Address)
	}
	copy(wallet[:], acc.Data[0:32])
	copy(currency[:], acc.Data[32:64])
	amount = binary.LittleEndian.Uint64(acc.Data[64:72])
	return wallet, currency, amount, nil
}

func writeBalance(acc *types.Account, wallet, currency types.Address, amount uint64) {
	data := make([]byte, balanceRecordLen)
	copy(data[0:32], wallet[:])
	copy(data[32:64], currency[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	acc.Data = data
}
