package commerce

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable numeric code surfaced to callers for every
// domain failure. Codes are wire-stable: they never renumber.
type ErrorCode uint32

const (
	CodeInvalidCurrency ErrorCode = iota
	CodeInvalidPaymentStatus
	CodeInsufficientSettlementAmount
	CodeSettlementTooEarly
	CodeRefundExceedsPolicyLimit
	CodeRefundWindowExpired
	CodeInvalidEventAuthority
	CodeInvalidBalanceAccount
	CodePaymentCloseWindowNotReached
	CodeMerchantOwnerMismatch
	CodeMerchantInvalidDerivation
	CodeOperatorOwnerMismatch
	CodeOperatorInvalidDerivation
	CodeOperatorMismatch
	CodeMerchantMismatch
	CodeOrderIDInvalid
	CodeConfigInvalidDerivation
	CodeAcceptedCurrenciesEmpty
	CodeDuplicateCurrency
	CodePaymentInvalidDerivation
)

// Error is a terminal domain failure with a stable code. Invocations fail
// atomically on the first one raised; nothing is retried or defaulted.
type Error struct {
	Code ErrorCode
	msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("commerce: %s (code %d)", e.msg, e.Code) }

// Is matches two domain errors by code so errors.Is works against the
// package sentinels below.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func newError(code ErrorCode, msg string) *Error { return &Error{Code: code, msg: msg} }

var (
	ErrInvalidCurrency              = newError(CodeInvalidCurrency, "currency not accepted for this relationship")
	ErrInvalidPaymentStatus         = newError(CodeInvalidPaymentStatus, "invalid payment status for the operation")
	ErrInsufficientSettlementAmount = newError(CodeInsufficientSettlementAmount, "payment below minimum settlement amount")
	ErrSettlementTooEarly           = newError(CodeSettlementTooEarly, "settlement attempted too early")
	ErrRefundExceedsPolicyLimit     = newError(CodeRefundExceedsPolicyLimit, "refund amount exceeds policy limit")
	ErrRefundWindowExpired          = newError(CodeRefundWindowExpired, "refund window expired")
	ErrInvalidEventAuthority        = newError(CodeInvalidEventAuthority, "invalid event authority")
	ErrInvalidBalanceAccount        = newError(CodeInvalidBalanceAccount, "balance account does not match wallet and currency")
	ErrCloseWindowNotReached        = newError(CodePaymentCloseWindowNotReached, "payment close window not reached")
	ErrMerchantOwnerMismatch        = newError(CodeMerchantOwnerMismatch, "merchant owner does not match authority")
	ErrMerchantInvalidDerivation    = newError(CodeMerchantInvalidDerivation, "merchant account address derivation mismatch")
	ErrOperatorOwnerMismatch        = newError(CodeOperatorOwnerMismatch, "operator owner does not match authority")
	ErrOperatorInvalidDerivation    = newError(CodeOperatorInvalidDerivation, "operator account address derivation mismatch")
	ErrOperatorMismatch             = newError(CodeOperatorMismatch, "operator does not match config operator")
	ErrMerchantMismatch             = newError(CodeMerchantMismatch, "merchant does not match config merchant")
	ErrOrderIDInvalid               = newError(CodeOrderIDInvalid, "order id does not match the next expected counter")
	ErrConfigInvalidDerivation      = newError(CodeConfigInvalidDerivation, "config account address derivation mismatch")
	ErrAcceptedCurrenciesEmpty      = newError(CodeAcceptedCurrenciesEmpty, "accepted currencies must not be empty")
	ErrDuplicateCurrency            = newError(CodeDuplicateCurrency, "duplicate currency in accepted set")
	ErrPaymentInvalidDerivation     = newError(CodePaymentInvalidDerivation, "payment account address derivation mismatch")
)

// Structural and custody failures raised before any record is interpreted.
// They carry no domain code; the runtime reports them verbatim.
var (
	ErrMissingSignature          = errors.New("commerce: missing required signature")
	ErrAccountNotWritable        = errors.New("commerce: account not writable")
	ErrInvalidAccountOwner       = errors.New("commerce: account custody mismatch")
	ErrAccountAlreadyInitialized = errors.New("commerce: account already initialized")
	ErrNotEnoughAccounts         = errors.New("commerce: not enough accounts supplied")
	ErrMalformedRecord           = errors.New("commerce: malformed record")
	ErrMalformedInstructionData  = errors.New("commerce: malformed instruction payload")
	ErrUnknownInstruction        = errors.New("commerce: unknown instruction discriminator")
	ErrArithmeticOverflow        = errors.New("commerce: arithmetic overflow")
	ErrInsufficientReserve       = errors.New("commerce: insufficient reserve to fund account")
)
