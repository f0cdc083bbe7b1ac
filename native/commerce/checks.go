package commerce

import (
	"fmt"

	"commerceledger/core/types"
)

// Structural checks run before any record bytes are parsed. Account
// buffers are adversarial input: custody and signature are established
// first, then records are decoded, then their self-declared derivations
// are recomputed.

func verifySigner(acc *types.Account, writable bool) error {
	if !acc.Signer {
		return fmt.Errorf("%w: %s", ErrMissingSignature, acc.Address)
	}
	if writable && !acc.Writable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, acc.Address)
	}
	return nil
}

// verifyOwned checks program custody of a record account, optionally
// requiring writability.
func verifyOwned(acc *types.Account, owner types.Address, writable bool) error {
	if acc.Owner != owner {
		return fmt.Errorf("%w: %s", ErrInvalidAccountOwner, acc.Address)
	}
	if writable && !acc.Writable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, acc.Address)
	}
	return nil
}

// verifyUninitialized checks that an account is still unclaimed: system
// owned with no record written, ready for the program to create into.
func verifyUninitialized(acc *types.Account, writable bool) error {
	if acc.Owner != types.SystemOwner || acc.Initialized() {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyInitialized, acc.Address)
	}
	if writable && !acc.Writable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, acc.Address)
	}
	return nil
}

// loadMerchant establishes custody and decodes the record. Derivation is
// checked at creation only: the address stays bound to the original owner
// across authority transfers, so recomputing it from the stored owner here
// would reject transferred records.
func loadMerchant(acc *types.Account, writable bool) (*Merchant, error) {
	if err := verifyOwned(acc, ProgramID, writable); err != nil {
		return nil, err
	}
	return DecodeMerchant(acc.Data)
}

// loadOperator mirrors loadMerchant for operator records.
func loadOperator(acc *types.Account, writable bool) (*Operator, error) {
	if err := verifyOwned(acc, ProgramID, writable); err != nil {
		return nil, err
	}
	return DecodeOperator(acc.Data)
}

// loadConfig mirrors loadMerchant for config records, returning the
// decoded policy and currency tails alongside the header.
func loadConfig(acc *types.Account, writable bool) (*MerchantOperatorConfig, []Policy, []types.Address, error) {
	if err := verifyOwned(acc, ProgramID, writable); err != nil {
		return nil, nil, nil, err
	}
	c, policies, currencies, err := DecodeConfig(acc.Data)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := c.VerifyDerivation(acc.Address); err != nil {
		return nil, nil, nil, err
	}
	return c, policies, currencies, nil
}

// loadPayment establishes custody and decodes the record. Derivation
// needs the config, buyer and currency addresses and is checked at the
// call site.
func loadPayment(acc *types.Account, writable bool) (*Payment, error) {
	if err := verifyOwned(acc, ProgramID, writable); err != nil {
		return nil, err
	}
	return DecodePayment(acc.Data)
}

func containsCurrency(currencies []types.Address, currency types.Address) bool {
	for _, c := range currencies {
		if c == currency {
			return true
		}
	}
	return false
}
