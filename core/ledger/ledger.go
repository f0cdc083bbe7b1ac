package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"commerceledger/core/types"
	"commerceledger/storage"
)

// ErrAccountNotFound is returned by lookups for addresses the ledger has
// never stored.
var ErrAccountNotFound = errors.New("ledger: account not found")

const accountPrefix = "acct:"

// AccountMeta declares one account an invocation touches, with the flags
// the submitter asserts for it.
type AccountMeta struct {
	Address  types.Address
	Signer   bool
	Writable bool
}

// Executor runs one instruction against a set of account snapshots. The
// commerce engine is the only executor today.
type Executor interface {
	Execute(accounts []*types.Account, data []byte) error
}

// LinearRent prices reserve as a base charge plus a per-byte rate.
type LinearRent struct {
	Base    uint64
	PerByte uint64
}

// MinimumReserve implements RentModel.
func (r LinearRent) MinimumReserve(space int) uint64 {
	return r.Base + r.PerByte*uint64(space)
}

// DefaultRent is the daemon's rent schedule.
var DefaultRent = LinearRent{Base: 1_000, PerByte: 10}

// Ledger is the invocation runner. It loads the declared accounts from
// storage, hands snapshots to the executor, and commits the mutated set
// only when execution succeeds, so every invocation is atomic.
type Ledger struct {
	db storage.Database
	mu sync.Mutex
}

// NewLedger wraps a storage backend.
func NewLedger(db storage.Database) *Ledger {
	return &Ledger{db: db}
}

// Invoke executes one instruction. Duplicate metas for the same address
// collapse onto a single snapshot with OR-merged flags, so an instruction
// sees one coherent view per account. On success every touched account is
// written back; accounts released to the system namespace with no data
// and no reserve are deleted.
func (l *Ledger) Invoke(exec Executor, metas []AccountMeta, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	unique := make([]*types.Account, 0, len(metas))
	byAddr := make(map[types.Address]*types.Account, len(metas))
	accounts := make([]*types.Account, 0, len(metas))
	for _, meta := range metas {
		acc, ok := byAddr[meta.Address]
		if !ok {
			loaded, err := l.loadAccount(meta.Address)
			if err != nil {
				return err
			}
			acc = loaded
			byAddr[meta.Address] = acc
			unique = append(unique, acc)
		}
		acc.Signer = acc.Signer || meta.Signer
		acc.Writable = acc.Writable || meta.Writable
		accounts = append(accounts, acc)
	}

	if err := exec.Execute(accounts, payload); err != nil {
		return err
	}

	for _, acc := range unique {
		if acc.Owner == types.SystemOwner && !acc.Initialized() && acc.Reserve == 0 {
			if err := l.db.Delete(accountKey(acc.Address)); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("ledger: delete account %s: %w", acc.Address, err)
			}
			continue
		}
		if err := l.db.Put(accountKey(acc.Address), encodeAccount(acc)); err != nil {
			return fmt.Errorf("ledger: store account %s: %w", acc.Address, err)
		}
	}
	return nil
}

// GetAccount returns the stored snapshot for an address.
func (l *Ledger) GetAccount(addr types.Address) (*types.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	raw, err := l.db.Get(accountKey(addr))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: load account %s: %w", addr, err)
	}
	return decodeAccount(addr, raw)
}

// SetAccount writes an account directly, bypassing execution. Genesis
// seeding and tests use it.
func (l *Ledger) SetAccount(acc *types.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.db.Put(accountKey(acc.Address), encodeAccount(acc)); err != nil {
		return fmt.Errorf("ledger: store account %s: %w", acc.Address, err)
	}
	return nil
}

// loadAccount reads a stored account or returns a fresh unclaimed snapshot
// when the address has never been touched.
func (l *Ledger) loadAccount(addr types.Address) (*types.Account, error) {
	raw, err := l.db.Get(accountKey(addr))
	if errors.Is(err, storage.ErrNotFound) {
		return &types.Account{Address: addr, Owner: types.SystemOwner}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: load account %s: %w", addr, err)
	}
	return decodeAccount(addr, raw)
}

func accountKey(addr types.Address) []byte {
	key := make([]byte, 0, len(accountPrefix)+types.AddressLength)
	key = append(key, accountPrefix...)
	key = append(key, addr[:]...)
	return key
}

// Stored layout: owner(32) || reserve(8 LE) || data.
func encodeAccount(acc *types.Account) []byte {
	value := make([]byte, 0, 32+8+len(acc.Data))
	value = append(value, acc.Owner[:]...)
	value = binary.LittleEndian.AppendUint64(value, acc.Reserve)
	value = append(value, acc.Data...)
	return value
}

func decodeAccount(addr types.Address, raw []byte) (*types.Account, error) {
	if len(raw) < 40 {
		return nil, fmt.Errorf("ledger: corrupt account record for %s", addr)
	}
	acc := &types.Account{Address: addr}
	copy(acc.Owner[:], raw[0:32])
	acc.Reserve = binary.LittleEndian.Uint64(raw[32:40])
	acc.Data = append([]byte(nil), raw[40:]...)
	return acc, nil
}
