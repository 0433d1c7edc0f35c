// Package registry tracks which owner holds each token identifier.
//
// Identifiers are assigned sequentially from 1 by Mint and never destroyed.
// Enumeration by owner is in ascending identifier order.
package registry

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrNotFound         = errors.New("owner query for nonexistent token")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrNotOwner         = errors.New("transfer from incorrect owner")
	ErrInvalidOwner     = errors.New("invalid owner")
)

// Token is one minted identifier and its current owner.
type Token struct {
	ID    uint64 `json:"id"`
	Owner string `json:"owner"`
}

// Registry assigns and tracks owned identifiers.
type Registry interface {
	// Mint assigns the next identifier to owner.
	Mint(ctx context.Context, owner string) (uint64, error)
	OwnerOf(ctx context.Context, id uint64) (string, error)
	TotalSupply(ctx context.Context) (uint64, error)
	// TokenByIndex returns the identifier at a zero-based global index.
	TokenByIndex(ctx context.Context, index uint64) (uint64, error)
	BalanceOf(ctx context.Context, owner string) (uint64, error)
	// TokenOfOwnerByIndex returns the identifier at a zero-based index within owner's tokens.
	TokenOfOwnerByIndex(ctx context.Context, owner string, index uint64) (uint64, error)
	Transfer(ctx context.Context, from, to string, id uint64) error
}

func validOwner(owner string) bool {
	return strings.TrimSpace(owner) != ""
}

// InMemoryRegistry is a thread-safe in-memory implementation.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	owners  []string // owners[id-1]
	byOwner map[string][]uint64
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{byOwner: make(map[string][]uint64)}
}

func (r *InMemoryRegistry) Mint(_ context.Context, owner string) (uint64, error) {
	if !validOwner(owner) {
		return 0, ErrInvalidOwner
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.owners = append(r.owners, owner)
	id := uint64(len(r.owners))
	r.byOwner[owner] = append(r.byOwner[owner], id)
	return id, nil
}

func (r *InMemoryRegistry) OwnerOf(_ context.Context, id uint64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id == 0 || id > uint64(len(r.owners)) {
		return "", ErrNotFound
	}
	return r.owners[id-1], nil
}

func (r *InMemoryRegistry) TotalSupply(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.owners)), nil
}

func (r *InMemoryRegistry) TokenByIndex(_ context.Context, index uint64) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= uint64(len(r.owners)) {
		return 0, ErrIndexOutOfBounds
	}
	return index + 1, nil
}

func (r *InMemoryRegistry) BalanceOf(_ context.Context, owner string) (uint64, error) {
	if !validOwner(owner) {
		return 0, ErrInvalidOwner
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.byOwner[owner])), nil
}

func (r *InMemoryRegistry) TokenOfOwnerByIndex(_ context.Context, owner string, index uint64) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[owner]
	if index >= uint64(len(ids)) {
		return 0, ErrIndexOutOfBounds
	}
	return ids[index], nil
}

func (r *InMemoryRegistry) Transfer(_ context.Context, from, to string, id uint64) error {
	if !validOwner(to) {
		return ErrInvalidOwner
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == 0 || id > uint64(len(r.owners)) {
		return ErrNotFound
	}
	if r.owners[id-1] != from {
		return ErrNotOwner
	}

	r.owners[id-1] = to
	r.byOwner[from] = removeID(r.byOwner[from], id)
	if len(r.byOwner[from]) == 0 {
		delete(r.byOwner, from)
	}
	r.byOwner[to] = insertID(r.byOwner[to], id)
	return nil
}

func removeID(ids []uint64, id uint64) []uint64 {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return append(ids[:i], ids[i+1:]...)
	}
	return ids
}

func insertID(ids []uint64, id uint64) []uint64 {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
