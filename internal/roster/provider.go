package roster

import (
	"context"
	"errors"

	"agent-hive/internal/storage"
)

// Provider supplies a capability roster. Injected so the backing document
// format can change without touching routing.
type Provider interface {
	Load(ctx context.Context) (*Roster, error)
}

// StorageProvider parses the roster from a named blob in storage. A missing
// document yields an empty roster, not an error.
type StorageProvider struct {
	Store storage.Store
	Name  string
}

// Load reads and parses the roster document.
func (p *StorageProvider) Load(ctx context.Context) (*Roster, error) {
	content, err := p.Store.ReadText(ctx, p.Name)
	if errors.Is(err, storage.ErrNotFound) {
		return &Roster{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(content), nil
}

// StaticProvider returns a fixed roster. Useful in tests and embedded setups.
type StaticProvider struct {
	Roster *Roster
}

// Load returns the fixed roster.
func (p *StaticProvider) Load(ctx context.Context) (*Roster, error) {
	if p.Roster == nil {
		return &Roster{}, nil
	}
	return p.Roster, nil
}
