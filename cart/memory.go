package cart

import (
	"context"
	"sync"

	"bismi-shop/models"
)

// MemoryPort is an in-process Port, used in tests and as a fallback when no
// Redis is configured.
type MemoryPort struct {
	mu    sync.Mutex
	lines []models.CartLine

	// FailSave, when set, makes Save return it. Lets tests exercise the
	// keep-previous-state-on-persistence-failure contract.
	FailSave error
}

func NewMemoryPort() *MemoryPort {
	return &MemoryPort{}
}

func (p *MemoryPort) Load(ctx context.Context) ([]models.CartLine, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.CartLine, len(p.lines))
	copy(out, p.lines)
	return out, nil
}

func (p *MemoryPort) Save(ctx context.Context, lines []models.CartLine) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailSave != nil {
		return p.FailSave
	}
	p.lines = make([]models.CartLine, len(lines))
	copy(p.lines, lines)
	return nil
}
