package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/digimall/internal/cart/app"
	"github.com/dwikikusuma/digimall/internal/cart/domain"
)

type CartRepo struct {
	mu     sync.Mutex
	byUser map[string][]domain.CartLine
	now    func() time.Time
}

func NewCartRepo() *CartRepo {
	return &CartRepo{
		byUser: make(map[string][]domain.CartLine),
		now:    time.Now,
	}
}

func (r *CartRepo) ListLines(_ context.Context, userID string) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := r.byUser[userID]
	out := make([]domain.CartLine, 0, len(lines))
	for _, ln := range lines {
		out = append(out, cloneLine(ln))
	}
	return out, nil
}

func (r *CartRepo) GetLine(_ context.Context, userID, lineID string) (domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(userID, lineID)
	if i < 0 {
		return domain.CartLine{}, app.ErrLineNotFound
	}
	return cloneLine(r.byUser[userID][i]), nil
}

func (r *CartRepo) AddLine(_ context.Context, line domain.CartLine) (domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addLocked(line), nil
}

func (r *CartRepo) SetQuantity(_ context.Context, userID, lineID string, qty int) (domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(userID, lineID)
	if i < 0 {
		return domain.CartLine{}, app.ErrLineNotFound
	}
	ln := &r.byUser[userID][i]
	ln.Quantity = qty
	ln.UpdatedAt = r.now().UTC()
	return cloneLine(*ln), nil
}

func (r *CartRepo) RemoveLine(_ context.Context, userID, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(userID, lineID)
	if i < 0 {
		return app.ErrLineNotFound
	}
	lines := r.byUser[userID]
	r.byUser[userID] = append(lines[:i:i], lines[i+1:]...)
	return nil
}

func (r *CartRepo) ConsumeLines(_ context.Context, userID string, lineIDs []string) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		if r.indexOf(userID, id) < 0 {
			return nil, app.ErrLineNotFound.WithMessage("cart line %s not found", id)
		}
		want[id] = struct{}{}
	}

	var consumed []domain.CartLine
	kept := make([]domain.CartLine, 0, len(r.byUser[userID]))
	for _, ln := range r.byUser[userID] {
		if _, ok := want[ln.ID]; ok {
			consumed = append(consumed, ln)
			continue
		}
		kept = append(kept, ln)
	}
	r.byUser[userID] = kept
	return consumed, nil
}

func (r *CartRepo) RestoreLines(_ context.Context, lines []domain.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ln := range lines {
		r.addLocked(ln)
	}
	return nil
}

func (r *CartRepo) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser, userID)
	return nil
}

func (r *CartRepo) addLocked(line domain.CartLine) domain.CartLine {
	now := r.now().UTC()
	lines := r.byUser[line.UserID]
	for i := range lines {
		if lines[i].Same(line) {
			lines[i].Quantity += line.Quantity
			lines[i].UpdatedAt = now
			return cloneLine(lines[i])
		}
	}

	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	if line.CreatedAt.IsZero() {
		line.CreatedAt = now
	}
	line.UpdatedAt = now
	line.Specs = line.Specs.Clone()
	r.byUser[line.UserID] = append(lines, line)
	return cloneLine(line)
}

func (r *CartRepo) indexOf(userID, lineID string) int {
	for i, ln := range r.byUser[userID] {
		if ln.ID == lineID {
			return i
		}
	}
	return -1
}

func cloneLine(ln domain.CartLine) domain.CartLine {
	ln.Specs = ln.Specs.Clone()
	return ln
}
