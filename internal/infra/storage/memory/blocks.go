package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	blockedRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/blocked"
)

// BlockedRepository репозиторий блокировок в памяти
type BlockedRepository struct {
	store *Store
}

// Create сохраняет блокировку
func (r *BlockedRepository) Create(_ context.Context, block *domain.BlockedInterval) (*domain.BlockedInterval, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	r.store.blocks[block.ID] = *block
	return block, nil
}

// GetByID получает блокировку по ID
func (r *BlockedRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.BlockedInterval, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	block, ok := r.store.blocks[id]
	if !ok {
		return nil, blockedRepo.ErrBlockNotFound
	}
	return &block, nil
}

// ListOverlapping возвращает блокировки тенанта, пересекающиеся с интервалом
func (r *BlockedRepository) ListOverlapping(_ context.Context, tenantID uuid.UUID, interval domain.Interval) ([]domain.BlockedInterval, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.BlockedInterval, 0)
	for _, b := range r.store.blocks {
		if b.TenantID == tenantID && b.Interval.Overlaps(interval) {
			result = append(result, b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Interval.Start < result[j].Interval.Start
	})
	return result, nil
}

// Delete удаляет блокировку
func (r *BlockedRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.blocks[id]; !ok {
		return blockedRepo.ErrBlockNotFound
	}
	delete(r.store.blocks, id)
	return nil
}
