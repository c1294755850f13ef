package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Request модели

// ListBlocksRequest запрос на получение блокировок за период
type ListBlocksRequest struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	FromMs   int64
	ToMs     int64
}

// CreateBlockRequest запрос на создание блокировки
type CreateBlockRequest struct {
	TenantID uuid.UUID `json:"-"`
	UserID   uuid.UUID `json:"-"`
	StartMs  int64     `json:"startMs"`
	EndMs    int64     `json:"endMs"`
	Reason   *string   `json:"reason,omitempty"`
	// Force создает блокировку, даже если она пересекается с активными бронированиями
	Force bool `json:"force"`
}

// DeleteBlockRequest запрос на удаление блокировки
type DeleteBlockRequest struct {
	TenantID uuid.UUID
	BlockID  uuid.UUID
	UserID   uuid.UUID
}

// Response модели

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenantId"`
	StartMs   int64      `json:"startMs"`
	EndMs     int64      `json:"endMs"`
	Reason    *string    `json:"reason,omitempty"`
	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// BlockListResponse ответ со списком блокировок
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// CreateBlockResponse ответ на создание блокировки
type CreateBlockResponse struct {
	Block BlockResponse `json:"block"`
	// OverlappingBookingIDs активные бронирования под блокировкой (только при force)
	OverlappingBookingIDs []uuid.UUID `json:"overlappingBookingIds"`
}

// Методы конвертации

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.BlockedInterval) BlockResponse {
	return BlockResponse{
		ID:        b.ID,
		TenantID:  b.TenantID,
		StartMs:   int64(b.Interval.Start),
		EndMs:     int64(b.Interval.End),
		Reason:    b.Reason,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlockList конвертирует список блокировок в DTO
func FromDomainBlockList(blocks []domain.BlockedInterval) *BlockListResponse {
	resp := &BlockListResponse{Blocks: make([]BlockResponse, 0, len(blocks))}
	for i := range blocks {
		resp.Blocks = append(resp.Blocks, FromDomainBlock(&blocks[i]))
	}
	return resp
}
