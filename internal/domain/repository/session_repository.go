package repository

import (
	"context"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
)

// SessionRepository defines the interface for POS session persistence
type SessionRepository interface {
	// GetByUserID returns the session of userID, or nil when none was saved yet
	GetByUserID(ctx context.Context, userID string) (*entity.PosSession, error)
	// Save inserts or replaces the session
	Save(ctx context.Context, session *entity.PosSession) error
	Delete(ctx context.Context, userID string) error
}
