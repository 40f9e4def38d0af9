package repository

import (
	"context"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new POS session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetByUserID(ctx context.Context, userID string) (*entity.PosSession, error) {
	var session entity.PosSession
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&session)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.PosSession) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(session).Error
}

func (r *sessionRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&entity.PosSession{}, "user_id = ?", userID).Error
}
