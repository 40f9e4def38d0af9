package service

import (
	"context"

	"github.com/moby/locker"
	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/domain/repository"
	"go.uber.org/zap"
)

// Actor is the authenticated user a POS operation runs for.
type Actor struct {
	UserID  string
	Name    string
	StoreID string
}

// SessionStore loads and saves POS sessions. Read-modify-write cycles of the
// same user are serialised.
type SessionStore struct {
	repo  repository.SessionRepository
	log   *zap.Logger
	locks *locker.Locker
}

// NewSessionStore creates a new session store
func NewSessionStore(repo repository.SessionRepository, log *zap.Logger) *SessionStore {
	return &SessionStore{
		repo:  repo,
		log:   log,
		locks: locker.New(),
	}
}

// Get returns the session of actor, or a fresh idle one when none was saved.
func (s *SessionStore) Get(ctx context.Context, actor Actor) (*entity.PosSession, error) {
	s.locks.Lock(actor.UserID)
	defer s.unlock(actor.UserID)
	return s.load(ctx, actor)
}

func (s *SessionStore) unlock(userID string) {
	if err := s.locks.Unlock(userID); err != nil {
		s.log.Error("failed to release session lock", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *SessionStore) load(ctx context.Context, actor Actor) (*entity.PosSession, error) {
	session, err := s.repo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = entity.NewPosSession(actor.UserID, actor.StoreID)
	}
	if session.StoreID == "" {
		session.StoreID = actor.StoreID
	}
	return session, nil
}

// Update runs fn on the session under the user's lock and saves the result.
// Nothing is saved when fn fails.
func (s *SessionStore) Update(ctx context.Context, actor Actor, fn func(*entity.PosSession) error) (*entity.PosSession, error) {
	return s.Do(ctx, actor, func(session *entity.PosSession) (bool, error) {
		if err := fn(session); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Do runs fn under the user's lock. The session is saved when fn asks for it,
// even if fn also returns an error; a save failure is only returned when fn
// succeeded.
func (s *SessionStore) Do(ctx context.Context, actor Actor, fn func(*entity.PosSession) (bool, error)) (*entity.PosSession, error) {
	s.locks.Lock(actor.UserID)
	defer s.unlock(actor.UserID)

	session, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}

	persist, fnErr := fn(session)
	if persist {
		// the request may have been cancelled while fn talked to the backend
		if err := s.repo.Save(context.WithoutCancel(ctx), session); err != nil {
			s.log.Error("failed to save pos session", zap.String("user_id", actor.UserID), zap.Error(err))
			if fnErr == nil {
				return nil, err
			}
		}
	}
	if fnErr != nil {
		return session, fnErr
	}
	return session, nil
}
