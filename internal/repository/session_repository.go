package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campushq/edge-auth/internal/domain"
	"github.com/campushq/edge-auth/internal/observability"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(session *domain.Session) error
	FindByToken(token string) (*domain.Session, error)
	UpdateStatus(id string, status domain.SessionStatus) error
}

type GormSessionRepository struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(session *domain.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "create", "success")
	return nil
}

func (r *GormSessionRepository) FindByToken(token string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token", "not_found")
			return nil, ErrSessionNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token", "success")
	return &session, nil
}

func (r *GormSessionRepository) UpdateStatus(id string, status domain.SessionStatus) error {
	res := r.db.Model(&domain.Session{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "update_status", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "session", "update_status", "not_found")
		return ErrSessionNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "update_status", "success")
	return nil
}
