package app

import (
	"context"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
)

// UserRepository abstracts how students and their slot assignments are stored (in-memory, Postgres).
type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// ApplyAnswer applies update as one atomic unit for the user and returns the new state.
	// It must fail with domain.ErrAlreadyAnswered when the slot is already answered.
	ApplyAnswer(ctx context.Context, userID int64, update domain.AnswerUpdate) (domain.User, error)
}

// QuestionRepository loads question content (from cache/backing store).
type QuestionRepository interface {
	GetQuestion(ctx context.Context, questionID int64) (domain.Question, error)
}

// CampaignRepository reads and updates the active campaign configuration.
type CampaignRepository interface {
	ActiveCampaign(ctx context.Context) (domain.CampaignConfig, error)
	SetCurrentDay(ctx context.Context, campaignID int64, day int) error
	UpdateSchedule(ctx context.Context, campaignID int64, startDate time.Time, durationDays int) (domain.CampaignConfig, error)
}

// AuditSink receives security violations. Storage is owned by the implementation.
type AuditSink interface {
	RecordViolation(ctx context.Context, violation domain.SecurityViolation) error
}

// AuditReader lists the most recent security violations, newest first.
type AuditReader interface {
	Recent(ctx context.Context, count int64) ([]domain.SecurityViolation, error)
}

// AnswerObserver is notified after a submission has been scored and stored.
type AnswerObserver interface {
	AnswerScored(ctx context.Context, userID int64, result domain.AnswerResult)
}
