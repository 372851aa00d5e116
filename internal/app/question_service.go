package app

import (
	"context"
	"errors"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/golang/glog"
)

// QuestionService serves the student-facing question views.
type QuestionService struct {
	users     UserRepository
	questions QuestionRepository
	clock     *CampaignClock
}

func NewQuestionService(users UserRepository, questions QuestionRepository, clock *CampaignClock) *QuestionService {
	return &QuestionService{users: users, questions: questions, clock: clock}
}

// Available lists the unlocked questions the user has not answered yet. When
// none remain it carries the hint of tomorrow's question. Before the last day
// it also reports the next day and the seconds until it unlocks.
func (s *QuestionService) Available(ctx context.Context, userID int64) (domain.AvailableQuestions, error) {
	cfg, day, err := s.clock.resolve(ctx)
	if err != nil {
		return domain.AvailableQuestions{}, err
	}
	if day == 0 {
		return domain.AvailableQuestions{}, domain.ErrCampaignNotStarted
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.AvailableQuestions{}, err
	}

	out := domain.AvailableQuestions{
		CurrentDay: day,
		MaxDays:    cfg.DurationDays,
		Questions:  []domain.QuestionView{},
	}
	last := min(day, cfg.DurationDays, domain.SlotCount)
	for n := 1; n <= last; n++ {
		slot := user.Slot(n)
		if slot.QuestionID == nil || slot.Answered {
			continue
		}
		q, err := s.questions.GetQuestion(ctx, *slot.QuestionID)
		if errors.Is(err, domain.ErrQuestionNotFound) {
			glog.Warningf("user %d slot %d references missing question %d", userID, n, *slot.QuestionID)
			continue
		}
		if err != nil {
			return domain.AvailableQuestions{}, err
		}
		out.Questions = append(out.Questions, domain.QuestionView{
			Day:     n,
			ID:      q.ID,
			Text:    q.Text,
			Image:   q.Image,
			Hint:    q.Hint,
			Choices: q.Choices,
		})
	}

	if day < cfg.DurationDays && day < domain.SlotCount {
		out.NextDay = day + 1
		out.NextUnlockSeconds = int(s.clock.UntilNextDay() / time.Second)
	}
	if len(out.Questions) == 0 && out.NextDay != 0 {
		if next := user.Slot(day + 1); next.QuestionID != nil {
			q, err := s.questions.GetQuestion(ctx, *next.QuestionID)
			if err == nil && q.Hint != "" {
				hint := q.Hint
				out.NextHint = &hint
			}
		}
	}
	return out, nil
}

// Progress summarizes the user's answered slots and XP for the current day.
func (s *QuestionService) Progress(ctx context.Context, userID int64) (domain.Progress, error) {
	_, day, err := s.clock.resolve(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.Progress{}, err
	}
	return domain.Progress{
		UserID:     user.ID,
		CurrentDay: day,
		Answered:   user.AnsweredThrough(day),
		TotalSlots: domain.SlotCount,
		XP:         user.XP,
		ErrorCount: user.ErrorCount,
		LateCount:  user.LateCount,
		Level:      Level(user.XP),
	}, nil
}
