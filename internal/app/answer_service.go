package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/golang/glog"
)

// AnswerService validates and scores answer submissions.
type AnswerService struct {
	users     UserRepository
	questions QuestionRepository
	clock     *CampaignClock
	audit     AuditSink
	observers []AnswerObserver
	now       func() time.Time
}

func NewAnswerService(users UserRepository, questions QuestionRepository, clock *CampaignClock, audit AuditSink) *AnswerService {
	return &AnswerService{
		users:     users,
		questions: questions,
		clock:     clock,
		audit:     audit,
		now:       time.Now,
	}
}

// Observe registers an observer for scored submissions.
func (s *AnswerService) Observe(o AnswerObserver) {
	s.observers = append(s.observers, o)
}

// SubmitAnswer checks ownership, unlock and replay rules, then scores the
// answer and applies the XP change. Rejections have no side effects apart
// from the audit record written for security violations.
func (s *AnswerService) SubmitAnswer(ctx context.Context, sub domain.AnswerSubmission) (domain.AnswerResult, error) {
	if sub.ChoiceIndex < 0 || sub.ChoiceIndex >= domain.ChoiceCount {
		return domain.AnswerResult{}, fmt.Errorf("%w: %d", domain.ErrInvalidChoice, sub.ChoiceIndex)
	}
	user, err := s.users.GetUser(ctx, sub.UserID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	slot := user.SlotFor(sub.QuestionID)
	if slot == 0 {
		s.reportViolation(ctx, sub, domain.ViolationQuestionNotAssigned,
			fmt.Sprintf("question %d is not assigned to user %d", sub.QuestionID, sub.UserID))
		return domain.AnswerResult{}, domain.ErrQuestionNotAssigned
	}

	_, day, err := s.clock.resolve(ctx)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if day == 0 {
		return domain.AnswerResult{}, domain.ErrCampaignNotStarted
	}
	if slot > day {
		s.reportViolation(ctx, sub, domain.ViolationQuestionNotYetUnlocked,
			fmt.Sprintf("question %d belongs to day %d, current day is %d", sub.QuestionID, slot, day))
		return domain.AnswerResult{}, domain.ErrQuestionNotYetUnlocked
	}
	if user.Slot(slot).Answered {
		return domain.AnswerResult{}, domain.ErrAlreadyAnswered
	}

	question, err := s.questions.GetQuestion(ctx, sub.QuestionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	correct, delta, late := scoreAnswer(question, sub.ChoiceIndex, slot, day)
	updated, err := s.users.ApplyAnswer(ctx, user.ID, domain.AnswerUpdate{
		Slot:         slot,
		XPDelta:      delta,
		MarkAnswered: correct,
		Incorrect:    !correct,
		Late:         correct && late,
		At:           s.now(),
	})
	if err != nil {
		return domain.AnswerResult{}, err
	}
	glog.V(2).Infof("user %d answered question %d (slot %d, day %d): correct=%v delta=%d", user.ID, sub.QuestionID, slot, day, correct, delta)

	result := domain.AnswerResult{
		QuestionID:    sub.QuestionID,
		Slot:          slot,
		IsCorrect:     correct,
		XPDelta:       delta,
		IsLate:        late,
		CorrectChoice: question.CorrectChoice,
		TotalXP:       updated.XP,
	}
	if correct && slot < domain.SlotCount {
		result.NextHint = s.nextHint(ctx, updated, slot+1)
	}

	for _, o := range s.observers {
		o.AnswerScored(ctx, user.ID, result)
	}
	return result, nil
}

// scoreAnswer returns (correct, xp delta, late). choiceIndex is 0-based while
// the stored correct choice is 1-based.
func scoreAnswer(q domain.Question, choiceIndex, slot, day int) (bool, int, bool) {
	correct := choiceIndex+1 == q.CorrectChoice
	late := slot < day
	switch {
	case correct && late:
		return true, domain.XPCorrectLate, late
	case correct:
		return true, domain.XPCorrect, late
	default:
		return false, domain.XPIncorrect, late
	}
}

func (s *AnswerService) nextHint(ctx context.Context, user domain.User, slot int) *string {
	next := user.Slot(slot)
	if next == nil || next.QuestionID == nil {
		return nil
	}
	q, err := s.questions.GetQuestion(ctx, *next.QuestionID)
	if err != nil {
		if !errors.Is(err, domain.ErrQuestionNotFound) {
			glog.Errorf("load hint for question %d: %v", *next.QuestionID, err)
		}
		return nil
	}
	if q.Hint == "" {
		return nil
	}
	hint := q.Hint
	return &hint
}

// reportViolation forwards a security violation to the audit sink. A failing
// sink is logged; the submission is rejected either way.
func (s *AnswerService) reportViolation(ctx context.Context, sub domain.AnswerSubmission, code domain.ViolationCode, detail string) {
	glog.Warningf("security violation: user=%d code=%s ip=%s: %s", sub.UserID, code, sub.Meta.IPAddress, detail)
	if s.audit == nil {
		return
	}
	violation := domain.SecurityViolation{
		UserID:    sub.UserID,
		Code:      code,
		Detail:    detail,
		IPAddress: sub.Meta.IPAddress,
		UserAgent: sub.Meta.UserAgent,
		Timestamp: s.now(),
	}
	if err := s.audit.RecordViolation(ctx, violation); err != nil {
		glog.Errorf("record security violation for user %d: %v", sub.UserID, err)
	}
}
