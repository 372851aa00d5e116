package app_test

import (
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/app"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/infra/memory"
)

var campaignStart = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

type fixture struct {
	users     *memory.UserStore
	campaigns *memory.CampaignStore
	audit     *memory.AuditLog
	clock     *app.CampaignClock
	answers   *app.AnswerService
	questions *app.QuestionService
	ranking   *app.RankingService
	campaign  *app.CampaignService
}

// newFixture builds services over in-memory stores with the stored day set to day.
func newFixture(day int, users ...domain.User) *fixture {
	return newFixtureAt(campaignStart, &day, users...)
}

func newFixtureAt(now time.Time, day *int, users ...domain.User) *fixture {
	return build(now, memory.NewCampaignStore(&domain.CampaignConfig{
		ID:           1,
		StartDate:    campaignStart,
		DurationDays: 10,
		Active:       true,
		CurrentDay:   day,
	}), users...)
}

// newInactiveFixture has no active campaign at all.
func newInactiveFixture(users ...domain.User) *fixture {
	return build(campaignStart, memory.NewCampaignStore(nil), users...)
}

func build(now time.Time, campaigns *memory.CampaignStore, users ...domain.User) *fixture {
	f := &fixture{
		users:     memory.NewUserStore(users...),
		campaigns: campaigns,
		audit:     memory.NewAuditLog(),
	}
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(sampleQuestions()), time.Minute)
	f.clock = app.NewCampaignClockWithNow(f.campaigns, time.UTC, func() time.Time { return now })
	f.answers = app.NewAnswerService(f.users, questions, f.clock, f.audit)
	f.questions = app.NewQuestionService(f.users, questions, f.clock)
	f.ranking = app.NewRankingService(f.users, f.clock)
	f.campaign = app.NewCampaignService(f.campaigns, f.clock)
	return f
}

// sampleQuestions returns questions 101..110; question 10n has correct choice (n%5)+1
// and hint "hint n".
func sampleQuestions() []domain.Question {
	qs := make([]domain.Question, 0, domain.SlotCount)
	for n := 1; n <= domain.SlotCount; n++ {
		qs = append(qs, domain.Question{
			ID:            int64(100 + n),
			Text:          "question",
			Hint:          "hint " + string(rune('0'+n%10)),
			Choices:       [domain.ChoiceCount]string{"a", "b", "c", "d", "e"},
			CorrectChoice: n%5 + 1,
		})
	}
	return qs
}

// correctIndex is the 0-based index a client sends to answer slot n correctly.
func correctIndex(slot int) int {
	return slot % 5
}

func wrongIndex(slot int) int {
	return (slot + 1) % 5
}

func questionFor(slot int) int64 {
	return int64(100 + slot)
}

// student has all ten slots assigned to questions 101..110.
func student(id int64, class, school string, xp int, answered ...int) domain.User {
	u := domain.User{ID: id, Login: "user" + string(rune('a'+id%26)), Class: class, School: school, XP: xp}
	for n := 1; n <= domain.SlotCount; n++ {
		qid := questionFor(n)
		u.Slots[n-1].QuestionID = &qid
	}
	for _, n := range answered {
		u.Slots[n-1].Answered = true
	}
	return u
}

func intPtr(v int) *int { return &v }
