package app

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
)

type classKey struct {
	class  string
	school string
}

type classTotals struct {
	students     int
	active       int
	activeXP     int
	answeredSlot int
}

// RankClasses groups users by (class, school) and ranks the groups by global
// score. It is a pure function of its inputs: the order of users is irrelevant.
func RankClasses(users []domain.User, day int) []domain.ClassAggregate {
	if day < 0 {
		day = 0
	}
	totals := make(map[classKey]*classTotals)
	for i := range users {
		u := &users[i]
		key := classKey{class: u.Class, school: u.School}
		t, ok := totals[key]
		if !ok {
			t = &classTotals{}
			totals[key] = t
		}
		t.students++
		if u.XP > 0 {
			t.active++
			t.activeXP += u.XP
		}
		t.answeredSlot += u.AnsweredThrough(day)
	}

	classes := make([]domain.ClassAggregate, 0, len(totals))
	for key, t := range totals {
		classes = append(classes, aggregate(key, t, day))
	}

	sort.Slice(classes, func(i, j int) bool {
		if classes[i].GlobalScore != classes[j].GlobalScore {
			return classes[i].GlobalScore > classes[j].GlobalScore
		}
		if classes[i].School != classes[j].School {
			return classes[i].School < classes[j].School
		}
		return classes[i].Class < classes[j].Class
	})
	for i := range classes {
		classes[i].Rank = i + 1
	}
	return classes
}

func aggregate(key classKey, t *classTotals, day int) domain.ClassAggregate {
	var meanXP float64
	if t.active > 0 {
		meanXP = float64(t.activeXP) / float64(t.active)
	}
	var rate float64
	if t.students > 0 && day > 0 {
		rate = float64(t.answeredSlot) / float64(t.students*day)
	}
	score := 0
	if rate != 0 {
		score = int(math.Round(meanXP * rate))
	}
	return domain.ClassAggregate{
		Class:              key.class,
		School:             key.school,
		StudentCount:       t.students,
		ActiveStudentCount: t.active,
		MeanXP:             meanXP,
		ParticipationRate:  rate,
		GlobalScore:        score,
	}
}

// RankingService answers ranking queries. Every call recomputes the ranking
// from a fresh user snapshot.
type RankingService struct {
	users UserRepository
	clock *CampaignClock
	now   func() time.Time
}

func NewRankingService(users UserRepository, clock *CampaignClock) *RankingService {
	return &RankingService{users: users, clock: clock, now: time.Now}
}

// Snapshot computes the full class ranking for the current day.
func (s *RankingService) Snapshot(ctx context.Context) (domain.RankingSnapshot, error) {
	_, day, err := s.clock.resolve(ctx)
	if err != nil {
		return domain.RankingSnapshot{}, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return domain.RankingSnapshot{}, err
	}
	return domain.RankingSnapshot{
		Day:       day,
		Classes:   RankClasses(users, day),
		UpdatedAt: s.now(),
	}, nil
}

// Top returns the n best ranked classes.
func (s *RankingService) Top(ctx context.Context, n int) ([]domain.ClassAggregate, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if n < len(snap.Classes) && n >= 0 {
		return snap.Classes[:n], nil
	}
	return snap.Classes, nil
}

// ClassPosition returns the ranked aggregate of one class.
func (s *RankingService) ClassPosition(ctx context.Context, class, school string) (domain.ClassAggregate, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.ClassAggregate{}, err
	}
	for _, c := range snap.Classes {
		if c.Class == class && c.School == school {
			return c, nil
		}
	}
	return domain.ClassAggregate{}, domain.ErrClassNotFound
}

// Roster lists the user's classmates by XP, next to the class aggregate.
func (s *RankingService) Roster(ctx context.Context, userID int64) (domain.ClassRoster, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.ClassRoster{}, err
	}
	_, day, err := s.clock.resolve(ctx)
	if err != nil {
		return domain.ClassRoster{}, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return domain.ClassRoster{}, err
	}

	var mates []domain.User
	for _, u := range users {
		if u.Class == user.Class && u.School == user.School {
			mates = append(mates, u)
		}
	}
	sortByXP(mates)

	roster := domain.ClassRoster{Students: make([]domain.RosterEntry, 0, len(mates))}
	for i, u := range mates {
		roster.Students = append(roster.Students, domain.RosterEntry{
			UserID:     u.ID,
			Login:      u.Login,
			XP:         u.XP,
			ErrorCount: u.ErrorCount,
			Answered:   u.AnsweredThrough(day),
			Position:   i + 1,
		})
	}
	for _, c := range RankClasses(users, day) {
		if c.Class == user.Class && c.School == user.School {
			roster.Class = c
			break
		}
	}
	return roster, nil
}

// UserPosition places the user in the individual ranking of all students.
func (s *RankingService) UserPosition(ctx context.Context, userID int64) (domain.UserPosition, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.UserPosition{}, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return domain.UserPosition{}, err
	}
	sortByXP(users)

	pos := domain.UserPosition{
		UserID:     user.ID,
		Login:      user.Login,
		XP:         user.XP,
		Level:      Level(user.XP),
		TotalUsers: len(users),
	}
	for i, u := range users {
		if u.ID == user.ID {
			pos.Position = i + 1
			break
		}
	}
	return pos, nil
}

// Level is 1 for the first XPPerLevel points and grows by one per XPPerLevel.
// Negative XP stays on level 1.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/domain.XPPerLevel + 1
}

// sortByXP orders users by XP descending, then by login.
func sortByXP(users []domain.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].XP != users[j].XP {
			return users[i].XP > users[j].XP
		}
		return users[i].Login < users[j].Login
	})
}
