package app_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/app"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankingUsers() []domain.User {
	return []domain.User{
		// 3A/Central: two active (100, 200), one inactive; 5 of 9 slots answered by day 3.
		student(1, "3A", "Central", 100, 1, 2),
		student(2, "3A", "Central", 200, 1, 2, 3),
		student(3, "3A", "Central", -10),
		// 2B/Central: one active, full participation.
		student(4, "2B", "Central", 150, 1, 2, 3),
		// 1C/Norte: everyone inactive.
		student(5, "1C", "Norte", 0),
		student(6, "1C", "Norte", -20),
	}
}

func TestRankClassesFormula(t *testing.T) {
	classes := app.RankClasses(rankingUsers(), 3)
	require.Len(t, classes, 3)

	b := classes[0]
	assert.Equal(t, "2B", b.Class)
	assert.Equal(t, 1, b.Rank)
	assert.Equal(t, 1.0, b.ParticipationRate)
	assert.Equal(t, 150.0, b.MeanXP)
	assert.Equal(t, 150, b.GlobalScore)

	a := classes[1]
	assert.Equal(t, "3A", a.Class)
	assert.Equal(t, 2, a.Rank)
	assert.Equal(t, 3, a.StudentCount)
	assert.Equal(t, 2, a.ActiveStudentCount)
	assert.Equal(t, 150.0, a.MeanXP, "mean xp only counts active students")
	assert.InDelta(t, 5.0/9.0, a.ParticipationRate, 1e-9)
	assert.Equal(t, 83, a.GlobalScore)

	c := classes[2]
	assert.Equal(t, "1C", c.Class)
	assert.Equal(t, 0.0, c.MeanXP)
	assert.Equal(t, 0, c.GlobalScore)
	assert.Equal(t, 3, c.Rank)
}

func TestRankClassesZeroParticipationScoresZero(t *testing.T) {
	// High xp but nothing answered within the window.
	users := []domain.User{
		student(1, "3A", "Central", 500, 5),
		student(2, "3A", "Central", 500),
	}
	classes := app.RankClasses(users, 2)
	require.Len(t, classes, 1)
	assert.Equal(t, 500.0, classes[0].MeanXP)
	assert.Equal(t, 0.0, classes[0].ParticipationRate)
	assert.Equal(t, 0, classes[0].GlobalScore)
}

func TestRankClassesDayZero(t *testing.T) {
	classes := app.RankClasses(rankingUsers(), 0)
	for _, c := range classes {
		assert.Equal(t, 0.0, c.ParticipationRate)
		assert.Equal(t, 0, c.GlobalScore)
	}
}

func TestRankClassesCapsWindowAtTenSlots(t *testing.T) {
	u := student(1, "3A", "Central", 100, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	classes := app.RankClasses([]domain.User{u}, 12)
	require.Len(t, classes, 1)
	assert.InDelta(t, 10.0/12.0, classes[0].ParticipationRate, 1e-9)
}

func TestRankClassesOrderIndependent(t *testing.T) {
	users := rankingUsers()
	want := app.RankClasses(users, 3)

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.User(nil), users...)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, app.RankClasses(shuffled, 3))
	}
}

func TestRankClassesTieBreakIsDeterministic(t *testing.T) {
	users := []domain.User{
		student(1, "B", "Escola 2", 50, 1),
		student(2, "A", "Escola 2", 50, 1),
		student(3, "Z", "Escola 1", 50, 1),
	}
	classes := app.RankClasses(users, 1)
	require.Len(t, classes, 3)
	assert.Equal(t, []string{"Z", "A", "B"}, []string{classes[0].Class, classes[1].Class, classes[2].Class})
	assert.Equal(t, []int{1, 2, 3}, []int{classes[0].Rank, classes[1].Rank, classes[2].Rank})
}

func TestRankingServiceQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, rankingUsers()...)

	top, err := f.ranking.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "2B", top[0].Class)

	pos, err := f.ranking.ClassPosition(ctx, "3A", "Central")
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Rank)

	_, err = f.ranking.ClassPosition(ctx, "9Z", "Central")
	require.ErrorIs(t, err, domain.ErrClassNotFound)

	roster, err := f.ranking.Roster(ctx, 1)
	require.NoError(t, err)
	require.Len(t, roster.Students, 3)
	assert.Equal(t, int64(2), roster.Students[0].UserID)
	assert.Equal(t, 3, roster.Students[0].Answered)
	assert.Equal(t, 1, roster.Students[0].Position)
	assert.Equal(t, int64(3), roster.Students[2].UserID)
	assert.Equal(t, "3A", roster.Class.Class)
	assert.Equal(t, 2, roster.Class.Rank)
}

func TestUserPosition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(3, append(rankingUsers(), student(7, "2B", "Central", 100))...)

	cases := []struct {
		userID   int64
		position int
		level    int
	}{
		{2, 1, 3},
		{4, 2, 2},
		// ties on XP fall back to login: userb before userh
		{1, 3, 2},
		{7, 4, 2},
		{5, 5, 1},
		{6, 7, 1},
	}
	for _, tc := range cases {
		pos, err := f.ranking.UserPosition(ctx, tc.userID)
		require.NoError(t, err)
		assert.Equal(t, tc.userID, pos.UserID)
		assert.Equal(t, tc.position, pos.Position, "user %d", tc.userID)
		assert.Equal(t, tc.level, pos.Level, "user %d", tc.userID)
		assert.Equal(t, 7, pos.TotalUsers)
	}

	_, err := f.ranking.UserPosition(ctx, 99)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 1, app.Level(-30))
	assert.Equal(t, 1, app.Level(0))
	assert.Equal(t, 1, app.Level(99))
	assert.Equal(t, 2, app.Level(100))
	assert.Equal(t, 3, app.Level(250))
}
