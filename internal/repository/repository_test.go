package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurenote/futurenote/internal/db/dbtest"
	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
	"github.com/futurenote/futurenote/internal/secure"
)

var base = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type repos struct {
	goals   repository.GoalRepository
	reports repository.ReportRepository
	badges  repository.BadgeRepository
	logs    repository.EmailLogRepository
	admins  repository.AdminRepository
}

func newRepos(t *testing.T) repos {
	conn := dbtest.New(t)
	return repos{
		goals:   repository.NewGoalRepository(conn),
		reports: repository.NewReportRepository(conn),
		badges:  repository.NewBadgeRepository(conn),
		logs:    repository.NewEmailLogRepository(conn),
		admins:  repository.NewAdminRepository(conn),
	}
}

func createGoal(t *testing.T, r repository.GoalRepository, mutate func(*model.Goal)) *model.Goal {
	t.Helper()

	tokens, err := secure.NewGoalTokens()
	require.NoError(t, err)

	g := &model.Goal{
		ID:               uuid.New().String(),
		GoalText:         "Learn to play the cello",
		UserName:         "Sam",
		Category:         model.CategoryLearning,
		Email:            "ciphertext",
		IPAddress:        "203.0.113.7",
		IsPublic:         true,
		ReminderDate:     model.ReminderDateFor(base),
		DeleteToken:      tokens.Delete,
		UnsubscribeToken: tokens.Unsubscribe,
		ResponseToken:    tokens.Response,
		CreatedAt:        base,
		UpdatedAt:        base,
	}
	if mutate != nil {
		mutate(g)
	}

	require.NoError(t, r.Create(context.Background(), g))
	return g
}

func TestGoalRepository_CreateAndByID(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	got, err := r.goals.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.GoalText, got.GoalText)
	assert.Equal(t, g.ResponseToken, got.ResponseToken)
	assert.True(t, got.IsPublic)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.Achieved)
	assert.True(t, g.ReminderDate.Equal(got.ReminderDate))
	assert.Equal(t, model.GoalStatePending, got.State())

	_, err = r.goals.ByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestGoalRepository_RecordResponseOnce(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	got, err := r.goals.RecordResponse(ctx, g.ResponseToken, true, base)
	require.NoError(t, err)
	require.NotNil(t, got.Achieved)
	assert.True(t, *got.Achieved)
	assert.NotNil(t, got.AchievedAt)

	_, err = r.goals.RecordResponse(ctx, g.ResponseToken, false, base)
	assert.ErrorIs(t, err, repository.ErrAlreadyResponded)

	stored, err := r.goals.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, *stored.Achieved, "second response must not overwrite the first")

	_, err = r.goals.RecordResponse(ctx, "unknown", true, base)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestGoalRepository_RecordResponseConcurrent(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, already := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(achieved bool) {
			defer wg.Done()
			_, err := r.goals.RecordResponse(ctx, g.ResponseToken, achieved, base)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if assert.ErrorIs(t, err, repository.ErrAlreadyResponded) {
				already++
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 9, already)
}

func TestGoalRepository_SoftDeleteByToken(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	deleted, err := r.goals.SoftDeleteByToken(ctx, g.DeleteToken, base)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = r.goals.SoftDeleteByToken(ctx, g.DeleteToken, base)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestGoalRepository_RecordResponseAfterDelete(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	due := base.AddDate(-model.ReminderYears, 0, 0)
	g := createGoal(t, r.goals, func(g *model.Goal) {
		g.CreatedAt = due
		g.UpdatedAt = due
		g.ReminderDate = base
	})

	claimed, err := r.goals.ClaimReminder(ctx, g.ID, base)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = r.goals.SoftDeleteByToken(ctx, g.DeleteToken, base)
	require.NoError(t, err)

	answered, err := r.goals.RecordResponse(ctx, g.ResponseToken, true, base)
	require.NoError(t, err)
	assert.True(t, answered.IsDeleted)
	require.NotNil(t, answered.Achieved)
	assert.True(t, *answered.Achieved)

	_, err = r.goals.RecordResponse(ctx, g.ResponseToken, false, base)
	assert.ErrorIs(t, err, repository.ErrAlreadyResponded)
}

func TestGoalRepository_TokensAreNotInterchangeable(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	_, err := r.goals.SoftDeleteByToken(ctx, g.ResponseToken, base)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = r.goals.RecordResponse(ctx, g.DeleteToken, true, base)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = r.goals.UnsubscribeByToken(ctx, g.DeleteToken, base)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestGoalRepository_UnsubscribeIsIdempotent(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	first, err := r.goals.UnsubscribeByToken(ctx, g.UnsubscribeToken, base)
	require.NoError(t, err)
	assert.True(t, first.Unsubscribed)

	second, err := r.goals.UnsubscribeByToken(ctx, g.UnsubscribeToken, base)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGoalRepository_ReminderCandidatesAndClaim(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	due := base.AddDate(4, 0, 1)

	ready := createGoal(t, r.goals, nil)
	createGoal(t, r.goals, func(g *model.Goal) { g.IsDeleted = true })
	createGoal(t, r.goals, func(g *model.Goal) { g.Unsubscribed = true })
	createGoal(t, r.goals, func(g *model.Goal) { g.ReminderSent = true })
	createGoal(t, r.goals, func(g *model.Goal) { g.ReminderDate = due.AddDate(0, 0, 1) })

	candidates, err := r.goals.ReminderCandidates(ctx, due, 50)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, ready.ID, candidates[0].ID)

	claimed, err := r.goals.ClaimReminder(ctx, ready.ID, due)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = r.goals.ClaimReminder(ctx, ready.ID, due)
	require.NoError(t, err)
	assert.False(t, claimed)

	candidates, err = r.goals.ReminderCandidates(ctx, due, 50)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGoalRepository_ReminderCandidatesRespectsLimit(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createGoal(t, r.goals, nil)
	}

	candidates, err := r.goals.ReminderCandidates(ctx, base.AddDate(5, 0, 0), 3)
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func TestGoalRepository_PublicExcludesHidden(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	older := createGoal(t, r.goals, func(g *model.Goal) { g.CreatedAt = base.Add(-time.Hour) })
	newer := createGoal(t, r.goals, nil)
	createGoal(t, r.goals, func(g *model.Goal) { g.IsFlagged = true })
	createGoal(t, r.goals, func(g *model.Goal) { g.IsDeleted = true })
	createGoal(t, r.goals, func(g *model.Goal) { g.IsPublic = false })

	goals, err := r.goals.Public(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, newer.ID, goals[0].ID)
	assert.Equal(t, older.ID, goals[1].ID)
}

func TestGoalRepository_AdminGoalsFilters(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	createGoal(t, r.goals, nil)
	createGoal(t, r.goals, func(g *model.Goal) { g.IsFlagged = true })
	createGoal(t, r.goals, func(g *model.Goal) { g.IsDeleted = true })

	tests := []struct {
		filter string
		want   int
	}{
		{repository.GoalFilterAll, 3},
		{repository.GoalFilterPublic, 2},
		{repository.GoalFilterFlagged, 1},
		{repository.GoalFilterDeleted, 1},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			goals, total, err := r.goals.AdminGoals(ctx, tt.filter, 20, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, goals, tt.want)
		})
	}

	_, _, err := r.goals.AdminGoals(ctx, "bogus", 20, 0)
	assert.ErrorIs(t, err, repository.ErrUnknownGoalFilter)
}

func TestGoalRepository_SetFlagAndSoftDelete(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	require.NoError(t, r.goals.SetFlag(ctx, g.ID, true, base))
	got, err := r.goals.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFlagged)

	require.NoError(t, r.goals.SoftDelete(ctx, g.ID, base))
	got, err = r.goals.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	assert.ErrorIs(t, r.goals.SetFlag(ctx, "missing", true, base), repository.ErrGoalNotFound)
	assert.ErrorIs(t, r.goals.SoftDelete(ctx, "missing", base), repository.ErrGoalNotFound)
}

func newReport(goalID string) *model.Report {
	return &model.Report{
		ID:         uuid.New().String(),
		GoalID:     goalID,
		Reason:     model.DefaultReportReason,
		IPAddress:  "198.51.100.1",
		ReportedAt: base,
	}
}

func TestReportRepository_AutoFlagOnThird(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	for i := 1; i <= 4; i++ {
		outcome, err := r.reports.Submit(ctx, newReport(g.ID), model.AutoFlagThreshold)
		require.NoError(t, err)
		assert.Equal(t, i, outcome.ReportCount)
		assert.Equal(t, i == 3, outcome.AutoFlagged, "report %d", i)

		got, err := r.goals.ByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, i >= 3, got.IsFlagged, "report %d", i)
	}
}

func TestReportRepository_NoReflagAfterAdminUnflag(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	for i := 0; i < 3; i++ {
		_, err := r.reports.Submit(ctx, newReport(g.ID), model.AutoFlagThreshold)
		require.NoError(t, err)
	}
	require.NoError(t, r.goals.SetFlag(ctx, g.ID, false, base))

	outcome, err := r.reports.Submit(ctx, newReport(g.ID), model.AutoFlagThreshold)
	require.NoError(t, err)
	assert.False(t, outcome.AutoFlagged)

	got, err := r.goals.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFlagged)
}

func TestReportRepository_AlreadyFlaggedGoal(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, func(g *model.Goal) { g.IsFlagged = true })

	for i := 0; i < 3; i++ {
		outcome, err := r.reports.Submit(ctx, newReport(g.ID), model.AutoFlagThreshold)
		require.NoError(t, err)
		assert.False(t, outcome.AutoFlagged)
	}
}

func TestReportRepository_ConcurrentReportsFlagOnce(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	flagged := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := r.reports.Submit(ctx, newReport(g.ID), model.AutoFlagThreshold)
			if !assert.NoError(t, err) {
				return
			}
			if outcome.AutoFlagged {
				mu.Lock()
				flagged++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, flagged)

	got, err := r.goals.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.ReportCount)
}

func TestReportRepository_UnknownGoal(t *testing.T) {
	r := newRepos(t)
	_, err := r.reports.Submit(context.Background(), newReport("missing"), model.AutoFlagThreshold)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestReportRepository_ListAndResolve(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	first := newReport(g.ID)
	_, err := r.reports.Submit(ctx, first, model.AutoFlagThreshold)
	require.NoError(t, err)
	second := newReport(g.ID)
	second.ReportedAt = base.Add(time.Minute)
	_, err = r.reports.Submit(ctx, second, model.AutoFlagThreshold)
	require.NoError(t, err)

	require.NoError(t, r.reports.Resolve(ctx, first.ID))
	require.NoError(t, r.reports.Resolve(ctx, first.ID))
	assert.ErrorIs(t, r.reports.Resolve(ctx, "missing"), repository.ErrReportNotFound)

	all, total, err := r.reports.List(ctx, model.ReportFilterAll, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, g.GoalText, all[0].GoalText)

	unresolved, total, err := r.reports.List(ctx, model.ReportFilterUnresolved, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, second.ID, unresolved[0].ID)

	_, total, err = r.reports.List(ctx, model.ReportFilterResolved, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, _, err = r.reports.List(ctx, "bogus", 20, 0)
	assert.ErrorIs(t, err, repository.ErrUnknownReportFilter)
}

func TestBadgeRepository_AwardOnce(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	award := func() bool {
		ok, err := r.badges.Award(ctx, &model.UserBadge{
			GoalID:    g.ID,
			BadgeID:   "first-goal",
			Submitter: g.IPAddress,
			AwardedAt: base,
		})
		require.NoError(t, err)
		return ok
	}

	assert.True(t, award())
	assert.False(t, award())

	ids, err := r.badges.AwardedIDs(ctx, g.IPAddress)
	require.NoError(t, err)
	assert.Equal(t, []string{"first-goal"}, ids)

}

func TestBadgeRepository_SeedMatchesCatalog(t *testing.T) {
	r := newRepos(t)

	defs, err := r.badges.Definitions(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, model.BadgeCatalog, defs)
}

func TestEmailLogRepository(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	g := createGoal(t, r.goals, nil)

	msgID := "msg_123"
	require.NoError(t, r.logs.Create(ctx, &model.EmailLog{
		GoalID:    g.ID,
		EmailType: model.EmailTypeConfirmation,
		Status:    model.EmailStatusSent,
		MessageID: &msgID,
		SentAt:    base,
	}))

	logs, err := r.logs.ByGoal(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.EmailTypeConfirmation, logs[0].EmailType)
	require.NotNil(t, logs[0].MessageID)
	assert.Equal(t, msgID, *logs[0].MessageID)
	assert.Nil(t, logs[0].ErrorMessage)
}

func TestAdminRepository(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	admin := &model.Admin{
		Email:        "ops@example.com",
		Name:         "Ops",
		PasswordHash: "hash",
		Role:         model.AdminRoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, r.admins.Create(ctx, admin))
	assert.NotEmpty(t, admin.ID)

	dup := *admin
	dup.ID = ""
	assert.ErrorIs(t, r.admins.Create(ctx, &dup), repository.ErrAdminExists)

	got, err := r.admins.ByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Nil(t, got.LastLoginAt)

	require.NoError(t, r.admins.TouchLastLogin(ctx, admin.ID, base))
	got, err = r.admins.ByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)

	_, err = r.admins.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrAdminNotFound)
}

func TestGoalRepository_AggregatesAndStats(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	a := createGoal(t, r.goals, func(g *model.Goal) { g.UserName = "Ana"; g.ShareCount = 2 })
	createGoal(t, r.goals, func(g *model.Goal) { g.UserName = "Ana"; g.ShareCount = 1 })
	createGoal(t, r.goals, func(g *model.Goal) { g.UserName = "Bo"; g.IPAddress = "192.0.2.9" })
	createGoal(t, r.goals, func(g *model.Goal) { g.UserName = "Ana"; g.IsDeleted = true })

	_, err := r.goals.RecordResponse(ctx, a.ResponseToken, true, base)
	require.NoError(t, err)

	goals, achieved, err := r.goals.CountBySubmitter(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 3, goals)
	assert.Equal(t, 1, achieved)

	achievers, err := r.goals.Achievers(ctx)
	require.NoError(t, err)
	byName := map[string]*model.Achiever{}
	for _, a := range achievers {
		byName[a.UserName] = a
	}
	require.Contains(t, byName, "Ana")
	assert.Equal(t, 2, byName["Ana"].GoalsCount)
	assert.Equal(t, 1, byName["Ana"].AchievedCount)
	assert.Equal(t, 3, byName["Ana"].TotalShares)
	assert.Equal(t, 1, byName["Bo"].GoalsCount)

	stats, err := r.goals.Stats(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalGoals)
	assert.Equal(t, 3, stats.PublicGoals)
	assert.Equal(t, 1, stats.DeletedGoals)
	assert.Equal(t, 3, stats.RecentGoals)
	assert.Equal(t, 1, stats.AchievedGoals)
}
