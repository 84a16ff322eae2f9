package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/constanfit/constanfit/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func newMockRepository(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return NewWithDB(mock), mock
}

func TestRepository_CreateAccount(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	account := &model.Account{
		ID:        "8b0f3c1e-0000-4000-8000-000000000001",
		Email:     " Ana@Example.com ",
		FullName:  "Ana",
		CreatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(account.ID, "ana@example.com", "Ana", false, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO user_credentials").
		WithArgs(account.ID, "hash").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := repo.CreateAccount(context.Background(), account, "hash"); err != nil {
		t.Fatalf("create account: %v", err)
	}
}

func TestRepository_CreateAccount_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "a@b.c", "Ana", false, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})
	mock.ExpectRollback()

	err := repo.CreateAccount(context.Background(), &model.Account{ID: "user-1", Email: "A@b.c", FullName: "Ana"}, "hash")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRepository_CreateAccount_CredentialFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "a@b.c", "Ana", false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	errBoom := errors.New("boom")
	mock.ExpectExec("INSERT INTO user_credentials").
		WithArgs("user-1", "hash").
		WillReturnError(errBoom)
	mock.ExpectRollback()

	err := repo.CreateAccount(context.Background(), &model.Account{ID: "user-1", Email: "a@b.c", FullName: "Ana"}, "hash")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected the credential error, got %v", err)
	}
	if errors.Is(err, ErrEmailExists) {
		t.Fatal("a credential failure must not be reported as a duplicate email")
	}
}

func TestRepository_GetAccountByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "full_name", "has_paid", "created_at"}).
			AddRow("user-1", "ana@example.com", "Ana", true, now))

	account, err := repo.GetAccountByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.FullName != "Ana" || !account.HasPaid {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestRepository_GetAccountByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM users").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetAccountByID(context.Background(), "missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRepository_GetCredentialByEmail(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery("JOIN user_credentials").
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "full_name", "has_paid", "created_at", "password_hash"}).
			AddRow("user-1", "ana@example.com", "Ana", false, now, "$argon2id$..."))

	account, hash, err := repo.GetCredentialByEmail(context.Background(), "ANA@example.com")
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if account.ID != "user-1" {
		t.Fatalf("unexpected account id %q", account.ID)
	}
	if hash != "$argon2id$..." {
		t.Fatalf("unexpected hash %q", hash)
	}
}

func TestRepository_InsertQuizResponse(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	resp := &model.QuizResponse{
		ID:            "01HX0000000000000000000000",
		UserID:        "user-1",
		Name:          "Ana",
		BirthDate:     "1995-04-12",
		Height:        165.5,
		Weight:        62,
		Age:           30,
		Goal:          model.GoalLoseWeight,
		ActivityLevel: model.ActivityBeginner,
		Insecurities:  "Falta de tempo",
		CreatedAt:     now,
	}

	mock.ExpectExec("INSERT INTO quiz_responses").
		WithArgs(resp.ID, "user-1", "Ana", "1995-04-12", 165.5, 62.0, 30,
			pgxmock.AnyArg(), "lose_weight", "beginner", "Falta de tempo", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.InsertQuizResponse(context.Background(), resp); err != nil {
		t.Fatalf("insert quiz response: %v", err)
	}
}

func TestRepository_GetLatestQuizResponse(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	cols := []string{"id", "user_id", "name", "birth_date", "height", "weight", "age", "gender", "goal", "activity_level", "insecurities", "created_at"}
	mock.ExpectQuery("FROM quiz_responses").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("resp-2", "user-1", "Ana", "1995-04-12", 165.5, 62.0, 30, "", "gain_muscle", "advanced", "", now))

	resp, err := repo.GetLatestQuizResponse(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if resp.Goal != model.GoalGainMuscle {
		t.Fatalf("goal = %q", resp.Goal)
	}
	if resp.ActivityLevel != model.ActivityAdvanced {
		t.Fatalf("activity = %q", resp.ActivityLevel)
	}
	if resp.Gender != "" {
		t.Fatalf("gender = %q, want empty", resp.Gender)
	}
	if resp.Height != 165.5 || resp.Age != 30 {
		t.Fatalf("unexpected numbers: %+v", resp)
	}
}

func TestRepository_GetLatestQuizResponse_None(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM quiz_responses").
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetLatestQuizResponse(context.Background(), "user-1"); !errors.Is(err, ErrQuizResponseNotFound) {
		t.Fatalf("expected ErrQuizResponseNotFound, got %v", err)
	}
}

func TestRepository_UpsertAndGetStreak(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	streak := &model.Streak{UserID: "user-1", CurrentStreak: 2, LongestStreak: 5, LastActivityDate: &day, CreatedAt: now}

	mock.ExpectExec("INSERT INTO streaks").
		WithArgs("user-1", 2, 5, &day, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.UpsertStreak(context.Background(), streak); err != nil {
		t.Fatalf("upsert streak: %v", err)
	}

	mock.ExpectQuery("FROM streaks").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "current_streak", "longest_streak", "last_activity_date", "created_at"}).
			AddRow("user-1", 2, 5, &day, now))

	loaded, err := repo.GetStreak(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get streak: %v", err)
	}
	if loaded.CurrentStreak != 2 || loaded.LongestStreak != 5 {
		t.Fatalf("unexpected streak: %+v", loaded)
	}
	if loaded.LastActivityDate == nil || !loaded.LastActivityDate.Equal(day) {
		t.Fatalf("unexpected last activity: %v", loaded.LastActivityDate)
	}
}

func TestRepository_GetStreak_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM streaks").WithArgs("user-1").WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetStreak(context.Background(), "user-1"); !errors.Is(err, ErrStreakNotFound) {
		t.Fatalf("expected ErrStreakNotFound, got %v", err)
	}
}

func TestRepository_UnlockAchievements(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("INSERT INTO achievements").
		WithArgs("user-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := repo.UnlockAchievements(context.Background(), "user-1", []string{model.AchievementFirstActivity, model.AchievementStreak3})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if n != 1 {
		t.Fatalf("unlocked = %d, want 1", n)
	}
}

func TestRepository_UnlockAchievements_EmptySkipsQuery(t *testing.T) {
	repo, _ := newMockRepository(t)

	n, err := repo.UnlockAchievements(context.Background(), "user-1", nil)
	if err != nil || n != 0 {
		t.Fatalf("unexpected result: %d, %v", n, err)
	}
}

func TestRepository_ListAchievements(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM achievements").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "achievement_type", "unlocked_at"}).
			AddRow("a-1", "user-1", model.AchievementFirstActivity, now).
			AddRow("a-2", "user-1", model.AchievementStreak3, now))

	list, err := repo.ListAchievements(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list achievements: %v", err)
	}
	if len(list) != 2 || list[1].AchievementType != model.AchievementStreak3 {
		t.Fatalf("unexpected achievements: %+v", list)
	}
}
