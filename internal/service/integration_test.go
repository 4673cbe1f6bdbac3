//go:build integration

package service_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/repository"
	"github.com/avsuhas/hoa-backend/internal/service"
	"github.com/avsuhas/hoa-backend/internal/token"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL must be set for integration tests")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	return pool
}

func newRealService(t *testing.T, pool *pgxpool.Pool) *service.AccountService {
	t.Helper()
	repo := repository.NewPostgresUserRepo(pool)
	tokens := token.NewService("integration-secret", time.Hour, 24*time.Hour)
	return service.NewAccountService(repo, tokens, &recordingMailer{sent: make(chan string, 32)}, zap.NewNop())
}

// Two simultaneous registrations with the same email must end with exactly
// one stored row; the unique constraint, not the advisory check, decides.
func TestConcurrentRegistrationSingleWinner_Integration(t *testing.T) {
	pool := setupDB(t)
	defer pool.Close()

	svc := newRealService(t, pool)
	ctx := context.Background()

	email := fmt.Sprintf("race-%d@integration.test", time.Now().UnixNano())
	defer func() {
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	}()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, service.RegisterInput{
				Email:     email,
				Password:  "RacePass1",
				FirstName: "Race",
				LastName:  "Tester",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrEmailTaken)
		}
	}
	require.Equal(t, 1, successes)

	var count int
	err := pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE email = $1`, email).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestLoginAgainstPostgres_Integration(t *testing.T) {
	pool := setupDB(t)
	defer pool.Close()

	svc := newRealService(t, pool)
	ctx := context.Background()

	email := fmt.Sprintf("login-%d@integration.test", time.Now().UnixNano())
	defer func() {
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	}()

	_, err := svc.Register(ctx, service.RegisterInput{
		Email:     email,
		Password:  "Secret123",
		FirstName: "Iggy",
		LastName:  "Tester",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, email, "Secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)
	assert.NotNil(t, result.User.LastLoginAt)
}
