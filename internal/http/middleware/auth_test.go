package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/http/middleware"
	"github.com/avsuhas/hoa-backend/internal/repository"
	"github.com/avsuhas/hoa-backend/internal/token"
)

func newGuardFixture(t *testing.T) (*gin.Engine, *stubUserRepo, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubUserRepo{users: make(map[int64]domain.User)}
	tokens := token.NewService("test-secret", time.Minute, time.Hour)
	guard := middleware.NewAuth(tokens, repo)

	r := gin.New()
	r.GET("/protected", guard.RequireUser, func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	r.GET("/admin", guard.RequireRoles(domain.RoleSuperAdmin, domain.RolePropertyManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r, repo, tokens
}

func serve(r *gin.Engine, authorization string, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUserRejectsMissingAndMalformedHeaders(t *testing.T) {
	r, _, _ := newGuardFixture(t)

	for _, header := range []string{"", "Basic abc123", "Bearer", "nonsense"} {
		w := serve(r, header, "/protected")
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		require.Contains(t, w.Body.String(), "invalid_token")
	}
}

func TestRequireUserRejectsBadToken(t *testing.T) {
	r, _, _ := newGuardFixture(t)

	w := serve(r, "Bearer not-a-jwt", "/protected")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUserRejectsSetupToken(t *testing.T) {
	r, repo, tokens := newGuardFixture(t)
	user := repo.put(domain.User{Email: "resident@oakridge.test", Role: domain.RoleResident, IsActive: true})

	setup, err := tokens.IssueSetup(user)
	require.NoError(t, err)

	w := serve(r, "Bearer "+setup, "/protected")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUserRejectsVanishedUser(t *testing.T) {
	r, repo, tokens := newGuardFixture(t)
	user := repo.put(domain.User{Email: "resident@oakridge.test", Role: domain.RoleResident, IsActive: true})

	access, err := tokens.IssueAccess(user)
	require.NoError(t, err)

	repo.remove(user.ID)

	w := serve(r, "Bearer "+access, "/protected")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// A storage failure during the user lookup is not an authentication problem
// and must not surface as 401.
func TestRequireUserReportsStorageFailureAsServerError(t *testing.T) {
	r, repo, tokens := newGuardFixture(t)
	user := repo.put(domain.User{Email: "resident@oakridge.test", Role: domain.RoleResident, IsActive: true})

	access, err := tokens.IssueAccess(user)
	require.NoError(t, err)

	repo.getErr = errors.New("connection refused")

	w := serve(r, "Bearer "+access, "/protected")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "server_error")
}

func TestRequireUserRejectsInactiveAccount(t *testing.T) {
	r, repo, tokens := newGuardFixture(t)
	user := repo.put(domain.User{Email: "pending@oakridge.test", Role: domain.RoleBoardMember, IsActive: false})

	access, err := tokens.IssueAccess(user)
	require.NoError(t, err)

	w := serve(r, "Bearer "+access, "/protected")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "inactive_user")
}

func TestRequireUserAttachesCurrentUser(t *testing.T) {
	r, repo, tokens := newGuardFixture(t)
	user := repo.put(domain.User{Email: "resident@oakridge.test", Role: domain.RoleResident, IsActive: true})

	access, err := tokens.IssueAccess(user)
	require.NoError(t, err)

	w := serve(r, "Bearer "+access, "/protected")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "resident@oakridge.test")
}

func TestRequireRolesForbidsOutsiders(t *testing.T) {
	r, repo, tokens := newGuardFixture(t)
	user := repo.put(domain.User{Email: "resident@oakridge.test", Role: domain.RoleResident, IsActive: true})

	access, err := tokens.IssueAccess(user)
	require.NoError(t, err)

	w := serve(r, "Bearer "+access, "/admin")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "forbidden")
}

// The guard checks the stored role on every request, so a demotion takes
// effect immediately even though the old token still carries the old role.
func TestRequireRolesUsesStoredRoleNotTokenClaim(t *testing.T) {
	r, repo, tokens := newGuardFixture(t)
	user := repo.put(domain.User{Email: "manager@oakridge.test", Role: domain.RolePropertyManager, IsActive: true})

	access, err := tokens.IssueAccess(user)
	require.NoError(t, err)

	w := serve(r, "Bearer "+access, "/admin")
	require.Equal(t, http.StatusOK, w.Code)

	user.Role = domain.RoleResident
	repo.set(user)

	w = serve(r, "Bearer "+access, "/admin")
	require.Equal(t, http.StatusForbidden, w.Code)
}

// stubUserRepo backs the guard with a fixed user set. Only the lookups the
// guard performs are implemented.
type stubUserRepo struct {
	nextID int64
	users  map[int64]domain.User
	getErr error
}

func (s *stubUserRepo) put(user domain.User) domain.User {
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return user
}

func (s *stubUserRepo) set(user domain.User) {
	s.users[user.ID] = user
}

func (s *stubUserRepo) remove(id int64) {
	delete(s.users, id)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if s.getErr != nil {
		return domain.User{}, s.getErr
	}
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{}, domain.ErrUserNotFound
}

func (s *stubUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return s.put(user), nil
}

func (s *stubUserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	s.set(user)
	return user, nil
}

func (s *stubUserRepo) StampLastLogin(ctx context.Context, id int64, at time.Time) error {
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) error {
	s.remove(id)
	return nil
}

func (s *stubUserRepo) Transact(ctx context.Context, fn func(repository.UserRepository) error) error {
	return fn(s)
}
