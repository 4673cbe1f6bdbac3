package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/token"
)

func testUser() domain.User {
	return domain.User{ID: 42, Email: "board@oakridge.test", Role: domain.RoleBoardMember}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute, 24*time.Hour)

	signed, err := svc.IssueAccess(testUser())
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "board@oakridge.test", claims.Email)
	require.Equal(t, "board_member", claims.Role)
	require.Empty(t, claims.Purpose)

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestSetupTokenCarriesPurposeNotRole(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute, 24*time.Hour)

	signed, err := svc.IssueSetup(testUser())
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, token.PurposeSetupPassword, claims.Purpose)
	require.Empty(t, claims.Role)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := token.NewService("test-secret", -time.Minute, 24*time.Hour)

	signed, err := svc.IssueAccess(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsTampered(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute, 24*time.Hour)

	signed, err := svc.IssueAccess(testUser())
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	mutated := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = svc.Verify(mutated)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := token.NewService("secret-a", time.Minute, 24*time.Hour)
	verifier := token.NewService("secret-b", time.Minute, 24*time.Hour)

	signed, err := issuer.IssueAccess(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := token.NewService("test-secret", time.Minute, 24*time.Hour)

	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.Verify("")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
