package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func testIssuer() *Issuer {
	return NewIssuer("test-secret", time.Hour).WithClock(func() time.Time { return now })
}

func TestIssueAndParse(t *testing.T) {
	i := testIssuer()

	token, expires, err := i.Issue(RoleMaintenance, "staff1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expires)

	claims, err := i.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, RoleMaintenance, claims.Role)
	assert.Equal(t, "staff1", claims.Subject)
}

func TestIssue_Validation(t *testing.T) {
	i := testIssuer()

	_, _, err := i.Issue(Role("janitor"), "x")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, _, err = i.Issue(RoleStudent, "")
	assert.ErrorIs(t, err, ErrSubjectMissing)

	_, _, err = i.Issue(RoleWarden, "")
	assert.NoError(t, err)
}

func TestParse_Rejects(t *testing.T) {
	i := testIssuer()
	valid, _, err := i.Issue(RoleStudent, "student1")
	require.NoError(t, err)

	expired := i.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, err = expired.Parse(valid)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	other := NewIssuer("other-secret", time.Hour).WithClock(func() time.Time { return now })
	_, err = other.Parse(valid)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = i.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleWarden}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = i.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), &Claims{Role: RoleWarden})
	claims, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleWarden, claims.Role)
}
