package policy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/camtools/pkg/auth"
	"github.com/shashiranjanraj/camtools/pkg/policy"
)

type fakeAdmins struct {
	admins map[string]bool
}

func (f *fakeAdmins) IsAdmin(_ context.Context, email string) (bool, error) {
	return f.admins[email], nil
}

func newGuard(adminEmails ...string) *policy.Guard {
	admins := map[string]bool{}
	for _, e := range adminEmails {
		admins[e] = true
	}
	return policy.NewGuard(&fakeAdmins{admins: admins})
}

func okHandler() (http.HandlerFunc, *string) {
	var identity string
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ = policy.IdentityFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}, &identity
}

func do(t *testing.T, g *policy.Guard, level policy.Level, authz string) (*httptest.ResponseRecorder, *string) {
	t.Helper()
	h, identity := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	g.Require(level)(h).ServeHTTP(rec, req)
	return rec, identity
}

func TestAnonymousPassesWithoutToken(t *testing.T) {
	rec, _ := do(t, newGuard(), policy.Anonymous, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedMissingHeaderIs401(t *testing.T) {
	rec, _ := do(t, newGuard(), policy.Authenticated, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthenticatedBadTokenIs403(t *testing.T) {
	rec, _ := do(t, newGuard(), policy.Authenticated, "Bearer garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticatedNonBearerIs401(t *testing.T) {
	rec, _ := do(t, newGuard(), policy.Authenticated, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedAttachesIdentity(t *testing.T) {
	token, err := auth.IssueToken("buyer@x.com")
	require.NoError(t, err)

	rec, identity := do(t, newGuard(), policy.Authenticated, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "buyer@x.com", *identity)
}

func TestAdminRejectsNonAdmin(t *testing.T) {
	token, err := auth.IssueToken("buyer@x.com")
	require.NoError(t, err)

	rec, _ := do(t, newGuard("boss@x.com"), policy.Admin, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRejectsUnknownUser(t *testing.T) {
	// Absent user record means "not admin", not an internal error.
	token, err := auth.IssueToken("ghost@x.com")
	require.NoError(t, err)

	rec, _ := do(t, newGuard(), policy.Admin, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAllowsAdmin(t *testing.T) {
	token, err := auth.IssueToken("boss@x.com")
	require.NoError(t, err)

	rec, identity := do(t, newGuard("boss@x.com"), policy.Admin, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "boss@x.com", *identity)
}
