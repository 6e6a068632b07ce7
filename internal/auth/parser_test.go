package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseValidToken(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()
	token := signToken(t, "secret", jwt.MapClaims{
		"user_id": userID.String(),
		"org_id":  orgID.String(),
		"role":    "manager",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	principal, err := NewParser("secret").Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if principal.UserID != userID || principal.OrgID != orgID || principal.Role != "manager" {
		t.Fatalf("unexpected principal %+v", principal)
	}
	if !principal.CanManageContracts() {
		t.Fatalf("manager must be allowed to manage contracts")
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	userID := uuid.New().String()
	orgID := uuid.New().String()

	cases := []struct {
		name   string
		secret string
		claims jwt.MapClaims
	}{
		{"wrong secret", "other", jwt.MapClaims{"user_id": userID, "org_id": orgID, "role": "manager"}},
		{"expired", "secret", jwt.MapClaims{"user_id": userID, "org_id": orgID, "role": "manager", "exp": time.Now().Add(-time.Hour).Unix()}},
		{"missing role", "secret", jwt.MapClaims{"user_id": userID, "org_id": orgID}},
		{"missing user", "secret", jwt.MapClaims{"org_id": orgID, "role": "manager"}},
		{"bad uuid", "secret", jwt.MapClaims{"user_id": "not-a-uuid", "org_id": orgID, "role": "manager"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := signToken(t, tc.secret, tc.claims)
			if _, err := NewParser("secret").Parse(token); err == nil {
				t.Fatalf("expected parse error")
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := NewParser("secret").Parse("not.a.token"); err == nil {
		t.Fatalf("expected parse error")
	}
}
