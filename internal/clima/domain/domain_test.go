package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/stretchr/testify/require"
)

func TestScopesForRoles(t *testing.T) {
	require.Equal(t, []string{"user"}, domain.ScopesForRoles([]string{"user"}))
	require.Equal(t, []string{"user", "admin", "write:config"}, domain.ScopesForRoles([]string{"user", "admin"}))
	require.Empty(t, domain.ScopesForRoles([]string{"ghost"}))
	require.Empty(t, domain.ScopesForRoles(nil))
}

func TestPrivacyAllows(t *testing.T) {
	tests := []struct {
		name    string
		privacy domain.Privacy
		kind    domain.ConsentKind
		want    bool
	}{
		{"no consent", domain.Privacy{Analytics: true}, domain.ConsentAnalytics, false},
		{"analytics on", domain.Privacy{Consent: domain.Consent{Given: true}, Analytics: true}, domain.ConsentAnalytics, true},
		{"analytics off", domain.Privacy{Consent: domain.Consent{Given: true}}, domain.ConsentAnalytics, false},
		{"marketing on", domain.Privacy{Consent: domain.Consent{Given: true}, Marketing: true}, domain.ConsentMarketing, true},
		{"marketing needs own flag", domain.Privacy{Consent: domain.Consent{Given: true}, Analytics: true}, domain.ConsentMarketing, false},
		{"other kind only needs consent", domain.Privacy{Consent: domain.Consent{Given: true}}, domain.ConsentKind("essential"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.privacy.Allows(tt.kind))
		})
	}
}

func TestUserClone_IsDeep(t *testing.T) {
	now := time.Now()
	ip := "10.0.0.1"
	u := domain.User{
		AdditionalData: map[string]string{"displayName": "ct"},
		Roles:          []string{"user"},
		Privacy:        domain.Privacy{Consent: domain.Consent{Timestamp: &now, IP: &ip}},
		CreatedAt:      &now,
	}

	c := u.Clone()
	c.AdditionalData["displayName"] = "changed"
	c.Roles[0] = "admin"
	*c.Privacy.Consent.IP = "changed"

	require.Equal(t, "ct", u.AdditionalData["displayName"])
	require.Equal(t, "user", u.Roles[0])
	require.Equal(t, "10.0.0.1", *u.Privacy.Consent.IP)
}

func TestEffectiveRoles(t *testing.T) {
	require.Equal(t, []string{"user"}, domain.User{}.EffectiveRoles())
	require.Equal(t, []string{"admin"}, domain.User{Roles: []string{"admin"}}.EffectiveRoles())
}

func TestIdentitySubject(t *testing.T) {
	a := domain.Identity{Email: "alice@example.com"}
	b := domain.Identity{Email: "bob@example.com"}

	require.Len(t, a.Subject(), 12)
	require.Equal(t, a.Subject(), domain.Identity{Email: "alice@example.com"}.Subject())
	require.NotEqual(t, a.Subject(), b.Subject())
	require.NotContains(t, a.Subject(), "alice")
	require.Empty(t, domain.Identity{}.Subject())
}
