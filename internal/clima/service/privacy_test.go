package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/service"
)

func TestPolicy(t *testing.T) {
	f := newFixture(t, nil)
	p := f.privacy.Policy()
	require.Equal(t, "1.0", p.Version)
	require.NotEmpty(t, p.URL)
}

func TestRecordConsentThenExport(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	f.register(t, "alice@example.com", "secret1")

	priv, err := f.privacy.RecordConsent(ctx, "alice@example.com",
		service.ConsentInput{Given: true, Analytics: true, Marketing: false}, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, priv.Consent.Given)
	require.Equal(t, "1.0", priv.Consent.Version)
	require.NotNil(t, priv.Consent.Timestamp)
	require.NotNil(t, priv.Consent.IP)
	require.Equal(t, "203.0.113.7", *priv.Consent.IP)

	exp, err := f.privacy.Export(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", exp.Email)
	require.True(t, exp.Privacy.Consent.Given)
	require.True(t, exp.Privacy.Analytics)
	require.False(t, exp.Privacy.Marketing)
	require.Equal(t, []string{"user"}, exp.Roles)
	require.NotNil(t, exp.CreatedAt)
	require.False(t, exp.ExportedAt.IsZero())
}

func TestRecordConsent_NoAddress(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "bob@example.com", "secret1")

	priv, err := f.privacy.RecordConsent(t.Context(), "bob@example.com", service.ConsentInput{Given: true}, "")
	require.NoError(t, err)
	require.Nil(t, priv.Consent.IP)
}

func TestRecordConsent_Missing(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.privacy.RecordConsent(t.Context(), "ghost@example.com", service.ConsentInput{Given: true}, "")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUpdatePreferences_Partial(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	f.register(t, "carol@example.com", "secret1")

	_, err := f.privacy.RecordConsent(ctx, "carol@example.com",
		service.ConsentInput{Given: true, Analytics: true, Marketing: true}, "")
	require.NoError(t, err)

	off := false
	priv, err := f.privacy.UpdatePreferences(ctx, "carol@example.com", service.PreferencesInput{Marketing: &off})
	require.NoError(t, err)
	require.True(t, priv.Analytics, "untouched")
	require.False(t, priv.Marketing)
	require.True(t, priv.Consent.Given)

	priv, err = f.privacy.UpdatePreferences(ctx, "carol@example.com", service.PreferencesInput{})
	require.NoError(t, err)
	require.True(t, priv.Analytics)
	require.False(t, priv.Marketing)

	_, err = f.privacy.UpdatePreferences(ctx, "ghost@example.com", service.PreferencesInput{Marketing: &off})
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestAllows(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	f.register(t, "dan@example.com", "secret1")

	ok, err := f.privacy.Allows(ctx, "dan@example.com", domain.ConsentAnalytics)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = f.privacy.RecordConsent(ctx, "dan@example.com", service.ConsentInput{Given: true, Analytics: true}, "")
	require.NoError(t, err)

	ok, err = f.privacy.Allows(ctx, "dan@example.com", domain.ConsentAnalytics)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.privacy.Allows(ctx, "dan@example.com", domain.ConsentMarketing)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = f.privacy.Allows(ctx, "ghost@example.com", domain.ConsentAnalytics)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestExport_UndecryptableFieldsAreNull(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()

	_, err := f.accounts.Register(ctx, service.RegisterInput{
		Email:          "erin@example.com",
		Password:       "secret1",
		AdditionalData: map[string]string{"displayName": "Erin"},
	})
	require.NoError(t, err)

	foreign, err := newCipher(t).Encrypt("elsewhere")
	require.NoError(t, err)
	_, err = f.store.Users().Update(ctx, "erin@example.com", func(u *domain.User) error {
		u.AdditionalData["location"] = foreign
		return nil
	})
	require.NoError(t, err)

	exp, err := f.privacy.Export(ctx, "erin@example.com")
	require.NoError(t, err)
	require.Len(t, exp.AdditionalData, 2)
	require.NotNil(t, exp.AdditionalData["displayName"])
	require.Equal(t, "Erin", *exp.AdditionalData["displayName"])
	require.Contains(t, exp.AdditionalData, "location")
	require.Nil(t, exp.AdditionalData["location"])
}

func TestEraseThenExport(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	f.register(t, "fay@example.com", "secret1")

	require.NoError(t, f.privacy.Erase(ctx, "fay@example.com"))

	_, err := f.store.Users().FindByEmail(ctx, "fay@example.com")
	require.Error(t, err)

	_, err = f.privacy.Export(ctx, "fay@example.com")
	require.ErrorIs(t, err, service.ErrUserNotFound)

	require.ErrorIs(t, f.privacy.Erase(ctx, "fay@example.com"), service.ErrUserNotFound)
}
