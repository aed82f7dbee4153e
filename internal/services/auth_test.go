package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin_ProvisionsUserOnFirstSight(t *testing.T) {
	env := newTestEnv(t)

	user, token, err := env.auth.Login(context.Background(), "sarah.johnson@example.com", "whatever")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Sarah Johnson", user.Name)
	require.Equal(t, "sarah.johnson@example.com", user.Email)
	require.Equal(t, "Data Analyst", user.Role)
	require.NotEmpty(t, user.PasswordHash)

	rd, err := env.auth.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, rd.UserID)
	require.Equal(t, user.Email, rd.Email)
}

func TestLogin_SecondLoginReusesAccount(t *testing.T) {
	env := newTestEnv(t)

	first, _, err := env.auth.Login(context.Background(), "repeat@example.com", "pw")
	require.NoError(t, err)
	require.Nil(t, first.LastLogin)

	second, _, err := env.auth.Login(context.Background(), "Repeat@Example.com ", "different")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.LastLogin)
}

func TestLogin_RejectsMalformedInput(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.auth.Login(context.Background(), "", "pw")
	require.ErrorIs(t, err, ErrValidation)
	_, _, err = env.auth.Login(context.Background(), "not-an-email", "pw")
	require.ErrorIs(t, err, ErrValidation)
	_, _, err = env.auth.Login(context.Background(), "a@b.com", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.ParseToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestProfile_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Profile(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)

	user, err := env.auth.Profile(env.ctx)
	require.NoError(t, err)
	require.Equal(t, env.user.ID, user.ID)
}

func TestUpdateProfile_AppliesChanges(t *testing.T) {
	env := newTestEnv(t)

	name := "Renamed Analyst"
	image := "https://example.com/avatar.png"
	user, err := env.auth.UpdateProfile(env.ctx, &name, &image)
	require.NoError(t, err)
	require.Equal(t, name, user.Name)
	require.NotNil(t, user.ProfileImage)
	require.Equal(t, image, *user.ProfileImage)

	blank := "   "
	user, err = env.auth.UpdateProfile(env.ctx, &blank, nil)
	require.NoError(t, err)
	require.Equal(t, name, user.Name)
}

func TestDisplayNameFromEmail(t *testing.T) {
	cases := map[string]string{
		"sarah.johnson@x.com": "Sarah Johnson",
		"admin@x.com":         "Admin",
		"jo_van-dam@x.com":    "Jo Van Dam",
	}
	for in, want := range cases {
		if got := displayNameFromEmail(in); got != want {
			t.Fatalf("displayNameFromEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
