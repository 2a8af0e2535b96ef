package userforms_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywasm/userforms"
)

func newTestProfileService(t *testing.T) (*userforms.ProfileService, *userforms.Store, *userforms.MediaStore) {
	t.Helper()
	store := newTestStore(t)
	media, err := userforms.NewMediaStore(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)
	return userforms.NewProfileService(store, media, quietLogger()), store, media
}

func TestProfileServiceUpdates(t *testing.T) {
	svc, store, media := newTestProfileService(t)
	acct, err := store.CreateUser("ada@example.com", "Ada", "Lovelace")
	require.NoError(t, err)

	sub := userforms.NewSubmission(map[string]string{
		"first_name": " Grace ", "last_name": "Hopper", "email": "grace@example.com",
	})
	sub.SetFile("avatar", pngFile(t, 8, 8))

	res, err := svc.UpdateUserProfile(context.Background(), acct.ID, sub)
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Data)
	assert.Equal(t, acct.ID, res.Data.ID)
	assert.Equal(t, "Grace Hopper", res.Data.Title)
	assert.Equal(t, "grace@example.com", res.Data.Metadata.Email)
	require.NotNil(t, res.Data.Metadata.Avatar)

	avatar := res.Data.Metadata.Avatar.ImgixURL
	assert.True(t, strings.HasPrefix(avatar, userforms.MediaPathPrefix))
	assert.True(t, strings.HasSuffix(avatar, ".png"))
	_, err = os.Stat(filepath.Join(media.Dir(), strings.TrimPrefix(avatar, userforms.MediaPathPrefix)))
	assert.NoError(t, err)

	stored, err := store.GetUser(acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.FirstName)
	assert.Equal(t, avatar, stored.AvatarURL)
}

func TestProfileServiceRejections(t *testing.T) {
	svc, store, _ := newTestProfileService(t)
	acct, err := store.CreateUser("ada@example.com", "Ada", "Lovelace")
	require.NoError(t, err)
	_, err = store.CreateUser("taken@example.com", "Taken", "User")
	require.NoError(t, err)

	valid := func() map[string]string {
		return map[string]string{"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"}
	}
	notImage := userforms.NewSubmission(valid())
	notImage.SetFile("avatar", &userforms.FileField{Filename: "x.txt", Data: []byte("plain text")})

	missing := valid()
	missing["first_name"] = ""
	badEmail := valid()
	badEmail["email"] = "not an email"
	taken := valid()
	taken["email"] = "taken@example.com"

	tests := []struct {
		name string
		sub  *userforms.FormSubmission
		want string
	}{
		{"missing field", userforms.NewSubmission(missing), "Please fill in all required fields"},
		{"bad email", userforms.NewSubmission(badEmail), "Enter a valid email address"},
		{"email taken", userforms.NewSubmission(taken), "Email is already registered"},
		{"avatar not image", notImage, "Avatar must be an image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.UpdateUserProfile(context.Background(), acct.ID, tt.sub)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Nil(t, res.Data)
			assert.Equal(t, tt.want, res.Error)
		})
	}

	_, err = svc.UpdateUserProfile(context.Background(), "missing", userforms.NewSubmission(valid()))
	assert.ErrorIs(t, err, userforms.ErrNotFound)
}
