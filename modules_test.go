package userforms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tinywasm/fmt"

	"github.com/tinywasm/userforms"
)

func TestValidateSignup(t *testing.T) {
	valid := func() userforms.SignupData {
		return userforms.SignupData{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "password123"}
	}
	tests := []struct {
		name   string
		modify func(d *userforms.SignupData)
		want   error
	}{
		{"valid", func(d *userforms.SignupData) {}, nil},
		{"hyphen and apostrophe", func(d *userforms.SignupData) { d.FirstName, d.LastName = "Jean-Luc", "O'Neil" }, nil},
		{"accented", func(d *userforms.SignupData) { d.FirstName = "José" }, nil},
		{"missing first name", func(d *userforms.SignupData) { d.FirstName = "" }, userforms.ErrRequired},
		{"digits in name", func(d *userforms.SignupData) { d.LastName = "R2D2" }, userforms.ErrInvalidName},
		{"missing email", func(d *userforms.SignupData) { d.Email = "" }, userforms.ErrRequired},
		{"email without at", func(d *userforms.SignupData) { d.Email = "not-an-email" }, userforms.ErrInvalidEmail},
		{"email without domain dot", func(d *userforms.SignupData) { d.Email = "ada@example" }, userforms.ErrInvalidEmail},
		{"email with two ats", func(d *userforms.SignupData) { d.Email = "ada@ex@ample.com" }, userforms.ErrInvalidEmail},
		{"email with space", func(d *userforms.SignupData) { d.Email = "ada @example.com" }, userforms.ErrInvalidEmail},
		{"missing password", func(d *userforms.SignupData) { d.Password = "" }, userforms.ErrRequired},
		{"short password", func(d *userforms.SignupData) { d.Password = "abc1234" }, userforms.ErrWeakPassword},
		// Seven characters, fourteen bytes.
		{"short multibyte password", func(d *userforms.SignupData) { d.Password = "ñññññññ" }, userforms.ErrWeakPassword},
		{"eight multibyte characters", func(d *userforms.SignupData) { d.Password = "ñandúes1" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.modify(&d)
			err := userforms.ValidateSignup(&d)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateProfile(t *testing.T) {
	d := userforms.ProfileData{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	assert.NoError(t, userforms.ValidateProfile(&d))

	d.Email = "grace"
	assert.ErrorIs(t, userforms.ValidateProfile(&d), userforms.ErrInvalidEmail)

	d.Email = "grace@example.com"
	d.LastName = ""
	assert.ErrorIs(t, userforms.ValidateProfile(&d), userforms.ErrRequired)
}

func TestFormDataSchemaMatchesInputNames(t *testing.T) {
	names := func(schema []fmt.Field) []string {
		var out []string
		for _, f := range schema {
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, []string{userforms.FieldEmail, userforms.FieldPassword}, names((&userforms.LoginData{}).Schema()))
	assert.Equal(t, []string{userforms.FieldFirstName, userforms.FieldLastName, userforms.FieldEmail, userforms.FieldPassword},
		names((&userforms.SignupData{}).Schema()))
	assert.Equal(t, []string{userforms.FieldFirstName, userforms.FieldLastName, userforms.FieldEmail},
		names((&userforms.ProfileData{}).Schema()))

	d := userforms.SignupData{FirstName: "Ada"}
	ptrs := d.Pointers()
	*ptrs[1].(*string) = "Lovelace"
	assert.Equal(t, "Lovelace", d.LastName)
}
