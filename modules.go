package userforms

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/tinywasm/fmt"
	_ "github.com/tinywasm/fmt/dictionary"
	"github.com/tinywasm/form"
	"github.com/tinywasm/form/input"
)

// formAction is the action byte passed to form validation. None of these
// forms is a crud operation, so no action-specific rules apply.
const formAction byte = 0

var (
	loginForm   *form.Form
	signupForm  *form.Form
	profileForm *form.Form
)

func init() {
	form.RegisterInput(
		personName("", "first_name"),
		personName("", "last_name"),
	)

	loginForm = mustForm("login", &LoginData{})
	signupForm = mustForm("signup", &SignupData{})
	profileForm = mustForm("profile", &ProfileData{})
}

func mustForm(parentID string, data fmt.Fielder) *form.Form {
	f, err := form.New(parentID, data)
	if err != nil {
		panic("userforms: mustForm: " + err.Error())
	}
	return f
}

// nameInput is a text input for given and family names.
type nameInput struct{ input.Base }

func personName(parentID, name string) input.Input {
	n := &nameInput{}
	n.Letters = true
	n.Tilde = true
	n.Characters = []rune{' ', '-', '\'', '.'}
	n.Minimum = 1
	n.Maximum = 100
	n.InitBase(parentID, name, "text")
	return n
}

func (n *nameInput) Clone(parentID, name string) input.Input { return personName(parentID, name) }

// ValidateLogin runs the login form rules over d.
func ValidateLogin(d *LoginData) error { return validateData(loginForm, d) }

// ValidateSignup runs the signup form rules over d.
func ValidateSignup(d *SignupData) error { return validateData(signupForm, d) }

// ValidateProfile runs the profile form rules over d.
func ValidateProfile(d *ProfileData) error { return validateData(profileForm, d) }

// validateData applies the input rules of fm, then the email shape and the
// password length, which the inputs do not check. Errors are one of the
// package sentinels so callers can pick a message.
func validateData(fm *form.Form, data fmt.Fielder) error {
	schema := data.Schema()
	values := fmt.ReadValues(schema, data.Pointers())

	if err := fm.ValidateData(formAction, data); err != nil {
		for i, field := range schema {
			inp := fm.Input(field.Name)
			v, _ := values[i].(string)
			if inp == nil || inp.ValidateField(v) == nil {
				continue
			}
			return fieldError(field.Name, v)
		}
		return err
	}

	for i, field := range schema {
		v, _ := values[i].(string)
		switch field.Name {
		case FieldEmail:
			if !emailShape(v) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if utf8.RuneCountInString(v) < MinPasswordLength {
				return ErrWeakPassword
			}
		}
	}
	return nil
}

func fieldError(name, value string) error {
	switch {
	case value == "":
		return ErrRequired
	case name == FieldEmail:
		return ErrInvalidEmail
	case name == FieldPassword:
		return ErrWeakPassword
	default:
		return ErrInvalidName
	}
}

// emailShape requires one @ between a local part and a dotted domain. The
// email input already restricts the character set.
func emailShape(v string) bool {
	local, domain, ok := strings.Cut(v, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

type attributeSetter interface {
	SetValues(v ...string)
	SetPlaceholder(ph string)
	SetTitle(title string)
	AddAttribute(key, value string)
}

// renderInput renders f through the input fm holds for it and returns the
// input id for the label. The inputs write attribute values verbatim, so
// everything is escaped here.
func renderInput(fm *form.Form, f Field) (id, html string) {
	tmpl := fm.Input(f.Name)
	if tmpl == nil {
		return "", ""
	}
	inp := tmpl.Clone(fm.GetID(), f.Name)
	if b, ok := inp.(attributeSetter); ok {
		if f.Value != "" && f.Type != "password" {
			b.SetValues(templ.EscapeString(f.Value))
		}
		b.SetPlaceholder(templ.EscapeString(f.Placeholder))
		b.SetTitle(templ.EscapeString(f.Label))
		b.AddAttribute("autocomplete", f.Autocomplete)
		if f.MinLength > 0 {
			b.AddAttribute("minlength", strconv.Itoa(f.MinLength))
		}
		if f.Required {
			b.AddAttribute("required", "required")
		}
		if f.AutoFocus {
			b.AddAttribute("autofocus", "autofocus")
		}
	}
	return inp.GetID(), inp.RenderHTML()
}
