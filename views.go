package userforms

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/tinywasm/form"
)

// htmlWriter keeps the first write error so views can be written straight
// through.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *htmlWriter) flag(name string, on bool) {
	if on {
		h.raw(" " + name)
	}
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func view(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Page wraps body in the document shell.
func Page(title string, body templ.Component) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><script src="https://unpkg.com/htmx.org@2.0.4"></script></head><body>`)
		h.component(ctx, body)
		h.raw(`</body></html>`)
	})
}

// writeField opens the field block. The input markup comes from fm.
func writeField(h *htmlWriter, fm *form.Form, f Field) {
	id, input := renderInput(fm, f)
	h.raw(`<div><label`)
	h.attr("for", id)
	h.raw(`>`)
	h.text(f.Label)
	h.raw(`</label>`)
	h.raw(input)
}

func writeMessage(h *htmlWriter, s Status) {
	if s.Message == "" {
		return
	}
	class := "text-center text-green-500"
	role := "status"
	if s.Failed() {
		class = "text-center text-red-500"
		role = "alert"
	}
	h.raw(`<div`)
	h.attr("class", class)
	h.attr("role", role)
	h.raw(`>`)
	h.text(s.Message)
	h.raw(`</div>`)
}

func writeSubmit(h *htmlWriter, label string, pending bool) {
	h.raw(`<button type="submit" class="w-full"`)
	h.flag("disabled", pending)
	h.raw(`>`)
	if pending {
		h.raw(`<span class="spinner" aria-label="Loading"></span>`)
	} else {
		h.text(label)
	}
	h.raw(`</button>`)
}

// AuthFormView renders f. providers adds one external login link each.
func AuthFormView(f *AuthForm, providers []string) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		action := "/" + string(f.Mode())
		status := f.Status()

		h.raw(`<form method="post" class="auth-form"`)
		h.attr("action", action)
		h.attr("hx-post", action)
		h.raw(` hx-target="this" hx-swap="outerHTML">`)
		h.raw(`<h1>`)
		h.text(f.Title())
		h.raw(`</h1>`)

		for _, field := range f.Fields() {
			writeField(h, f.schemaForm(), field)
			if field.Name == FieldPassword {
				if advice := f.Advice(); advice != "" {
					h.raw(`<p class="hint">`)
					h.text(advice)
					h.raw(`</p>`)
				} else {
					h.raw(`<a href="/forgot-password">Forgot your password?</a>`)
				}
			}
			h.raw(`</div>`)
		}

		writeMessage(h, status)
		writeSubmit(h, f.Title(), status.Loading())

		if f.Mode() == ModeLogin {
			for _, p := range providers {
				h.raw(`<a class="oauth"`)
				h.attr("href", "/oauth/"+p)
				h.raw(`>Login with `)
				h.text(p)
				h.raw(`</a>`)
			}
			h.raw(`<p>Don't have an account? <a href="/signup">Sign up</a></p>`)
		} else {
			h.raw(`<p>Already have an account? <a href="/login">Login</a></p>`)
		}
		h.raw(`</form>`)
	})
}

// AvatarPreview is the swappable avatar image.
func AvatarPreview(url string, uploading bool) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		class := "avatar"
		if uploading {
			class += " opacity-50"
		}
		h.raw(`<div id="avatar-preview"><img alt="Profile avatar" width="128" height="128"`)
		h.attr("class", class)
		h.attr("src", url)
		h.raw(`></div>`)
	})
}

func ProfileFormView(f *UserProfileForm) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		status := f.Status()
		avatar := f.AvatarField()

		h.raw(`<form method="post" action="/profile" enctype="multipart/form-data" class="profile-form"`)
		h.raw(` hx-post="/profile" hx-encoding="multipart/form-data" hx-target="this" hx-swap="outerHTML">`)
		h.component(ctx, AvatarPreview(f.AvatarURL(), false))
		h.raw(`<div><input class="hidden"`)
		h.attr("type", avatar.Type)
		h.attr("id", avatar.Name)
		h.attr("name", avatar.Name)
		h.attr("accept", avatar.Accept)
		h.raw(` hx-post="/profile/avatar" hx-trigger="change" hx-target="#avatar-preview" hx-swap="outerHTML" hx-encoding="multipart/form-data">`)
		h.raw(`<label`)
		h.attr("for", avatar.Name)
		h.raw(`>`)
		h.text(avatar.Label)
		h.raw(`</label></div>`)

		for _, field := range f.Fields() {
			writeField(h, profileForm, field)
			if field.Name == FieldEmail && f.EmailUnverified() {
				h.raw(`<p class="text-amber-600">Email not verified</p>`)
			}
			h.raw(`</div>`)
		}

		writeMessage(h, status)
		writeSubmit(h, "Update Profile", f.Pending())
		h.raw(`</form>`)
	})
}

func DashboardView(u UserRecord) templ.Component {
	return view(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<main class="dashboard"><h1>Welcome, `)
		h.text(u.Name)
		h.raw(`</h1>`)
		if u.Image != "" {
			h.raw(`<img alt="Profile avatar" width="64" height="64"`)
			h.attr("src", u.Image)
			h.raw(`>`)
		}
		h.raw(`<p>`)
		h.text(u.Email)
		h.raw(`</p><a href="/profile">Edit profile</a>`)
		h.raw(`<form method="post" action="/logout"><button type="submit">Log out</button></form></main>`)
	})
}
