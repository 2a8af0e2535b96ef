package userforms

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultAvatarURL is shown when the user has no avatar and nothing is selected.
const DefaultAvatarURL = "https://imgix.cosmicjs.com/fe57f880-b0a3-11ee-9844-f9a09795e2a3-Visual_dark.png?w=300&h=300"

const (
	profileUpdatedMessage = "Profile updated successfully!"
	profileErrorMessage   = "Error updating profile"
)

// TokenSource returns the previously stored session token, or "".
type TokenSource func() string

type ProfileFormDeps struct {
	Update   ProfileUpdater
	Session  SessionManager
	Previews *PreviewStore
	Token    TokenSource
	Logger   logrus.FieldLogger
	Metrics  *Metrics
}

// UserProfileForm edits a profile seeded from a ProfileUser.
type UserProfileForm struct {
	user    ProfileUser
	deps    ProfileFormDeps
	tracker statusTracker

	mu      sync.Mutex
	preview string
	draft   map[string]string
}

func NewUserProfileForm(user ProfileUser, deps ProfileFormDeps) *UserProfileForm {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Token == nil {
		deps.Token = func() string { return "" }
	}
	deps.Logger = deps.Logger.WithFields(logrus.Fields{"form": "profile", "user_id": user.ID})
	return &UserProfileForm{user: user, deps: deps}
}

func (f *UserProfileForm) User() ProfileUser { return f.user }

// EmailUnverified drives the advisory notice under the email input.
func (f *UserProfileForm) EmailUnverified() bool { return !f.user.Metadata.EmailVerified }

func (f *UserProfileForm) Status() Status { return f.tracker.get() }

// Pending reports whether a submit is running.
func (f *UserProfileForm) Pending() bool { return f.tracker.get().Loading() }

// Message is the user-facing outcome of the last submit.
func (f *UserProfileForm) Message() string { return f.tracker.get().Message }

// AvatarURL is the image currently displayed. A preview that has expired
// from the store is dropped in favour of the stored avatar.
func (f *UserProfileForm) AvatarURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.preview != "" && f.previewLive(f.preview) {
		return f.preview
	}
	f.preview = ""
	if a := f.user.Metadata.Avatar; a != nil && a.ImgixURL != "" {
		return a.ImgixURL
	}
	return DefaultAvatarURL
}

func (f *UserProfileForm) previewLive(url string) bool {
	if f.deps.Previews == nil {
		return false
	}
	id, ok := PreviewID(url)
	if !ok {
		return false
	}
	_, ok = f.deps.Previews.Get(id)
	return ok
}

// SelectAvatar shows file immediately through a preview reference. Nothing is
// uploaded until Submit. The reference it replaces is released.
func (f *UserProfileForm) SelectAvatar(file *FileField) (string, error) {
	if file == nil {
		return f.AvatarURL(), nil
	}
	if f.deps.Previews == nil {
		return f.AvatarURL(), nil
	}
	url, err := f.deps.Previews.Create(file)
	if err != nil {
		return f.AvatarURL(), err
	}

	f.mu.Lock()
	previous := f.preview
	f.preview = url
	f.mu.Unlock()

	if previous != "" {
		f.deps.Previews.Revoke(previous)
	}
	return url, nil
}

// Close releases the preview reference held by the form.
func (f *UserProfileForm) Close() {
	f.mu.Lock()
	previous := f.preview
	f.preview = ""
	f.mu.Unlock()
	if previous != "" && f.deps.Previews != nil {
		f.deps.Previews.Revoke(previous)
	}
}

func (f *UserProfileForm) Fields() []Field {
	m := f.user.Metadata
	fields := []Field{
		{Name: FieldFirstName, Label: "First Name", Type: "text", Required: true, Value: m.FirstName, Autocomplete: "given-name"},
		{Name: FieldLastName, Label: "Last Name", Type: "text", Required: true, Value: m.LastName, Autocomplete: "family-name"},
		{Name: FieldEmail, Label: "Email", Type: "email", Required: true, Value: m.Email, Autocomplete: "email"},
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range fields {
		if v, ok := f.draft[fields[i].Name]; ok {
			fields[i].Value = v
		}
	}
	return fields
}

// AvatarField is the hidden file input behind the "Change Avatar" label.
func (f *UserProfileForm) AvatarField() Field {
	return Field{Name: FieldAvatar, Label: "Change Avatar", Type: "file", Accept: "image/*"}
}

// Submit sends sub to the profile updater. The only error it returns is
// ErrSubmitInFlight.
func (f *UserProfileForm) Submit(ctx context.Context, sub *FormSubmission) (status Status, err error) {
	if err := f.tracker.begin(); err != nil {
		return f.tracker.get(), err
	}
	status = Status{Phase: PhaseFailed, Message: profileErrorMessage}
	defer func() {
		f.tracker.finish(status)
		f.deps.Metrics.observeSubmit("profile", status.Phase)
	}()

	f.mu.Lock()
	f.draft = sub.Values()
	f.mu.Unlock()

	status = f.submit(ctx, sub)
	return status, nil
}

func (f *UserProfileForm) submit(ctx context.Context, sub *FormSubmission) Status {
	failed := func(err error) Status {
		return Status{Phase: PhaseFailed, Message: profileErrorMessage, Err: err}
	}
	if f.deps.Update == nil {
		return failed(nil)
	}

	result, err := f.deps.Update.UpdateUserProfile(ctx, f.user.ID, sub)
	if err != nil {
		f.deps.Logger.WithError(err).Error("profile update failed")
		return failed(err)
	}
	if !result.Success || result.Data == nil {
		f.deps.Logger.WithField("reason", result.Error).Warn("profile update rejected")
		return failed(nil)
	}

	if f.deps.Session != nil {
		if err := f.deps.Session.Login(ctx, f.deps.Token(), projectRecord(result.Data)); err != nil {
			f.deps.Logger.WithError(err).Error("session refresh failed")
			return failed(err)
		}
	}
	return Status{Phase: PhaseSucceeded, Message: profileUpdatedMessage}
}

func projectRecord(d *ProfileRecord) UserRecord {
	u := UserRecord{ID: d.ID, Name: d.Title, Email: d.Metadata.Email}
	if d.Metadata.Avatar != nil {
		u.Image = d.Metadata.Avatar.ImgixURL
	}
	return u
}
