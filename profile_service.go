package userforms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProfileUpdater persists a profile submission for userID.
type ProfileUpdater interface {
	UpdateUserProfile(ctx context.Context, userID string, sub *FormSubmission) (ProfileResult, error)
}

// ProfileService is the default ProfileUpdater backed by Store and MediaStore.
type ProfileService struct {
	store  *Store
	media  *MediaStore
	logger logrus.FieldLogger
}

func NewProfileService(store *Store, media *MediaStore, logger logrus.FieldLogger) *ProfileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProfileService{store: store, media: media, logger: logger.WithField("component", "profile")}
}

func (s *ProfileService) UpdateUserProfile(ctx context.Context, userID string, sub *FormSubmission) (ProfileResult, error) {
	if err := ctx.Err(); err != nil {
		return ProfileResult{}, err
	}
	d := profileData(sub)
	if err := ValidateProfile(d); err != nil {
		return ProfileResult{Error: validationMessage(err)}, nil
	}
	update := ProfileUpdate{FirstName: d.FirstName, LastName: d.LastName, Email: d.Email}

	if f := sub.File(FieldAvatar); f != nil {
		if s.media == nil {
			return ProfileResult{}, errors.New("avatar upload is not configured")
		}
		url, err := s.media.SaveImage(f)
		if errors.Is(err, ErrNotImage) {
			return ProfileResult{Error: "Avatar must be an image"}, nil
		}
		if err != nil {
			return ProfileResult{}, err
		}
		update.AvatarURL = url
	}

	a, err := s.store.UpdateProfile(userID, update)
	switch {
	case errors.Is(err, ErrEmailTaken):
		return ProfileResult{Error: "Email is already registered"}, nil
	case err != nil:
		return ProfileResult{}, errors.Wrap(err, "update profile")
	}

	s.logger.WithField("user_id", userID).Info("profile updated")
	return ProfileResult{Success: true, Data: &ProfileRecord{
		ID:       a.ID,
		Title:    a.DisplayName(),
		Metadata: a.ProfileUser().Metadata,
	}}, nil
}
