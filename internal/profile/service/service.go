package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/markhub/markhub/internal/profile"
	"github.com/markhub/markhub/internal/profile/repository"
	"github.com/markhub/markhub/internal/stamps"
	"github.com/markhub/markhub/pkg/apperr"
	"github.com/markhub/markhub/pkg/logger"
)

// AvatarStore is the slice of the image pipeline the profile service needs.
// Satisfied by images.AvatarService.
type AvatarStore interface {
	RescaleAndUpload(ctx context.Context, uid, dataURL string) (profile.Avatar, error)
	Remove(ctx context.Context, uid string) error
}

// Avatar operation selectors for Update.
const (
	AvatarNoop   = "noop"
	AvatarUpdate = "update"
	AvatarRemove = "remove"
)

// AvatarOp carries the requested avatar change. Type defaults to noop when
// empty; Data is the data-URL payload for update.
type AvatarOp struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Payload is the profile update request. Nil pointer fields clear the stored
// value, matching the overwrite semantics of the underlying record.
type Payload struct {
	DisplayName *string  `json:"displayName"`
	Bio         *string  `json:"bio"`
	BlogURL     *string  `json:"blogUrl"`
	FBURL       *string  `json:"fbUrl"`
	GithubURL   *string  `json:"githubUrl"`
	TwitterURL  *string  `json:"twitterUrl"`
	LinkedInURL *string  `json:"linkedInUrl"`
	Avatar      AvatarOp `json:"avatar"`
}

var displayNameRgx = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,30}$`)

const maxBioLength = 250

// Service implements the profile operations on top of the repository and the
// avatar pipeline.
type Service struct {
	repo    repository.Repository
	avatars AvatarStore
}

func New(repo repository.Repository, avatars AvatarStore) *Service {
	return &Service{repo: repo, avatars: avatars}
}

// Get returns the caller's profile, or an empty one when none has been
// created yet. Profiles are created lazily on first update, so a missing
// record is not an error.
func (s *Service) Get(ctx context.Context, uid string) (*profile.Profile, error) {
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		logger.Errorf("profile get %s: %v", uid, err)
		return nil, apperr.Internal("failed to load profile")
	}
	if p == nil {
		return &profile.Profile{}, nil
	}
	return p, nil
}

// Update overwrites the caller's profile with the payload, creating the
// record on first use. The display name, when set, must be unique across all
// users. Avatar changes run through the image pipeline before the profile is
// stored so a failed upload never leaves dangling rendition URLs.
func (s *Service) Update(ctx context.Context, uid string, payload Payload) (*profile.Profile, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, uid)
	if err != nil {
		logger.Errorf("profile load %s: %v", uid, err)
		return nil, apperr.Internal("failed to load profile")
	}

	if payload.DisplayName != nil {
		changed := current == nil || current.DisplayName == nil || *current.DisplayName != *payload.DisplayName
		if changed {
			taken, err := s.repo.DisplayNameTaken(ctx, uid, *payload.DisplayName)
			if err != nil {
				logger.Errorf("display name scan: %v", err)
				return nil, apperr.Internal("failed to check display name")
			}
			if taken {
				return nil, apperr.Exists("this display name is already taken by other user")
			}
		}
	}

	next := profile.Profile{
		DisplayName: payload.DisplayName,
		Bio:         payload.Bio,
		BlogURL:     payload.BlogURL,
		FBURL:       payload.FBURL,
		GithubURL:   payload.GithubURL,
		TwitterURL:  payload.TwitterURL,
		LinkedInURL: payload.LinkedInURL,
		MDate:       stamps.Now(),
	}
	if current == nil {
		next.ID = uuid.NewString()
		next.CDate = next.MDate
	} else {
		next.ID = current.ID
		next.CDate = current.CDate
		next.Avatar = current.Avatar
		next.MDate = stamps.Next(current.MDate)
	}

	// Renditions are deleted only after the avatar-less profile is stored,
	// so a failed write never leaves the profile pointing at purged objects.
	removeRenditions := false
	switch payload.Avatar.Type {
	case "", AvatarNoop:
	case AvatarUpdate:
		avatar, err := s.avatars.RescaleAndUpload(ctx, uid, payload.Avatar.Data)
		if err != nil {
			return nil, err
		}
		next.Avatar = avatar
	case AvatarRemove:
		next.Avatar = nil
		removeRenditions = true
	default:
		return nil, apperr.InvalidArgument("unknown avatar operation")
	}

	if err := s.repo.Set(ctx, uid, next); err != nil {
		logger.Errorf("profile store %s: %v", uid, err)
		return nil, apperr.Internal("failed to store profile")
	}
	if removeRenditions {
		if err := s.avatars.Remove(ctx, uid); err != nil {
			logger.Warnf("failed to remove avatar renditions for %s: %v", uid, err)
		}
	}
	return &next, nil
}

func validatePayload(p Payload) error {
	if p.DisplayName != nil && !displayNameRgx.MatchString(*p.DisplayName) {
		return apperr.InvalidArgument("display name must be 2-30 letters, digits, '-' or '_'")
	}
	if p.Bio != nil && len(strings.TrimSpace(*p.Bio)) > maxBioLength {
		return apperr.InvalidArgument("bio is too long")
	}
	for _, u := range []*string{p.BlogURL, p.FBURL, p.GithubURL, p.TwitterURL, p.LinkedInURL} {
		if u == nil {
			continue
		}
		if !strings.HasPrefix(*u, "http://") && !strings.HasPrefix(*u, "https://") {
			return apperr.InvalidArgument("links must be absolute http(s) URLs")
		}
	}
	return nil
}
