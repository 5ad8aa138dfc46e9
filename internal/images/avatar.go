package images

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"sync"

	_ "image/png"

	"github.com/google/uuid"
	"github.com/markhub/markhub/internal/profile"
	"github.com/markhub/markhub/pkg/apperr"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ObjectStore is the slice of the storage layer the image services need.
// Satisfied by storage.MinIOStorage.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type sizeSpec struct {
	tag  string
	w, h int
}

// The five fixed avatar renditions.
var avatarSizes = []sizeSpec{
	{"xl", 200, 200},
	{"lg", 100, 100},
	{"md", 64, 64},
	{"sm", 32, 32},
	{"tn", 24, 24},
}

const (
	avatarExt         = "jpeg"
	avatarContentType = "image/jpeg"
	avatarJPEGQuality = 80
)

// AvatarService rescales an uploaded avatar into the fixed renditions and
// stores each in the object store under {uid}/avatars/{size}.
type AvatarService struct {
	store        ObjectStore
	maxMegabytes int
}

func NewAvatarService(store ObjectStore, maxMegabytes int) *AvatarService {
	return &AvatarService{store: store, maxMegabytes: maxMegabytes}
}

func avatarKey(uid, tag string) string {
	return uid + "/avatars/" + tag
}

// RescaleAndUpload validates the data-URL input, rejects animated (gif) and
// oversized avatars before any storage call, then rescales and uploads all
// renditions concurrently. Any single failure fails the whole operation.
func (s *AvatarService) RescaleAndUpload(ctx context.Context, uid, dataURL string) (profile.Avatar, error) {
	img, err := Parse(dataURL, s.maxMegabytes)
	if err != nil {
		return nil, err
	}
	if img.Extension == "gif" {
		return nil, apperr.InvalidArgument("invalid extension of avatar")
	}

	src, _, err := image.Decode(bytes.NewReader(img.Buffer))
	if err != nil {
		return nil, apperr.InvalidArgument("avatar is not a decodable image")
	}

	var mu sync.Mutex
	avatar := make(profile.Avatar, len(avatarSizes))

	g, gctx := errgroup.WithContext(ctx)
	for _, size := range avatarSizes {
		g.Go(func() error {
			dst := image.NewRGBA(image.Rect(0, 0, size.w, size.h))
			draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: avatarJPEGQuality}); err != nil {
				return err
			}

			key := avatarKey(uid, size.tag)
			if err := s.store.Upload(gctx, key, buf.Bytes(), avatarContentType); err != nil {
				return err
			}

			mu.Lock()
			avatar[size.tag] = profile.Rendition{
				ID:     uuid.NewString(),
				URL:    s.store.PublicURL(key),
				Width:  size.w,
				Height: size.h,
				Ext:    avatarExt,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("failed to store avatar")
	}
	return avatar, nil
}

// Remove deletes every rendition of the caller's avatar from the object store.
func (s *AvatarService) Remove(ctx context.Context, uid string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, size := range avatarSizes {
		g.Go(func() error {
			return s.store.Delete(gctx, avatarKey(uid, size.tag))
		})
	}
	if err := g.Wait(); err != nil {
		return apperr.Internal("failed to remove avatar")
	}
	return nil
}
