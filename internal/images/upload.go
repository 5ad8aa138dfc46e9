package images

import (
	"context"

	"github.com/google/uuid"
	"github.com/markhub/markhub/pkg/apperr"
)

// UploadDTO describes a stored generic image.
type UploadDTO struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Extension   string `json:"extension"`
}

// UploadService stores generic image uploads under flat {uuid}.{ext} keys.
type UploadService struct {
	store        ObjectStore
	maxMegabytes int
}

func NewUploadService(store ObjectStore, maxMegabytes int) *UploadService {
	return &UploadService{store: store, maxMegabytes: maxMegabytes}
}

// Upload validates the data-URL payload and stores it publicly.
func (s *UploadService) Upload(ctx context.Context, dataURL string) (UploadDTO, error) {
	img, err := Parse(dataURL, s.maxMegabytes)
	if err != nil {
		return UploadDTO{}, err
	}

	key := uuid.NewString() + "." + img.Extension
	if err := s.store.Upload(ctx, key, img.Buffer, img.ContentType); err != nil {
		return UploadDTO{}, apperr.Internal("failed to store image")
	}

	return UploadDTO{
		ID:          key,
		URL:         s.store.PublicURL(key),
		ContentType: img.ContentType,
		Extension:   img.Extension,
	}, nil
}
