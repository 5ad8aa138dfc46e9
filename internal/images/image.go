package images

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/markhub/markhub/pkg/apperr"
)

// Example input: data:image/jpeg;base64,/9j/4AAQSkZJRgABAQE..
var dataURLRgx = regexp.MustCompile(`^\s*data:([a-zA-Z]+/[a-zA-Z]+)?(;base64)?,[a-zA-Z0-9+/]+={0,2}\s*$`)

// allowed upload extensions; the avatar pipeline additionally rejects gif.
var allowedExtensions = []string{"png", "jpeg", "jpg", "webp", "gif"}

// Image is a decoded data-URL payload.
type Image struct {
	ContentType string
	Extension   string
	Blob        string // raw base64 payload
	Buffer      []byte
}

// decode splits a data-URL into content type, extension and base64 payload.
func decode(dataURL string) (contentType, extension, blob string) {
	meta, blob, _ := strings.Cut(dataURL, ",")
	contentType = strings.TrimPrefix(strings.SplitN(meta, ";", 2)[0], "data:")
	extension = strings.TrimPrefix(contentType, "image/")
	return contentType, extension, blob
}

// Parse validates and decodes a data-URL image. Format, extension and size
// violations are invalid-argument failures raised before any persistence.
func Parse(dataURL string, maxMegabytes int) (*Image, error) {
	if !dataURLRgx.MatchString(dataURL) {
		return nil, apperr.InvalidArgument("wrong image data type")
	}

	contentType, extension, blob := decode(strings.TrimSpace(dataURL))

	supported := false
	for _, ext := range allowedExtensions {
		if ext == extension {
			supported = true
			break
		}
	}
	if !supported {
		return nil, apperr.InvalidArgument("unsupported image format, use supported one: " + strings.Join(allowedExtensions, ", "))
	}

	buffer, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, apperr.InvalidArgument("image payload is not valid base64")
	}
	if len(buffer) > maxMegabytes<<20 {
		return nil, apperr.InvalidArgument(fmt.Sprintf("max image size is %d megabytes (MB)", maxMegabytes))
	}

	return &Image{
		ContentType: contentType,
		Extension:   extension,
		Blob:        blob,
		Buffer:      buffer,
	}, nil
}
