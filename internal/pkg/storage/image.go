package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedImage is returned when the upload is not a JPEG, PNG or GIF.
var ErrUnsupportedImage = errors.New("unsupported image type")

var imageFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

// ImageProcessor normalizes uploaded icons.
type ImageProcessor struct {
	quality int
}

// NewImageProcessor creates a new ImageProcessor encoding JPEG thumbnails at quality 80.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{quality: 80}
}

// DetectImage sniffs the content type and returns the matching file extension.
func DetectImage(content []byte) (contentType, ext string, err error) {
	contentType = http.DetectContentType(content)
	format, ok := imageFormats[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}
	switch format {
	case imaging.PNG:
		ext = ".png"
	case imaging.GIF:
		ext = ".gif"
	default:
		ext = ".jpg"
	}
	return contentType, ext, nil
}

// GenerateThumbnail fits the image into maxWidth x maxHeight and returns a JPEG.
// EXIF orientation is applied before resizing.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbnail := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumbnail, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}
