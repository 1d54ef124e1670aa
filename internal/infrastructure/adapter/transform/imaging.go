package transform

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	transformport "github.com/ama3it/image-workers-backend/internal/domain/port/transform"
)

// Output dimensions for the fixed-size transforms
const (
	resizeWidth  = 800
	resizeHeight = 600
	thumbSize    = 128
)

// ImagingTransformer implements Transformer using the imaging library. All
// transforms are pure functions of the input bytes, so the type is stateless
// and safe for concurrent use.
type ImagingTransformer struct{}

// NewImagingTransformer creates a new imaging-based transformer
func NewImagingTransformer() *ImagingTransformer {
	return &ImagingTransformer{}
}

// Apply runs the transformation for jobType against data read from sourcePath
func (t *ImagingTransformer) Apply(jobType entity.JobType, sourcePath string, data []byte) (*transformport.Result, error) {
	source, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var processed image.Image
	var suffix string
	switch jobType {
	case entity.JobGrayscale:
		processed = imaging.Grayscale(source)
		suffix = "_grey"
	case entity.JobThumbnail:
		processed = imaging.Fit(source, thumbSize, thumbSize, imaging.Lanczos)
		suffix = "_thumb"
	case entity.JobResize:
		processed = imaging.Resize(source, resizeWidth, resizeHeight, imaging.Lanczos)
		suffix = fmt.Sprintf("_resized_%dx%d", resizeWidth, resizeHeight)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedJobType, jobType)
	}

	base := path.Base(sourcePath)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)

	encoded, outExt, err := encode(processed, ext)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	return &transformport.Result{
		FileName: name + suffix + outExt,
		Data:     encoded,
	}, nil
}

// encode serializes the image in the format implied by the source extension.
// Formats the library cannot encode, WebP included, fall back to JPEG.
func encode(img image.Image, ext string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch strings.ToLower(ext) {
	case ".png":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ".png", nil
	case ".jpg", ".jpeg":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ext, nil
	default:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ".jpg", nil
	}
}
