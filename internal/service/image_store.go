package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"recipebox/internal/config"
	"recipebox/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	masterMaxSize = 2048
	thumbMaxSize  = 256
	jpegQuality   = 82
	webpQuality   = 70
)

// ImageStore validates, normalizes and persists recipe images under the
// media root. Each upload is re-encoded to a JPEG master plus a WebP
// thumbnail; the stored path is relative to the media root so the database
// stays portable across hosts.
type ImageStore struct {
	root           string
	mediaURL       string
	maxUploadBytes int64
}

// NewImageStore returns an ImageStore bound to the configured media root.
func NewImageStore(cfg *config.Config) *ImageStore {
	return &ImageStore{
		root:           cfg.MediaRoot,
		mediaURL:       strings.TrimRight(cfg.MediaURL, "/"),
		maxUploadBytes: int64(cfg.ImageMaxUploadMB) * 1024 * 1024,
	}
}

// Save processes the uploaded bytes and writes the master image and its
// thumbnail for the given recipe. It returns the master's path relative to
// the media root.
func (s *ImageStore) Save(recipeID uint, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewFieldValidationError("image", "No file uploaded")
	}
	if int64(len(content)) > s.maxUploadBytes {
		return "", models.NewFieldValidationError("image", fmt.Sprintf("File too large (max %dMB)", s.maxUploadBytes/(1024*1024)))
	}
	if !isAllowedImageMIME(http.DetectContentType(content)) {
		return "", models.NewFieldValidationError("image", "Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewFieldValidationError("image", "Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return "", models.NewFieldValidationError("image", "Unsupported image format")
	}

	master := resizeToFit(decoded, masterMaxSize, masterMaxSize)
	thumb := resizeToFit(decoded, thumbMaxSize, thumbMaxSize)

	encodedMaster, err := encodeJPEG(master, jpegQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	encodedThumb, err := encodeWebP(thumb, webpQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	rel := filepath.ToSlash(filepath.Join("recipes", fmt.Sprint(recipeID), name+".jpg"))
	masterAbs := filepath.Join(s.root, filepath.FromSlash(rel))
	thumbAbs := thumbPath(masterAbs)

	if err := writeBytesToFile(masterAbs, encodedMaster); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writeBytesToFile(thumbAbs, encodedThumb); err != nil {
		_ = os.Remove(masterAbs)
		return "", models.NewInternalError(err)
	}
	return rel, nil
}

// Remove deletes the master image and its thumbnail. Missing files are not
// an error; the database row is the source of truth.
func (s *ImageStore) Remove(rel string) {
	if rel == "" {
		return
	}
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	_ = os.Remove(abs)
	_ = os.Remove(thumbPath(abs))
}

// URL maps a stored relative path to its public media URL, or "" when the
// recipe has no image.
func (s *ImageStore) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.mediaURL + "/" + rel
}

// Root returns the media root directory for static mounting.
func (s *ImageStore) Root() string {
	return s.root
}

func thumbPath(masterAbs string) string {
	return strings.TrimSuffix(masterAbs, ".jpg") + "_thumb.webp"
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
