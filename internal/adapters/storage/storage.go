package storage

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"minibadge/internal/domain"
)

const maxSlugInName = 50

// Config selects and configures the badge image store.
type Config struct {
	Provider      string // "local" (default) or "cloudinary"
	LocalRoot     string
	CloudinaryURL string
}

// NewImageStore creates an image store from config.
func NewImageStore(config Config, logger *slog.Logger) (domain.ImageStore, error) {
	switch config.Provider {
	case "cloudinary":
		return NewCloudinaryStore(config.CloudinaryURL)
	case "local", "":
		return NewLocalStore(config.LocalRoot)
	default:
		logger.Warn("unknown image store, using local", "provider", config.Provider)
		return NewLocalStore(config.LocalRoot)
	}
}

// imageName builds the stored path of a badge image:
// badge/image_<slug, at most 50 chars>_<unix seconds>_<0000-0999>.png
func imageName(slug string, now time.Time, n int) string {
	if len(slug) > maxSlugInName {
		slug = slug[:maxSlugInName]
	}
	return fmt.Sprintf("badge/image_%s_%d_%04d.png", slug, now.Unix(), n)
}

func newImageName(slug string) string {
	return imageName(slug, time.Now(), rand.IntN(1000))
}

// checkImage rejects empty uploads and anything that does not sniff as an image.
func checkImage(img *domain.ImageUpload) error {
	if img == nil || len(img.Data) == 0 {
		return fmt.Errorf("%w: image is empty", domain.ErrValidation)
	}
	if ct := http.DetectContentType(img.Data); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: %q is not an image (%s)", domain.ErrValidation, img.Filename, ct)
	}
	return nil
}
