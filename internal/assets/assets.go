// Package assets loads the image resources shared by game entities.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// AsteroidSpriteFile is the sprite file name looked up in an asset directory.
const AsteroidSpriteFile = "bug.png"

//go:embed bug.png
var embeddedBug []byte

// Sprites holds decoded images. A nil image means it failed to load.
type Sprites struct {
	asteroid image.Image
}

// AsteroidSprite returns the asteroid image, or nil when unavailable.
func (s *Sprites) AsteroidSprite() image.Image {
	if s == nil {
		return nil
	}
	return s.asteroid
}

// Decode reads a PNG sprite.
func Decode(r io.Reader) (image.Image, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode sprite: %w", err)
	}
	return img, nil
}

// LoadFile decodes the PNG sprite at path.
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Load returns sprites from dir, or the built-in sprites when dir is empty.
// A sprite that fails to load is logged and left nil so entities fall back
// to procedural shapes; loading never fails the game.
func Load(dir string, logger *slog.Logger) *Sprites {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "assets")

	var (
		img image.Image
		err error
	)
	if dir == "" {
		img, err = Decode(bytes.NewReader(embeddedBug))
	} else {
		img, err = LoadFile(filepath.Join(dir, AsteroidSpriteFile))
	}
	if err != nil {
		logger.Warn("Failed to load asteroid sprite, using fallback shape", "dir", dir, "error", err)
		return &Sprites{}
	}

	logger.Debug("Asteroid sprite loaded", "dir", dir, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return &Sprites{asteroid: img}
}
