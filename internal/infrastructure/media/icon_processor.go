// Package media provides image processing for the installable app icon set.
package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

// iconSizes lists the square icon variants the web manifest and notification
// badge reference.
var iconSizes = []int{192, 72}

// IconProcessor renders the source logo into the icon set served from the
// images directory.
type IconProcessor struct {
	sourcePath string
	outputDir  string
	logger     *logging.ChanneledLogger
}

// NewIconProcessor creates an IconProcessor for the given source logo and output directory.
func NewIconProcessor(sourcePath, outputDir string, logger *logging.ChanneledLogger) *IconProcessor {
	return &IconProcessor{
		sourcePath: sourcePath,
		outputDir:  outputDir,
		logger:     logger,
	}
}

// GenerateIconSet produces PNG and WebP variants of the source logo at each
// registered icon size. Returns the paths written.
func (p *IconProcessor) GenerateIconSet() ([]string, error) {
	img, err := imaging.Open(p.sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon source %s: %w", p.sourcePath, err)
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create icon output directory: %w", err)
	}

	var written []string
	for _, size := range iconSizes {
		resized := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

		pngPath := filepath.Join(p.outputDir, iconName(size, "png"))
		if err := imaging.Save(resized, pngPath); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", pngPath, err)
		}
		written = append(written, pngPath)

		// WebP saves go through the webp library, NOT imaging.Save()
		webpPath := filepath.Join(p.outputDir, iconName(size, "webp"))
		if err := webp.Save(webpPath, resized, &webp.Options{Quality: 90}); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", webpPath, err)
		}
		written = append(written, webpPath)

		p.logger.Startup().Debug("Generated icon variant", "size", size, "png", pngPath, "webp", webpPath)
	}

	return written, nil
}

func iconName(size int, ext string) string {
	if size == 72 {
		return fmt.Sprintf("badge-%dx%d.%s", size, size, ext)
	}
	return fmt.Sprintf("icon-%dx%d.%s", size, size, ext)
}
