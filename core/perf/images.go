package perf

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"strings"

	"github.com/huangsam/vcxscore/schema"
)

// isCapture reports whether base names a captured image rather than an
// analyzer artifact.
func isCapture(base string) bool {
	lower := strings.ToLower(base)
	for _, kw := range schema.AnalyzerInternalKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// bytesPerPixel returns fileSize / (width * height * 3) of one JPEG.
func (e *Evaluator) bytesPerPixel(path string) (float64, error) {
	info, err := e.FS.Stat(path)
	if err != nil {
		return 0, err
	}
	f, err := e.FS.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a readable JPEG: %v", schema.ErrParse, path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, fmt.Errorf("%w: %s has no pixels", schema.ErrDegenerateGuard, path)
	}
	return float64(info.Size()) / float64(cfg.Width*cfg.Height*3), nil
}

// measureCompressionLoss averages the per-folder mean bytes per pixel of
// every scenario folder.
func (e *Evaluator) measureCompressionLoss(spec schema.PerformanceMetricSpec) (float64, error) {
	var perFolder []float64
	for _, dir := range e.dirs(spec.Folders...) {
		files, err := e.glob([]string{dir}, []string{"*.jpg", "*.jpeg", "*.JPG", "*.JPEG"}, isCapture)
		if err != nil {
			return 0, err
		}
		if len(files) == 0 {
			continue
		}
		ratios := make([]float64, 0, len(files))
		for _, path := range files {
			r, err := e.bytesPerPixel(path)
			if err != nil {
				return 0, err
			}
			ratios = append(ratios, r)
		}
		perFolder = append(perFolder, mean(ratios))
	}
	if len(perFolder) == 0 {
		return 0, fmt.Errorf("%w: no JPEG captures for %s", schema.ErrNoPerformanceData, spec.Name)
	}
	return mean(perFolder), nil
}
