package storage

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

type ImageProcessor struct {
	MaxBytes int64 // default: 10MB
	MaxSize  int   // pixels, cạnh dài nhất của variant "large"
}

func NewImageProcessor(maxSize int) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 1280
	}
	return &ImageProcessor{MaxBytes: 10 * 1024 * 1024, MaxSize: maxSize}
}

// Check JPEG/PNG, throw err nếu file > max bytes
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxBytes {
		return fmt.Errorf("image exceeds %dMB", p.MaxBytes/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// VariantSizes: large = MaxSize, medium = 1/2, small = 1/4
func (p *ImageProcessor) VariantSizes() map[string]int {
	return map[string]int{
		"large":  p.MaxSize,
		"medium": p.MaxSize / 2,
		"small":  p.MaxSize / 4,
	}
}

// RenderVariants trả về map[variant][]byte: fit trong box → enc JPEG chất lượng 85
func (p *ImageProcessor) RenderVariants(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := map[string][]byte{}
	for name, size := range p.VariantSizes() {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", name, err)
		}
		variants[name] = b.Bytes()
	}
	return variants, nil
}
