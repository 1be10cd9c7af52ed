package imagecodec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // registers GIF decoding
	"image/jpeg"
	_ "image/png" // registers PNG decoding
	"math"
	"strings"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/utils"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers WebP decoding
)

const (
	// DefaultQuality is the JPEG quality used for re-encoding (0.7 on a 0-1 scale)
	DefaultQuality = 70

	// maxDecodePixels bounds the decoded surface for a single payload
	maxDecodePixels = 40_000_000

	outputMediaType = "image/jpeg"
)

// Compressor shrinks an encoded image payload to fit a bounding box.
type Compressor interface {
	Compress(payload string, maxWidth, maxHeight int) string
}

// Codec re-encodes data-URL image payloads as JPEG at a fixed quality.
type Codec struct {
	quality int
}

// New creates a Codec. Out-of-range qualities fall back to DefaultQuality.
func New(quality int) *Codec {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Codec{quality: quality}
}

var defaultCodec = New(DefaultQuality)

// Compress runs the default codec. See Codec.Compress.
func Compress(payload string, maxWidth, maxHeight int) string {
	return defaultCodec.Compress(payload, maxWidth, maxHeight)
}

// Compress decodes payload, scales it down to fit within maxWidth x maxHeight
// keeping its aspect ratio, and re-encodes it as a JPEG data URL. A bound <= 0
// leaves that dimension unconstrained. Any failure returns payload unchanged.
func (c *Codec) Compress(payload string, maxWidth, maxHeight int) string {
	out, err := c.compress(payload, maxWidth, maxHeight)
	if err != nil {
		utils.Warn("image compression skipped", map[string]any{
			"payload_bytes": len(payload),
			"error":         err.Error(),
		})
		return payload
	}
	return out
}

func (c *Codec) compress(payload string, maxWidth, maxHeight int) (string, error) {
	raw, err := decodeDataURL(payload)
	if err != nil {
		return "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("read image header: %w", catalogerrors.ErrDecodeFailure)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxDecodePixels {
		return "", fmt.Errorf("image is %dx%d: %w", cfg.Width, cfg.Height, catalogerrors.ErrDecodeFailure)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", catalogerrors.ErrDecodeFailure)
	}

	bounds := src.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	// JPEG has no alpha channel, so transparent pixels are flattened onto white.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return "data:" + outputMediaType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FitWithin returns the largest size with the aspect ratio of width x height
// that fits inside maxWidth x maxHeight. It never scales up.
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	ratio := 1.0
	if maxWidth > 0 && width > maxWidth {
		ratio = math.Min(ratio, float64(maxWidth)/float64(width))
	}
	if maxHeight > 0 && height > maxHeight {
		ratio = math.Min(ratio, float64(maxHeight)/float64(height))
	}
	if ratio == 1.0 {
		return width, height
	}
	w := int(math.Round(float64(width) * ratio))
	h := int(math.Round(float64(height) * ratio))
	return max(w, 1), max(h, 1)
}

// decodeDataURL extracts the bytes of a base64 data URL
func decodeDataURL(payload string) ([]byte, error) {
	rest, ok := strings.CutPrefix(payload, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data url: %w", catalogerrors.ErrDecodeFailure)
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data url is not base64: %w", catalogerrors.ErrDecodeFailure)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("base64 body: %w", catalogerrors.ErrDecodeFailure)
	}
	return raw, nil
}
