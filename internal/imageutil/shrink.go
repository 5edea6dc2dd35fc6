package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const JPEGMime = "image/jpeg"

// Shrink decodes data, scales it to fit within maxDim on both sides keeping
// the aspect ratio, and re-encodes it as JPEG. Images already inside maxDim
// are only recompressed.
func Shrink(data []byte, maxDim int, quality int) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	w, h := Fit(bounds.Dx(), bounds.Dy(), maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	}
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), JPEGMime, nil
}

// Fit returns the largest size with the same aspect ratio as w x h whose
// sides do not exceed maxDim.
func Fit(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}
	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}
