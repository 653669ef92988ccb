package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"math"
	"runtime"
)

// iconSet holds the encoded images handed to the platform.
type iconSet struct {
	tray     []byte
	bookmark []byte
}

// loadIcons renders and encodes the tray and bookmark icons.
func loadIcons() (iconSet, error) {
	return loadIconsFor(runtime.GOOS)
}

// loadIconsFor encodes the icons the way the tray backend on goos expects
// them: PNG everywhere except Windows, which takes .ico content.
func loadIconsFor(goos string) (iconSet, error) {
	tray, err := encodeIcon(goos, CreateIconRGBA)
	if err != nil {
		return iconSet{}, fmt.Errorf("%w: tray icon: %w", ErrIconMissing, err)
	}
	bm, err := encodeIcon(goos, CreateBookmarkIconRGBA)
	if err != nil {
		return iconSet{}, fmt.Errorf("%w: bookmark icon: %w", ErrIconMissing, err)
	}
	return iconSet{tray: tray, bookmark: bm}, nil
}

func encodeIcon(goos string, draw func() ([]byte, int, int)) ([]byte, error) {
	rgba, w, h := draw()
	data, err := encodePNG(rgba, w, h)
	if err != nil {
		return nil, err
	}
	if goos == "windows" {
		return wrapICO(data, w, h), nil
	}
	return data, nil
}

// wrapICO wraps a PNG image in a single-entry ICO container.
func wrapICO(pngData []byte, w, h int) []byte {
	const headerLen = 6 + 16
	buf := make([]byte, headerLen, headerLen+len(pngData))

	// ICONDIR: reserved, type 1 (icon), one image.
	binary.LittleEndian.PutUint16(buf[2:], 1)
	binary.LittleEndian.PutUint16(buf[4:], 1)

	// ICONDIRENTRY. A zero width or height byte means 256.
	buf[6] = byte(w)
	buf[7] = byte(h)
	binary.LittleEndian.PutUint16(buf[10:], 1)  // color planes
	binary.LittleEndian.PutUint16(buf[12:], 32) // bits per pixel
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(pngData)))
	binary.LittleEndian.PutUint32(buf[18:], headerLen)

	return append(buf, pngData...)
}

func encodePNG(rgba []byte, w, h int) ([]byte, error) {
	if len(rgba) != w*h*4 {
		return nil, fmt.Errorf("rgba buffer is %d bytes, want %d", len(rgba), w*h*4)
	}
	img := &image.NRGBA{Pix: rgba, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// coverage returns 1 inside, 0 outside and a linear ramp over edge pixels
// for a point at signed distance d from a shape boundary (negative inside).
func coverage(d, edge float64) float64 {
	if d <= 0 {
		return 1
	}
	if d >= edge {
		return 0
	}
	return (edge - d) / edge
}

// roundRectDist is the signed distance from (x, y) to a rounded rectangle
// centred at (cx, cy) with half extents hw, hh and corner radius r.
func roundRectDist(x, y, cx, cy, hw, hh, r float64) float64 {
	qx := math.Abs(x-cx) - hw + r
	qy := math.Abs(y-cy) - hh + r
	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	return outside + inside - r
}

// CreateIconRGBA generates a 22x22 RGBA byte slice for the tray icon.
// Draws a clipboard: an outlined board with a solid clip on top and two
// text lines. White on transparent background with antialiased edges.
func CreateIconRGBA() ([]byte, int, int) {
	const size = 22
	rgba := make([]byte, size*size*4)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			idx := (y*size + x) * 4
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5

			// Board outline, 1.6px stroke.
			board := roundRectDist(fx, fy, 11, 12.5, 7.5, 8.5, 2)
			alpha := coverage(math.Abs(board)-0.8, 0.8)

			// Clip.
			clip := roundRectDist(fx, fy, 11, 4.5, 3.5, 2, 1)
			alpha = math.Max(alpha, coverage(clip, 0.8))

			// Text lines.
			if fx >= 7 && fx <= 15 && fy >= 10 && fy <= 11.5 {
				alpha = 1
			}
			if fx >= 7 && fx <= 13 && fy >= 14 && fy <= 15.5 {
				alpha = 1
			}

			if alpha > 0 {
				rgba[idx] = 255
				rgba[idx+1] = 255
				rgba[idx+2] = 255
				rgba[idx+3] = uint8(math.Min(alpha, 1) * 255)
			}
		}
	}

	return rgba, size, size
}

// CreateBookmarkIconRGBA draws a 16x16 bookmark ribbon for pinned entries.
func CreateBookmarkIconRGBA() ([]byte, int, int) {
	const size = 16
	rgba := make([]byte, size*size*4)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			idx := (y*size + x) * 4
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5

			alpha := 0.0
			if fx >= 4 && fx <= 12 && fy >= 2 && fy <= 14 {
				alpha = 1
				// Notch: a V cut into the bottom edge.
				notch := 14 - math.Abs(fx-8)*0.75
				if fy > notch {
					alpha = coverage(fy-notch, 0.8)
				}
			}

			if alpha > 0 {
				rgba[idx] = 0xe8
				rgba[idx+1] = 0xb0
				rgba[idx+2] = 0x30
				rgba[idx+3] = uint8(math.Min(alpha, 1) * 255)
			}
		}
	}

	return rgba, size, size
}
