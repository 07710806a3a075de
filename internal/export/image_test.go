package export

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func mustEncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func mustEncodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestCoverOptimizer_ResizeOverMaxWidth(t *testing.T) {
	src := makeSolidNRGBA(1200, 800, color.NRGBA{R: 20, G: 50, B: 200, A: 255})
	data := mustEncodeJPEG(t, src, 90)
	opt := NewCoverOptimizer(Options{CoverMaxWidth: 600})

	out, err := opt.Optimize("cover.jpg", "image/jpeg", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if out.Width != 600 || out.Height != 400 {
		t.Fatalf("got %dx%d, want 600x400", out.Width, out.Height)
	}
	if out.Format != "jpeg" {
		t.Fatalf("format = %q, want jpeg", out.Format)
	}
	if out.Warning != "" {
		t.Fatalf("unexpected warning: %s", out.Warning)
	}
}

func TestCoverOptimizer_NoResizeUnderMaxWidth(t *testing.T) {
	src := makeSolidNRGBA(500, 300, color.NRGBA{R: 100, G: 120, B: 140, A: 255})
	data := mustEncodePNG(t, src)
	opt := NewCoverOptimizer(Options{CoverMaxWidth: 600})

	out, err := opt.Optimize("cover.png", "image/png", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if out.Width != 500 || out.Height != 300 {
		t.Fatalf("got %dx%d, want 500x300", out.Width, out.Height)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(out.Data)); err != nil || format != "png" {
		t.Fatalf("output format = %q (err %v), want png", format, err)
	}
}

func TestCoverOptimizer_ConvertsToOutputExtension(t *testing.T) {
	src := makeSolidNRGBA(100, 50, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	data := mustEncodePNG(t, src)
	opt := NewCoverOptimizer(Options{})

	out, err := opt.Optimize("out/cover.jpeg", "image/png", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(out.Data)); err != nil || format != "jpeg" {
		t.Fatalf("output format = %q (err %v), want jpeg", format, err)
	}
}

func TestCoverOptimizer_PassthroughUndecodable(t *testing.T) {
	data := []byte("RIFF\x24\x00\x00\x00WEBPVP8 garbage")
	opt := NewCoverOptimizer(Options{})

	out, err := opt.Optimize("cover.jpg", "image/webp", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if !bytes.Equal(out.Data, data) {
		t.Fatal("Data should be passed through unchanged")
	}
	if out.Warning == "" {
		t.Fatal("Warning should be set for undecodable input")
	}
	if out.Format != "webp" {
		t.Fatalf("format = %q, want webp", out.Format)
	}
}

func TestCoverOptimizer_UnknownOutputExtension(t *testing.T) {
	data := mustEncodePNG(t, makeSolidNRGBA(10, 10, color.NRGBA{A: 255}))
	out, err := NewCoverOptimizer(Options{}).Optimize("cover.webp", "image/png", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if !bytes.Equal(out.Data, data) || out.Warning == "" {
		t.Fatal("expected passthrough with warning for unsupported output extension")
	}
}

func TestNewCoverOptimizer_Defaults(t *testing.T) {
	o := NewCoverOptimizer(Options{JPEGQuality: 10})
	if o.MaxWidth != defaultCoverMaxWidth {
		t.Errorf("MaxWidth = %d, want %d", o.MaxWidth, defaultCoverMaxWidth)
	}
	if o.JPEGQuality != minJPEGQuality {
		t.Errorf("JPEGQuality = %d, want %d", o.JPEGQuality, minJPEGQuality)
	}
	if o = NewCoverOptimizer(Options{JPEGQuality: 150}); o.JPEGQuality != 100 {
		t.Errorf("JPEGQuality = %d, want 100", o.JPEGQuality)
	}
}
