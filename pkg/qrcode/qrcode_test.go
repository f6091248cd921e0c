package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
)

func TestPNG_RoundTrip(t *testing.T) {
	const url = "https://kopi.example.com/"

	data, err := PNG(url)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		t.Fatalf("NewBinaryBitmapFromImage: %v", err)
	}
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		t.Fatalf("decode QR: %v", err)
	}
	if result.GetText() != url {
		t.Errorf("decoded %q, want %q", result.GetText(), url)
	}
}

func TestPNG_EmptyContent(t *testing.T) {
	if _, err := PNG(""); err == nil {
		t.Error("expected error for empty content")
	}
}
