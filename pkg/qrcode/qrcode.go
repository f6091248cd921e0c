package qrcode

import (
	"bytes"
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// bufferCloser lets the standard writer encode into memory
type bufferCloser struct {
	*bytes.Buffer
}

func (bufferCloser) Close() error { return nil }

// PNG encodes content as a QR code and returns the PNG image bytes
func PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("error creating QR code: empty content")
	}

	qrc, err := qrcode.New(content)
	if err != nil {
		return nil, fmt.Errorf("error creating QR code: %w", err)
	}

	buf := bufferCloser{Buffer: &bytes.Buffer{}}
	w := standard.NewWithWriter(buf,
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(10),
	)

	if err = qrc.Save(w); err != nil {
		return nil, fmt.Errorf("error saving QR code: %w", err)
	}

	return buf.Bytes(), nil
}
