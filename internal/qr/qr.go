// Package qr renders QR code images.
package qr

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels when none is configured.
const DefaultSize = 256

// ErrEmptyPayload indicates there is nothing to encode.
var ErrEmptyPayload = errors.New("empty qr payload")

// PNG encodes payload as a square PNG of the given size with medium error correction.
func PNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}
