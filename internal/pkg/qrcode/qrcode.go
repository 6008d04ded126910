// Package qrcode builds the string a badge QR encodes and renders it as a PNG.
//
// The payload is a profile URL rather than the profile itself: the image stays valid after
// profile edits and carries no medical data.
package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

var ErrEmptyPayload = errors.New("empty qr payload")

// Payload returns the profile URL encoded into an employee's badge.
func Payload(baseURL, employeeID string) string {
	return strings.TrimRight(baseURL, "/") + "/user/" + employeeID
}

// PNG renders payload as a square PNG of size pixels. Out-of-range sizes are clamped.
func PNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	return goqrcode.Encode(payload, goqrcode.Medium, ClampSize(size))
}

// DataURL renders payload as a base64 PNG data URL, the form browsers can drop into an <img>.
func DataURL(payload string, size int) (string, error) {
	png, err := PNG(payload, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ClampSize keeps size within [MinSize, MaxSize]; zero or negative means DefaultSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}
