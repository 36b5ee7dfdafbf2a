// Package qr wraps the encode and decode libraries behind the two
// operations the ticket flow needs: turning a secure code into a scannable
// PNG and reading a code back out of an uploaded scan frame.
package qr

import (
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

// Size matches the 300px images the web client rendered onto tickets.
const Size = 300

// Encode renders a secure code as a QR PNG.
func Encode(code string) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("cannot encode an empty code")
	}
	png, err := qrcode.Encode(code, qrcode.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %v", err)
	}
	return png, nil
}

// EncodeDataURL returns the PNG as a data URL for direct embedding.
func EncodeDataURL(code string) (string, error) {
	png, err := Encode(code)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Decode extracts the QR payload from an uploaded PNG or JPEG frame.
func Decode(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to prepare image: %v", err)
	}
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("no QR code found in image: %v", err)
	}
	return result.GetText(), nil
}
