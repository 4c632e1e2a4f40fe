package payment

import (
	"encoding/base64"
	"strings"

	"github.com/go-faster/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the pixel width of locally encoded QR images.
const qrSize = 256

// QRImage interprets a VNPAY payment payload into a displayable image data
// URI. A payload that is already a data-URI image is used directly; anything
// else, an http(s) URL or an opaque payment string, is QR-encoded to PNG.
func QRImage(payload string) (string, error) {
	if payload == "" {
		return "", errors.New("empty payment payload")
	}
	if strings.HasPrefix(payload, "data:image") {
		return payload, nil
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return "", errors.Wrap(err, "encode qr")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
