package barcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ZXingDecoder implements port.BarcodeDecoder with the gozxing readers,
// trying QR first and one-dimensional barcode formats second.
type ZXingDecoder struct {
	readers []gozxing.Reader
}

func NewZXingDecoder() *ZXingDecoder {
	return &ZXingDecoder{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewMultiFormatUPCEANReader(nil),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
			oned.NewITFReader(),
		},
	}
}

func (d *ZXingDecoder) Decode(imageData []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("build bitmap: %w", err)
	}

	for _, reader := range d.readers {
		if result, err := reader.Decode(bmp, nil); err == nil {
			return result.GetText(), nil
		}
	}
	return "", errors.New("no code detected")
}
