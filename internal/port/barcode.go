package port

// BarcodeDecoder extracts the text payload of a QR code or barcode from
// encoded image bytes. It is an optional capability: a nil decoder
// disables photo scanning entirely.
type BarcodeDecoder interface {
	Decode(imageData []byte) (string, error)
}
