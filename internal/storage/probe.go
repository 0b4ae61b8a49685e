package storage

import (
	"bytes"
	"image"

	// Register decoders for the formats clients actually upload.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ProbeDimensions decodes only the image header. Callers treat failures as
// non-fatal and store null dimensions.
func (u *S3Store) ProbeDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
