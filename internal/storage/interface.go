package storage

import (
	"context"
)

// BlobStore is the media collaborator contract the engines depend on.
// Upload failures are fatal to the operation that needed the blob;
// ProbeDimensions failures never are.
type BlobStore interface {
	// UploadImage stores the blob and returns a stable public URL.
	UploadImage(ctx context.Context, data []byte, originalFilename string, userID uint) (string, error)

	// ProbeDimensions reads the image header and returns pixel dimensions.
	ProbeDimensions(data []byte) (width, height int, err error)
}

// Ensure S3Store implements BlobStore
var _ BlobStore = (*S3Store)(nil)
