// Package media uploads and deletes product, blog, and banner images on an
// external image host.
package media

import (
	"context"
	"io"
)

// Upload is the result of storing an image.
type Upload struct {
	// URL is the public URL serving the image.
	URL string
	// PublicID identifies the image on the host for later deletion.
	PublicID string
}

// Storage stores images on behalf of the catalog and content handlers.
type Storage interface {
	// Upload stores the image and returns its public URL and ID.
	Upload(ctx context.Context, filename string, content io.Reader) (Upload, error)
	// Delete removes a previously uploaded image. Deleting an unknown
	// public ID is not an error.
	Delete(ctx context.Context, publicID string) error
}
