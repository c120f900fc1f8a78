package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCSMirror stores one JSON document per user in a Cloud Storage bucket,
// under users/<uid>.json. It assumes Application Default Credentials are
// configured (gcloud auth application-default login).
type GCSMirror struct {
	client *storage.Client
	bucket string
}

// NewGCSMirror creates a mirror backed by the given bucket.
func NewGCSMirror(ctx context.Context, bucket string) (*GCSMirror, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGCSMirror: create storage client: %w", err)
	}
	return &GCSMirror{client: client, bucket: bucket}, nil
}

// Close releases the underlying storage client.
func (m *GCSMirror) Close() error {
	return m.client.Close()
}

func (m *GCSMirror) objectName(userID string) string {
	return "users/" + userID + ".json"
}

// Load implements Mirror.
func (m *GCSMirror) Load(ctx context.Context, userID string) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	raw, err := m.readObject(ctx, m.objectName(userID))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GCSMirror.Load: reading document for %s: %w", userID, err)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("GCSMirror.Load: %w", err)
	}
	return doc, nil
}

// Save implements Mirror. The stored object is read first and the document
// fields are overlaid onto it, so fields written by other tools survive.
func (m *GCSMirror) Save(ctx context.Context, userID string, doc *Document) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	object := m.objectName(userID)

	existing, err := m.readObject(ctx, object)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("GCSMirror.Save: reading existing document for %s: %w", userID, err)
	}

	merged, err := mergeDocument(existing, doc)
	if err != nil {
		return fmt.Errorf("GCSMirror.Save: %w", err)
	}

	w := m.client.Bucket(m.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(merged); err != nil {
		_ = w.Close()
		return fmt.Errorf("GCSMirror.Save: writing document for %s: %w", userID, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("GCSMirror.Save: finalizing document for %s: %w", userID, err)
	}
	return nil
}

func (m *GCSMirror) readObject(ctx context.Context, object string) ([]byte, error) {
	rc, err := m.client.Bucket(m.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading object %s/%s: %w", m.bucket, object, err)
	}
	return data, nil
}

// isNotFound classifies both the storage sentinel and a raw 404 from the
// JSON API as a missing object.
func isNotFound(err error) bool {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}

// Ensure GCSMirror implements the Mirror interface.
var _ Mirror = (*GCSMirror)(nil)
