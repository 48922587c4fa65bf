package gcs

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/skycastlabs/user-service/pkg/helpers"
)

// AssetStore uploads profile assets to a Google Cloud Storage bucket and
// returns stable reference keys.
type AssetStore struct {
	Client *storage.Client
	Bucket string
	now    func() time.Time
}

func NewAssetStore(client *storage.Client, bucket string) *AssetStore {
	return &AssetStore{Client: client, Bucket: bucket, now: time.Now}
}

// Put streams r into the bucket and returns the object key. Keys combine a
// nanosecond timestamp with the sanitized original name under a per-subject
// prefix, so concurrent uploads for one user cannot collide.
func (s *AssetStore) Put(ctx context.Context, subject, name, contentType string, r io.Reader) (string, error) {
	key := s.Key(subject, name)
	if err := helpers.UploadObject(ctx, s.Client, s.Bucket, key, contentType, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *AssetStore) Key(subject, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return fmt.Sprintf("profiles/%s/%d_%s", subject, s.now().UnixNano(), base)
}

// URL resolves a reference key to its public URL.
func (s *AssetStore) URL(key string) string {
	return helpers.PublicURL(s.Bucket, key)
}
