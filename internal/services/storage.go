package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ObjectStorage stocke les images produits
type ObjectStorage interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, objectURL string, ttl time.Duration) (string, error)
}

type MinioStorage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

func NewMinioStorage(client *minio.Client, bucket string, secure bool) *MinioStorage {
	return &MinioStorage{client: client, bucket: bucket, endpoint: client.EndpointURL().Host, secure: secure}
}

func (m *MinioStorage) publicPrefix() string {
	scheme := "http"
	if m.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", scheme, m.endpoint, m.bucket)
}

// Upload enregistre le fichier sous products/<uuid><ext> et retourne son URL publique
func (m *MinioStorage) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := "products/" + uuid.NewString() + strings.ToLower(path.Ext(name))

	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return m.publicPrefix() + key, nil
}

// PresignedURL génère une URL signée à partir de l'URL publique stockée
func (m *MinioStorage) PresignedURL(ctx context.Context, objectURL string, ttl time.Duration) (string, error) {
	key := strings.TrimPrefix(objectURL, m.publicPrefix())
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
