package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Fixtures reads fixtures from objects in an S3 compatible bucket.
type S3Fixtures struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewS3Fixtures(endpoint, accessKey, secretKey, bucket, prefix string, useSSL bool) (*S3Fixtures, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &S3Fixtures{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *S3Fixtures) ReadFixture(ctx context.Context, name string) ([]byte, string, error) {
	for _, ext := range FixtureExtensions {
		key := path.Join(s.prefix, name+ext)

		data, err := s.readObject(ctx, key)
		if err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				continue
			}
			return nil, "", fmt.Errorf("failed to get fixture %s from S3: %w", key, err)
		}
		return data, ext, nil
	}

	return nil, "", fmt.Errorf("%s in bucket %s: %w", name, s.bucket, ErrFixtureNotFound)
}

func (s *S3Fixtures) readObject(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	// GetObject is lazy; a missing key only surfaces on the first read.
	return io.ReadAll(object)
}
