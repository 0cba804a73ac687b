package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadPrefix = "uploads/"

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaStore keeps uploaded project images and videos in an S3 bucket.
type MediaStore struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
}

// NewMediaStore uses publicBaseURL (a CDN or website endpoint) to build object
// URLs, or the bucket's virtual-hosted URL when it is empty.
func NewMediaStore(client ObjectPutter, bucket, publicBaseURL string) *MediaStore {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &MediaStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Upload stores body under a fresh key that keeps filename's extension and
// returns the public URL of the object.
func (m *MediaStore) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := uploadPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", m.bucket, key, err)
	}

	return m.publicBaseURL + "/" + key, nil
}
