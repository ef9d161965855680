package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/logging"
)

const maxImageBytes = 10 << 20

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// DecodedImage is the binary content of a data URL.
type DecodedImage struct {
	Data        []byte
	Ext         string
	ContentType string
}

// DecodeDataURL parses data:image/<ext>;base64,<payload>.
func DecodeDataURL(s string) (*DecodedImage, error) {
	const prefix = "data:image/"

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, prefix) {
		return nil, invalid(RuleImageInvalid, "image must be a data:image/...;base64 URL")
	}
	meta, payload, ok := strings.Cut(s[len(prefix):], ",")
	if !ok {
		return nil, invalid(RuleImageInvalid, "image data URL has no payload")
	}
	ext, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return nil, invalid(RuleImageInvalid, "image data URL must be base64 encoded")
	}
	ext = strings.ToLower(ext)
	contentType, known := imageContentTypes[ext]
	if !known {
		return nil, invalid(RuleImageInvalid, "unsupported image type %q", ext)
	}
	if payload == "" {
		return nil, invalid(RuleImageInvalid, "image payload is empty")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, invalid(RuleImageInvalid, "image is larger than %d bytes", maxImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalid(RuleImageInvalid, "image payload is not valid base64")
	}
	if ext == "jpg" {
		ext = "jpeg"
	}
	return &DecodedImage{Data: data, Ext: ext, ContentType: contentType}, nil
}

// ImageStore persists recipe images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, img *DecodedImage) (string, error)
	Delete(ctx context.Context, url string) error
}

// S3API is the part of the S3 client the image store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images under recipes/images/ in one bucket.
type S3ImageStore struct {
	client     S3API
	bucket     string
	publicBase string
}

// NewS3ImageStore creates a store. With an empty publicBase, URLs point at
// the virtual-hosted bucket endpoint.
func NewS3ImageStore(client S3API, bucket, publicBase string) *S3ImageStore {
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3ImageStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
}

// NewS3ImageStoreFromConfig wires the store to the configured S3 client.
func NewS3ImageStoreFromConfig(cfg *config.S3Config) *S3ImageStore {
	return NewS3ImageStore(cfg.Client, cfg.BucketName, cfg.PublicBase)
}

func (s *S3ImageStore) Save(ctx context.Context, img *DecodedImage) (string, error) {
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.NewString(), img.Ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.publicBase + "/" + key
	logging.Ctx(ctx).Debug().Str("key", key).Int("bytes", len(img.Data)).Msg("image uploaded")
	return url, nil
}

// Delete removes an image previously returned by Save. URLs outside the
// store are ignored.
func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicBase+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
