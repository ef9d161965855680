// Package mocks holds testify mocks of service dependencies.
package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/service"
)

// ImageStore is a mock implementation of service.ImageStore
type ImageStore struct {
	mock.Mock
}

func (m *ImageStore) Save(ctx context.Context, img *service.DecodedImage) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *ImageStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// NewImageStore returns a store that accepts every upload and delete.
func NewImageStore() *ImageStore {
	m := &ImageStore{}
	m.On("Save", mock.Anything, mock.Anything).Return("http://media.test/recipes/images/upload.png", nil)
	m.On("Delete", mock.Anything, mock.Anything).Return(nil)
	return m
}

// S3 is a mock implementation of service.S3API
type S3 struct {
	mock.Mock
}

func (m *S3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *S3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ service.ImageStore = (*ImageStore)(nil)
	_ service.S3API      = (*S3)(nil)
)
