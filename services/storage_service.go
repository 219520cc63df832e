package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/jobquote/jobquote-api/config"
)

// StorageInterface defines the interface for document storage operations
type StorageInterface interface {
	// UploadDocument stores a document under the given key and returns its
	// public URL
	UploadDocument(key string, body []byte, contentType string) (string, error)

	// DeleteDocument removes a stored document
	DeleteDocument(key string) error
}

// S3StorageService stores rendered estimate documents and company logos in
// a public S3 bucket
type S3StorageService struct {
	client *s3.Client
	bucket string
	region string
}

var storageServiceInstance StorageInterface

// InitStorageService initializes the storage service with AWS credentials
func InitStorageService() (StorageInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)

	storageServiceInstance = &S3StorageService{
		client: client,
		bucket: cfg.AWSS3Bucket,
		region: cfg.AWSRegion,
	}

	return storageServiceInstance, nil
}

// GetStorageService returns the initialized storage service instance
func GetStorageService() StorageInterface {
	return storageServiceInstance
}

// SetStorageService sets the storage service instance (primarily for testing)
func SetStorageService(service StorageInterface) {
	storageServiceInstance = service
}

// UploadDocument uploads a document to S3 and returns its public URL.
// Uploading the same key again overwrites the previous object.
func (s *S3StorageService) UploadDocument(key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &TransientError{Err: fmt.Errorf("failed to upload to S3: %w", err)}
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// DeleteDocument deletes a document from S3
func (s *S3StorageService) DeleteDocument(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &TransientError{Err: fmt.Errorf("failed to delete from S3: %w", err)}
	}

	return nil
}
