// Package storage moves pipeline files to and from object storage and mirrors
// finished artifacts into an output location.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

func (c R2Config) Validate() error {
	switch {
	case c.AccountID == "":
		return errors.New("empty R2_ACCOUNT_ID in environment")
	case c.Bucket == "":
		return errors.New("empty R2_BUCKET in environment")
	case c.AccessKey == "":
		return errors.New("empty R2_ACCESS_KEY in environment")
	case c.SecretKey == "":
		return errors.New("empty R2_SECRET_KEY in environment")
	}
	return nil
}

// ObjectAPI is the part of the s3 client the bucket uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Bucket reads and writes objects in one R2 bucket.
type Bucket struct {
	client ObjectAPI
	name   string
}

func NewBucket(client ObjectAPI, name string) *Bucket {
	return &Bucket{client: client, name: name}
}

// NewR2Bucket builds an s3 client pointed at the account's R2 endpoint.
func NewR2Bucket(ctx context.Context, cfg R2Config) (*Bucket, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})
	return NewBucket(client, cfg.Bucket), nil
}

func (b *Bucket) Fetch(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Bucket) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}
