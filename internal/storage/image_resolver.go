package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopline/shop-backend/config"
	"github.com/shopline/shop-backend/pkg/logger"
)

// ImageResolver turns a stored image reference (an object key or a path
// under the media root) into a URL a browser can fetch.
type ImageResolver interface {
	ImageURL(ctx context.Context, ref string) string
}

// NewImageResolver picks S3 when a bucket is configured, local media otherwise.
func NewImageResolver(cfg *config.S3Config) ImageResolver {
	if cfg.Bucket == "" {
		return NewLocalResolver(cfg.LocalMediaURL)
	}
	return NewS3Resolver(cfg.Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.BaseURL, cfg.PresignExpiry)
}

type LocalResolver struct {
	mediaURL string
}

func NewLocalResolver(mediaURL string) *LocalResolver {
	return &LocalResolver{mediaURL: strings.TrimRight(mediaURL, "/")}
}

func (r *LocalResolver) ImageURL(_ context.Context, ref string) string {
	if ref == "" || isAbsolute(ref) {
		return ref
	}
	return fmt.Sprintf("%s/%s", r.mediaURL, strings.TrimLeft(ref, "/"))
}

type S3Resolver struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	baseURL       string
	expiry        time.Duration
}

func NewS3Resolver(region, bucket, accessKeyID, secretAccessKey, baseURL string, expiry time.Duration) *S3Resolver {
	var cfg aws.Config
	var err error

	// Static credentials when given, otherwise the default chain (env, shared config, IAM role).
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", map[string]interface{}{
				"region": region,
				"error":  err.Error(),
			})
			cfg = aws.Config{Region: region}
		}
	}

	client := s3.NewFromConfig(cfg)
	return &S3Resolver{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        bucket,
		baseURL:       strings.TrimRight(baseURL, "/"),
		expiry:        expiry,
	}
}

// ImageURL serves through baseURL (a CDN in front of the bucket) when set,
// otherwise through a presigned GET on the private bucket.
func (r *S3Resolver) ImageURL(ctx context.Context, ref string) string {
	if ref == "" || isAbsolute(ref) {
		return ref
	}
	key := strings.TrimLeft(ref, "/")

	if r.baseURL != "" {
		return fmt.Sprintf("%s/%s", r.baseURL, key)
	}

	req, err := r.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		logger.Error("Failed to presign image URL", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", r.bucket, r.client.Options().Region, key)
	}
	return req.URL
}

func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
