// Package mediahost stores uploaded media files in an S3-compatible bucket
// and hands back the public URL they are served from.
package mediahost

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrNotOwned is returned by Delete for URLs outside this host's bucket.
var ErrNotOwned = errors.New("mediahost: url does not belong to this bucket")

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
	PathStyle bool
}

// Asset describes a stored object.
type Asset struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

type Client struct {
	api       objectAPI
	bucket    string
	publicURL string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("mediahost: bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("mediahost: load aws config: %w", err)
	}

	api := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return newClient(api, cfg), nil
}

func newClient(api objectAPI, cfg Config) *Client {
	return &Client{
		api:       api,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicBaseURL(cfg), "/"),
	}
}

func publicBaseURL(cfg Config) string {
	switch {
	case cfg.PublicURL != "":
		return cfg.PublicURL
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// ObjectKey builds a unique key of the form <folder>/<yyyy>/<mm>/<uuid><ext>.
func ObjectKey(folder, localPath string) string {
	d := now()
	name := uuid.NewString() + strings.ToLower(filepath.Ext(localPath))
	return path.Join(folder, fmt.Sprintf("%04d", d.Year()), fmt.Sprintf("%02d", int(d.Month())), name)
}

// Upload stores the file at localPath under folder. The local file is removed
// once the attempt is over, whether it succeeded or not.
func (c *Client) Upload(ctx context.Context, localPath, folder string) (*Asset, error) {
	if localPath == "" {
		return nil, errors.New("mediahost: empty path")
	}
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("mediahost: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mediahost: stat %s: %w", localPath, err)
	}

	key := ObjectKey(folder, localPath)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("mediahost: put %s: %w", key, err)
	}

	return &Asset{
		Key:         key,
		URL:         c.publicURL + "/" + key,
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

// Delete removes the object a previous Upload returned url for.
func (c *Client) Delete(ctx context.Context, url string) error {
	key, ok := c.keyFromURL(url)
	if !ok {
		return ErrNotOwned
	}
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("mediahost: delete %s: %w", key, err)
	}
	return nil
}

func (c *Client) keyFromURL(url string) (string, bool) {
	prefix := c.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
