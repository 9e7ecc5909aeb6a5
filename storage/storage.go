// Package storage uploads site assets to the S3-compatible bucket of the managed backend.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Kind says what an upload is for and decides the key prefix it is stored under.
type Kind string

const (
	KindThumbnail        Kind = "thumbnail"
	KindGallery          Kind = "gallery"
	KindProfilePhoto     Kind = "profile"
	KindLogo             Kind = "logo"
	KindFavicon          Kind = "favicon"
	KindDefaultThumbnail Kind = "default_thumbnail"
)

var prefixes = map[Kind]string{
	KindThumbnail:        "thumbnails",
	KindGallery:          "gallery",
	KindProfilePhoto:     "profile",
	KindLogo:             "branding/logo",
	KindFavicon:          "branding/favicon",
	KindDefaultThumbnail: "defaults",
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	_, ok := prefixes[k]
	return k, ok
}

func (k Kind) Prefix() string {
	return prefixes[k]
}

var allowedContentTypes = map[string]bool{
	"image/png":                true,
	"image/jpeg":               true,
	"image/gif":                true,
	"image/webp":               true,
	"image/svg+xml":            true,
	"image/x-icon":             true,
	"image/vnd.microsoft.icon": true,
}

func AllowedContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return allowedContentTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}

// S3API is the subset of the S3 client the store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a path-style client for a custom S3 endpoint.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
		// S3-compatible backends do not all accept the newer default checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}), nil
}

type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ObjectStore struct {
	client     S3API
	bucket     string
	publicBase string
	now        func() time.Time
	token      func() string
}

// NewObjectStore stores objects in bucket. publicBase is the URL objects are served from;
// an object's public URL is publicBase + "/" + key.
func NewObjectStore(client S3API, bucket, publicBase string) *ObjectStore {
	return &ObjectStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
		now:        time.Now,
		token:      randomToken,
	}
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// ObjectName builds "<prefix>/<token>-<unix millis><ext>", keeping the original file's
// extension in lower case.
func ObjectName(prefix, originalName string, now time.Time, token string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(originalName, "\\", "/"))))
	if !validExt(ext) {
		ext = ""
	}
	return fmt.Sprintf("%s/%s-%d%s", prefix, token, now.UnixMilli(), ext)
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 8 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func (s *ObjectStore) Upload(ctx context.Context, kind Kind, originalName, contentType string, data []byte) (Object, error) {
	prefix := kind.Prefix()
	if prefix == "" {
		return Object{}, fmt.Errorf("unknown upload kind %q", kind)
	}

	key := ObjectName(prefix, originalName, s.now(), s.token())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return Object{Key: key, URL: s.PublicURL(key)}, nil
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *ObjectStore) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// KeyFromURL recovers the object key of a URL produced by PublicURL.
func (s *ObjectStore) KeyFromURL(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, s.publicBase+"/")
	if !ok || key == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, true
}
