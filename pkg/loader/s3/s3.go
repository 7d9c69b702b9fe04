package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OFFIS-RIT/coauthor/pkg/loader"
)

// ObjectAPI is the subset of *s3.Client used by this package.
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3ClientParams defines the configuration for connecting to S3 or an
// S3-compatible store such as MinIO.
//
// Endpoint allows overriding the S3 endpoint.
// AccessKey and SecretKey provide static credentials.
type NewS3ClientParams struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Client creates an S3 client with static credentials and path-style
// addressing.
func NewS3Client(ctx context.Context, params NewS3ClientParams) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// S3FileLoader loads document contents from an S3 bucket. Document.Path is
// used as the object key.
type S3FileLoader struct {
	bucket string
	client ObjectAPI
}

// NewS3FileLoader creates a loader reading from bucket through client.
func NewS3FileLoader(bucket string, client ObjectAPI) *S3FileLoader {
	return &S3FileLoader{
		bucket: bucket,
		client: client,
	}
}

// GetFileContent downloads the object stored under doc.Path.
func (l *S3FileLoader) GetFileContent(ctx context.Context, doc loader.Document) ([]byte, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(doc.Path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object contents: %w", err)
	}

	return buf.Bytes(), nil
}

// S3Source lists the documents stored directly under a key prefix. Keys
// that contain a further "/" after the prefix belong to nested "folders"
// and are skipped, mirroring the non-recursive directory listing.
type S3Source struct {
	bucket string
	prefix string
	ext    string
	client ObjectAPI
	loader *S3FileLoader
}

// NewS3SourceParams configures an S3Source.
type NewS3SourceParams struct {
	Bucket    string
	Prefix    string
	Extension string
	Client    ObjectAPI
}

func NewS3Source(params NewS3SourceParams) *S3Source {
	prefix := params.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{
		bucket: params.Bucket,
		prefix: prefix,
		ext:    params.Extension,
		client: params.Client,
		loader: NewS3FileLoader(params.Bucket, params.Client),
	}
}

// ListDocuments pages through the bucket listing. Listing failures are
// reported as *loader.DirectoryAccessError.
func (s *S3Source) ListDocuments(ctx context.Context) ([]loader.Document, error) {
	location := fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	var docs []loader.Document
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &loader.DirectoryAccessError{Path: location, Err: err}
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, s.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			if !loader.HasExtension(name, s.ext) {
				continue
			}
			docs = append(docs, loader.Document{
				ID:     name,
				Path:   key,
				Loader: s.loader,
			})
		}
	}

	return docs, nil
}
