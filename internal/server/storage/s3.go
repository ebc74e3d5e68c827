package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/filex"
)

// S3ClientAPI is the subset of the S3 client the store uses.
type S3ClientAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps committed artifacts in an S3-compatible bucket. The upload
// still spools to a local temporary file first; verification happens before
// any byte reaches the bucket, so the remote side never sees a partial or
// corrupt artifact.
type S3Store struct {
	client   S3ClientAPI
	bucket   string
	spoolDir string
}

// S3Options carries the bucket and endpoint settings (MinIO-compatible).
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	SpoolDir     string
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey, opts.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, opts.Bucket, opts.SpoolDir)
}

// NewS3StoreWithClient wires an existing client; tests inject fakes here.
func NewS3StoreWithClient(client S3ClientAPI, bucket, spoolDir string) (*S3Store, error) {
	if err := filex.EnsureDir(spoolDir); err != nil {
		return nil, err
	}
	return &S3Store{client: client, bucket: bucket, spoolDir: spoolDir}, nil
}

func artifactKey(sessionID, fileName string) string {
	return path.Join(sessionID, filex.SafeName(fileName))
}

func (s *S3Store) Begin(_ context.Context, sessionID string) (ArtifactWriter, error) {
	f, err := os.CreateTemp(s.spoolDir, ".upload-"+sessionID+"-*.part")
	if err != nil {
		return nil, fmt.Errorf("%w: create spool: %w", common.ErrStorage, err)
	}
	return &s3Writer{store: s, sessionID: sessionID, file: f}, nil
}

func (s *S3Store) Open(ctx context.Context, sessionID, fileName string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(artifactKey(sessionID, fileName)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.ErrArtifactMissing
		}
		return nil, fmt.Errorf("%w: get object: %w", common.ErrStorage, err)
	}
	return out.Body, nil
}

type s3Writer struct {
	store     *S3Store
	sessionID string
	file      *os.File
	done      bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *s3Writer) Commit(ctx context.Context, fileName string) error {
	if w.done {
		return nil
	}

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: rewind spool: %w", common.ErrStorage, err)
	}

	_, err := w.store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.store.bucket),
		Key:    aws.String(artifactKey(w.sessionID, fileName)),
		Body:   w.file,
	})
	if err != nil {
		return fmt.Errorf("%w: put object: %w", common.ErrStorage, err)
	}

	w.done = true
	_ = w.file.Close()
	_ = os.Remove(w.file.Name())
	return nil
}

func (w *s3Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	_ = w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove spool: %w", common.ErrStorage, err)
	}
	return nil
}
