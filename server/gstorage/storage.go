package gstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

var ErrObjectNotExist = errors.New("object does not exist")

// ObjectStore keeps binary objects (e.g. contact avatars) by name.
type ObjectStore interface {
	Upload(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// GStorage is an ObjectStore backed by a Google Cloud Storage bucket. Object
// names are stored under 'prefix/'.
type GStorage struct {
	storageClient *storage.Client
	bucket        string
	prefix        string
}

func NewGStorage(credentialsFilePath, bucket, prefix string) (*GStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFilePath != "" {
		client, err = storage.NewClient(context.Background(), option.WithCredentialsFile(credentialsFilePath))
	} else {
		client, err = storage.NewClient(context.Background())
	}

	if err != nil {
		return nil, fmt.Errorf("NewGStorage: %v", err)
	}

	return &GStorage{storageClient: client, bucket: bucket, prefix: prefix}, nil
}

func (gs *GStorage) Upload(ctx context.Context, name string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*50)
	defer cancel()

	wc := gs.storageClient.Bucket(gs.bucket).Object(gs.objectName(name)).NewWriter(ctx)
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %v", err)
	}

	return nil
}

func (gs *GStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := gs.storageClient.Bucket(gs.bucket).Object(gs.objectName(name)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, errors.Wrapf(ErrObjectNotExist, "object %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("Object(%q).NewReader: %v", name, err)
	}

	return rc, nil
}

func (gs *GStorage) Delete(ctx context.Context, name string) error {
	err := gs.storageClient.Bucket(gs.bucket).Object(gs.objectName(name)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return errors.Wrapf(ErrObjectNotExist, "object %q", name)
	}

	return err
}

// UploadFile uploads the file at filePath as an object named after the file.
func (gs *GStorage) UploadFile(ctx context.Context, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("os.Open: %v", err)
	}
	defer f.Close()

	return gs.Upload(ctx, filepath.Base(filePath), f)
}

// DownloadFile downloads an object to a file.
func (gs *GStorage) DownloadFile(ctx context.Context, object string, destFileName string) error {
	rc, err := gs.Open(ctx, object)
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.OpenFile(destFileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("os.Create: %v", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %v", err)
	}

	return nil
}

func (gs *GStorage) Close() error {
	return gs.storageClient.Close()
}

func (gs *GStorage) objectName(name string) string {
	if gs.prefix == "" {
		return name
	}
	return path.Join(gs.prefix, name)
}
