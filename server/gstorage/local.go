package gstorage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Daskott/rolodex/utils"
	"github.com/pkg/errors"
)

// LocalStorage is an ObjectStore that keeps objects as files under a directory.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := utils.CreateDirIfNotExist(dir); err != nil {
		return nil, err
	}

	return &LocalStorage{dir: dir}, nil
}

func (ls *LocalStorage) Upload(ctx context.Context, name string, r io.Reader) error {
	filePath, err := ls.path(name)
	if err != nil {
		return err
	}

	if err = utils.CreateDirIfNotExist(filepath.Dir(filePath)); err != nil {
		return err
	}

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func (ls *LocalStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	filePath, err := ls.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrObjectNotExist, "object %q", name)
	}

	return f, err
}

func (ls *LocalStorage) Delete(ctx context.Context, name string) error {
	filePath, err := ls.path(name)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if os.IsNotExist(err) {
		return errors.Wrapf(ErrObjectNotExist, "object %q", name)
	}

	return err
}

// path keeps object names from escaping the storage dir
func (ls *LocalStorage) path(name string) (string, error) {
	filePath := filepath.Join(ls.dir, filepath.FromSlash(name))
	if !strings.HasPrefix(filePath, filepath.Clean(ls.dir)+string(os.PathSeparator)) {
		return "", errors.Errorf("invalid object name %q", name)
	}

	return filePath, nil
}
