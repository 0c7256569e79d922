package images

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
)

// Storage is the directory holding the files artworks' image references point to.
type Storage struct {
	Path string
}

func New(logger logrus.FieldLogger, path string) (storage Storage, err error) {
	logger.WithField("path", path).Info("initialising images store")

	// attempt to create an images directory if it doesn't exist
	if err = os.MkdirAll(path, 0750); err != nil {
		return storage, err
	}

	storage.Path = path
	return storage, nil
}

// FileSystem exposes the images directory for read-only serving.
func (s Storage) FileSystem() http.FileSystem {
	return http.Dir(s.Path)
}
