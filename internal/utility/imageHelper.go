package utility

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const MaxUploadSize = 10 << 20

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Uploader stores an uploaded image and returns its public URL. Remove
// deletes a file previously returned by Save.
type Uploader interface {
	Save(ctx context.Context, field string, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, url string) error
}

// ObjectStore is the part of the S3 bucket used by S3Uploader.
type ObjectStore interface {
	UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// ImageFileName checks fh and returns "<unixmillis>-<random9>.<ext>".
func ImageFileName(field string, fh *multipart.FileHeader, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExtensions[ext] {
		return "", NewValidationError(field, "only jpg, jpeg, png, gif and webp images are allowed")
	}
	if fh.Size > MaxUploadSize {
		return "", NewValidationError(field, "file must be 10MB or smaller")
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), GenerateRandomDigits(9), ext), nil
}

type LocalUploader struct {
	Dir        string
	PublicBase string
}

func (u LocalUploader) Save(_ context.Context, field string, fh *multipart.FileHeader) (string, error) {
	name, err := ImageFileName(field, fh, time.Now())
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(u.Dir, name))
	if err != nil {
		return "", errors.Wrap(err, "create upload")
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "write upload")
	}
	return u.PublicBase + "/" + name, nil
}

func (u LocalUploader) Remove(_ context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" {
		return errors.Errorf("not an upload: %q", url)
	}
	if err := os.Remove(filepath.Join(u.Dir, name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove upload")
	}
	return nil
}

type S3Uploader struct {
	Store      ObjectStore
	Prefix     string
	PublicBase string
}

func (u S3Uploader) Save(ctx context.Context, field string, fh *multipart.FileHeader) (string, error) {
	name, err := ImageFileName(field, fh, time.Now())
	if err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	key := u.key(name)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	location, err := u.Store.UploadObject(ctx, key, contentType, src)
	if err != nil {
		return "", err
	}
	if u.PublicBase != "" {
		return u.PublicBase + "/" + key, nil
	}
	return location, nil
}

func (u S3Uploader) Remove(ctx context.Context, url string) error {
	return u.Store.DeleteObject(ctx, u.key(path.Base(url)))
}

func (u S3Uploader) key(name string) string {
	return strings.TrimLeft(u.Prefix+"/"+name, "/")
}
