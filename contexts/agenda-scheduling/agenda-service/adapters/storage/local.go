package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

// DefaultURLPrefix is where the HTTP server exposes the upload directory.
const DefaultURLPrefix = "/files"

var ErrInvalidKey = errors.New("invalid attachment key")

// Local keeps attachments on disk under Root and serves them under
// URLPrefix.
type Local struct {
	Root      string
	URLPrefix string
}

func NewLocal(root string, urlPrefix string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("upload dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	urlPrefix = strings.TrimRight(strings.TrimSpace(urlPrefix), "/")
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	return &Local{Root: root, URLPrefix: urlPrefix}, nil
}

func (l *Local) Save(_ context.Context, key string, attachment ports.Attachment) (string, error) {
	target, cleanKey, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create attachment dir: %w", err)
	}

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create attachment: %w", err)
	}
	if _, err := io.Copy(file, attachment.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to close attachment: %w", err)
	}
	return l.URLPrefix + "/" + cleanKey, nil
}

// Delete removes a file previously returned by Save. URLs outside the
// prefix are ignored.
func (l *Local) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, l.URLPrefix+"/") {
		return nil
	}
	target, _, err := l.resolve(strings.TrimPrefix(url, l.URLPrefix+"/"))
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) resolve(key string) (string, string, error) {
	cleanKey := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	if cleanKey == "" || cleanKey == "." || strings.Contains(key, "..") {
		return "", "", ErrInvalidKey
	}
	return filepath.Join(l.Root, filepath.FromSlash(cleanKey)), cleanKey, nil
}
