package storage

import (
	"errors"
	"io"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("invalid blob key")

// BlobStore keeps exported report files.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// ReportKey is where an exported report for a session lives.
func ReportKey(sessionID, fileName string) string {
	return path.Join("reports", sessionID, fileName)
}

// cleanKey normalises key and rejects anything escaping the store root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return k, nil
}
