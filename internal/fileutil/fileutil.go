// Package fileutil holds the small file helpers shared by the CLI, the
// configuration loader and the analysis cache.
package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HashBytes returns the hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadHashed reads the whole file and returns its content with the hex
// SHA-256 computed in the same pass.
func ReadHashed(path string) ([]byte, string, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer in.Close()

	hasher := sha256.New()
	data, err := io.ReadAll(io.TeeReader(in, hasher))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, hex.EncodeToString(hasher.Sum(nil)), nil
}

// WriteFileAtomic writes data to a temporary file beside path and renames it
// into place, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
