package playgraph

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const checksumBlockSize = 4096

// Checksum returns the hex md5 digest of the file at path, read in 4 KiB blocks.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for checksum: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, checksumBlockSize)); err != nil {
		return "", fmt.Errorf("failed to checksum %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
