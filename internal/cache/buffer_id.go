package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// BufferID derives a stable identifier for a buffer. Named buffers are
// identified by their cleaned path, unnamed ones by a hash of their content.
func BufferID(path string, src []byte) string {
	path = strings.TrimSpace(path)
	if path != "" {
		return "file:" + filepath.ToSlash(filepath.Clean(path))
	}
	sum := sha256.Sum256(src)
	return fmt.Sprintf("buffer:%s", hex.EncodeToString(sum[:8]))
}
