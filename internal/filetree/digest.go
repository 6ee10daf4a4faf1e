package filetree

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest returns the hex blake3 hash of data.
func Digest(data []byte) string {
	hasher := blake3.New()
	// blake3's Write never fails
	_, _ = hasher.Write(data)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}
