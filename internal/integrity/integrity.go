// Package integrity computes and verifies file content hashes used for
// duplicate detection and post-move verification.
package integrity

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"curator/internal/services"
)

// chunkSize is the read granularity for streaming hashes. Files are never
// loaded whole.
const chunkSize = 64 * 1024

// Hasher computes content hashes with a configured algorithm.
type Hasher struct {
	algorithm string
}

// FileHash is the outcome of hashing one file.
type FileHash struct {
	Path string
	Hash string
	Size int64
	Err  error
}

// NewHasher returns a hasher for the named algorithm. Supported algorithms
// are sha256, sha1, and md5.
func NewHasher(algorithm string) (*Hasher, error) {
	algorithm = strings.ToLower(algorithm)
	switch algorithm {
	case "sha256", "sha1", "md5":
		return &Hasher{algorithm: algorithm}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "integrity", "new_hasher",
			fmt.Sprintf("unsupported hash algorithm %q", algorithm), nil)
	}
}

func (h *Hasher) Algorithm() string { return h.algorithm }

func (h *Hasher) newHash() hash.Hash {
	switch h.algorithm {
	case "sha1":
		return sha1.New()
	case "md5":
		return md5.New()
	default:
		return sha256.New()
	}
}

// HashFile streams the file through the configured hash in fixed-size chunks
// and returns the lowercase hex digest and the byte count.
func (h *Hasher) HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, services.Wrap(services.ErrPermission, "integrity", "hash_file",
			fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	digest := h.newHash()
	buf := make([]byte, chunkSize)
	size, err := io.CopyBuffer(digest, f, buf)
	if err != nil {
		return "", 0, services.Wrap(services.ErrTransient, "integrity", "hash_file",
			fmt.Sprintf("read %s", path), err)
	}
	return hex.EncodeToString(digest.Sum(nil)), size, nil
}

// Verify recomputes the file hash and compares it to expected. Hex digests
// compare case-insensitively.
func (h *Hasher) Verify(path, expected string) (bool, error) {
	actual, _, err := h.HashFile(path)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(actual, expected), nil
}

// HashBatch hashes each path in order. Unreadable files carry their error in
// the result instead of aborting the batch.
func (h *Hasher) HashBatch(paths []string) []FileHash {
	results := make([]FileHash, 0, len(paths))
	for _, path := range paths {
		hashValue, size, err := h.HashFile(path)
		results = append(results, FileHash{Path: path, Hash: hashValue, Size: size, Err: err})
	}
	return results
}
