package naming

import (
	"os"
	"path/filepath"
	"sync"
)

// MemoryRegistry tracks reservations in memory. Preview runs use it alone;
// live runs wrap it around an on-disk existence check so files already in
// the vault also count as taken.
type MemoryRegistry struct {
	mu       sync.Mutex
	reserved map[string]struct{}
	checkFS  bool
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{reserved: make(map[string]struct{})}
}

// NewVaultRegistry returns a registry that also treats existing vault files
// as reserved.
func NewVaultRegistry() *MemoryRegistry {
	return &MemoryRegistry{reserved: make(map[string]struct{}), checkFS: true}
}

func (r *MemoryRegistry) Reserve(dir, name string) (bool, error) {
	full := filepath.Join(dir, name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.reserved[full]; taken {
		return false, nil
	}
	if r.checkFS {
		if _, err := os.Lstat(full); err == nil {
			r.reserved[full] = struct{}{}
			return false, nil
		}
	}
	r.reserved[full] = struct{}{}
	return true, nil
}

// Release frees a reservation after a failed move so a retry can reuse the
// name.
func (r *MemoryRegistry) Release(dir, name string) {
	full := filepath.Join(dir, name)
	r.mu.Lock()
	delete(r.reserved, full)
	r.mu.Unlock()
}
