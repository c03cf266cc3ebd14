package catalog

import "context"

// NameRegistry adapts the reserved_names table to the naming registry
// contract used during live runs.
type NameRegistry struct {
	ctx   context.Context
	store *Store
}

// Names returns a registry view bound to ctx.
func (s *Store) Names(ctx context.Context) *NameRegistry {
	return &NameRegistry{ctx: ctx, store: s}
}

func (r *NameRegistry) Reserve(dir, name string) (bool, error) {
	return r.store.ReserveName(r.ctx, dir, name)
}

func (r *NameRegistry) Release(dir, name string) error {
	return r.store.ReleaseName(r.ctx, dir, name)
}
