package mapview

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store owns the live surfaces. Abandoned sessions expire on their own so a
// client that never calls teardown does not leak view state.
type Store struct {
	surfaces *gocache.Cache
}

const (
	sessionTTL      = 30 * time.Minute
	cleanupInterval = 5 * time.Minute
)

func NewStore() *Store {
	return &Store{surfaces: gocache.New(sessionTTL, cleanupInterval)}
}

// Create registers a new surface under the given id.
func (st *Store) Create(id string) (*Surface, error) {
	s, err := New(id)
	if err != nil {
		return nil, err
	}
	st.surfaces.Set(id, s, gocache.DefaultExpiration)
	return s, nil
}

// Get returns the surface for id, or nil if unknown or expired.
func (st *Store) Get(id string) *Surface {
	v, ok := st.surfaces.Get(id)
	if !ok {
		return nil
	}
	return v.(*Surface)
}

// Delete tears the surface down and forgets it. Unknown ids are a no-op.
func (st *Store) Delete(id string) {
	if s := st.Get(id); s != nil {
		s.Teardown()
	}
	st.surfaces.Delete(id)
}
