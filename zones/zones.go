package zones

import (
	"context"
	"log"
	"sync"

	"go-wastewise/geoutil"
	"go-wastewise/types"
)

// Repo reads dumping zones from durable storage.
type Repo interface {
	ListActive(ctx context.Context) ([]types.DumpingZone, error)
}

// Matcher answers whether a coordinate falls inside any active
// illegal-dumping zone. A snapshot of the last successful fetch is kept so a
// repo outage degrades to slightly stale zones instead of none.
type Matcher struct {
	repo Repo

	mu       sync.RWMutex
	snapshot []types.DumpingZone
	hasSnap  bool
}

func NewMatcher(repo Repo) *Matcher {
	return &Matcher{repo: repo}
}

// IsIllegalDumpingZone reports whether the point is within the radius of any
// active zone. Zone-fetch failure fails open: reporting must not be blocked
// by an outage in a secondary safety feature.
func (m *Matcher) IsIllegalDumpingZone(ctx context.Context, lat, lon float64) bool {
	zones, err := m.repo.ListActive(ctx)
	if err != nil {
		log.Printf("Error fetching dumping zones, failing open: %v", err)
		m.mu.RLock()
		zones, ok := m.snapshot, m.hasSnap
		m.mu.RUnlock()
		if !ok {
			return false
		}
		return matchAny(zones, lat, lon)
	}

	m.store(zones)
	return matchAny(zones, lat, lon)
}

// Refresh re-reads the active zones into the snapshot. Called from the cron
// job so the fallback snapshot stays recent.
func (m *Matcher) Refresh(ctx context.Context) error {
	zones, err := m.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	m.store(zones)
	return nil
}

// Snapshot returns the most recently fetched zones, for read endpoints.
func (m *Matcher) Snapshot() []types.DumpingZone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.DumpingZone, len(m.snapshot))
	copy(out, m.snapshot)
	return out
}

func (m *Matcher) store(zones []types.DumpingZone) {
	m.mu.Lock()
	m.snapshot = zones
	m.hasSnap = true
	m.mu.Unlock()
}

func matchAny(zones []types.DumpingZone, lat, lon float64) bool {
	for _, z := range zones {
		if !z.IsActive {
			continue
		}
		dist := geoutil.DistanceMeters(lat, lon, z.Latitude, z.Longitude)
		if dist <= z.Radius() {
			return true
		}
	}
	return false
}
