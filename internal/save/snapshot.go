// Package save persists game state: snapshot capture and restore, YAML
// encoding, stores keyed by save slot and a periodic autosaver.
package save

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/xtding233/idle-backend/internal/content"
)

// Snapshot is the persisted state of one game. Resource values are decimal
// strings keyed "layer.key"; upgrades are bought flags under the same keys.
type Snapshot struct {
	ID        string            `yaml:"id"`
	Version   string            `yaml:"version"`
	SavedAt   time.Time         `yaml:"saved_at"`
	Resources map[string]string `yaml:"resources"`
	Upgrades  map[string]bool   `yaml:"upgrades"`
}

func entryKey(layer, key string) string { return layer + "." + key }

// Capture copies every layer resource and upgrade flag of g. An empty id gets
// a fresh one.
func Capture(g *content.Game, id, version string, now time.Time) Snapshot {
	if id == "" {
		id = uuid.NewString()
	}
	s := Snapshot{
		ID:        id,
		Version:   version,
		SavedAt:   now.UTC(),
		Resources: make(map[string]string),
		Upgrades:  make(map[string]bool),
	}
	for _, l := range g.Layers() {
		for _, e := range l.Resources() {
			s.Resources[entryKey(l.ID, e.Key)] = e.Resource.Value().String()
		}
		for _, e := range l.Upgrades() {
			s.Upgrades[entryKey(l.ID, e.Key)] = e.Upgrade.Bought()
		}
	}
	return s
}

// Apply restores s into g. Keys g does not know are skipped so older saves
// keep loading; a malformed number fails the whole apply before anything is
// written.
func Apply(g *content.Game, s Snapshot) error {
	values := make(map[string]decimal.Decimal, len(s.Resources))
	for k, v := range s.Resources {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("resource %s: %w", k, err)
		}
		values[k] = d
	}
	for _, l := range g.Layers() {
		for _, e := range l.Resources() {
			if v, ok := values[entryKey(l.ID, e.Key)]; ok {
				e.Resource.Set(v)
			}
		}
		for _, e := range l.Upgrades() {
			if b, ok := s.Upgrades[entryKey(l.ID, e.Key)]; ok {
				e.Upgrade.SetBought(b)
			}
		}
	}
	return nil
}

func Encode(s Snapshot) ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func Decode(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// OfflineSeconds is the time between savedAt and now, capped at limit and
// never negative.
func OfflineSeconds(savedAt, now time.Time, limit decimal.Decimal) decimal.Decimal {
	if savedAt.IsZero() {
		return decimal.Zero
	}
	elapsed := decimal.NewFromFloat(now.Sub(savedAt).Seconds())
	if elapsed.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.Min(elapsed, limit)
}
