package save

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/idle-backend/internal/content"
)

func TestCaptureApplyRestoresState(t *testing.T) {
	g := content.New(content.DefaultBalance())
	g.Main.Points.Set(decimal.RequireFromString("1.5e120"))
	g.Jacorb.Points.Set(decimal.NewFromInt(7))
	g.Jacorb.Beginning.SetBought(true)
	g.Prestige.Boost.Set(decimal.NewFromInt(2))

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s := Capture(g, "", "1.0.0", now)
	if s.ID == "" || !s.SavedAt.Equal(now) {
		t.Fatalf("snapshot header = %q %s", s.ID, s.SavedAt)
	}

	b, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	fresh := content.New(content.DefaultBalance())
	if err := Apply(fresh, back); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !fresh.Main.Points.Value().Equal(g.Main.Points.Value()) {
		t.Fatalf("points = %s, want %s", fresh.Main.Points.Value(), g.Main.Points.Value())
	}
	if !fresh.Jacorb.Points.Value().Equal(decimal.NewFromInt(7)) || !fresh.Jacorb.Beginning.Bought() {
		t.Fatalf("jacorb layer not restored")
	}
	if fresh.Jacorb.Init.Bought() {
		t.Fatalf("init should stay unbought")
	}
	if !fresh.Prestige.Boost.Value().Equal(decimal.NewFromInt(2)) {
		t.Fatalf("boosters = %s, want 2", fresh.Prestige.Boost.Value())
	}
}

func TestApplyRejectsBadNumberWithoutWriting(t *testing.T) {
	g := content.New(content.DefaultBalance())
	s := Snapshot{Resources: map[string]string{
		"j.points":    "5",
		"main.points": "not-a-number",
	}}
	if err := Apply(g, s); err == nil {
		t.Fatalf("expected error")
	}
	if !g.Jacorb.Points.Value().IsZero() {
		t.Fatalf("apply wrote state before failing")
	}
}

func TestApplySkipsUnknownKeys(t *testing.T) {
	g := content.New(content.DefaultBalance())
	s := Snapshot{
		Resources: map[string]string{"old.thing": "3", "p.pres": "4"},
		Upgrades:  map[string]bool{"old.upgrade": true},
	}
	if err := Apply(g, s); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !g.Prestige.Pres.Value().Equal(decimal.NewFromInt(4)) {
		t.Fatalf("pres = %s, want 4", g.Prestige.Pres.Value())
	}
}

func TestOfflineSeconds(t *testing.T) {
	now := time.Now()
	limit := decimal.NewFromInt(3600)
	if got := OfflineSeconds(now.Add(-10*time.Second), now, limit); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("offline = %s, want 10", got)
	}
	if got := OfflineSeconds(now.Add(-5*time.Hour), now, limit); !got.Equal(limit) {
		t.Fatalf("offline = %s, want capped 3600", got)
	}
	if got := OfflineSeconds(now.Add(time.Minute), now, limit); !got.IsZero() {
		t.Fatalf("offline from the future = %s, want 0", got)
	}
	if got := OfflineSeconds(time.Time{}, now, limit); !got.IsZero() {
		t.Fatalf("offline without a save time = %s, want 0", got)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := fs.Load(ctx, "slot"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load missing = %v, want ErrNotFound", err)
	}
	s := Snapshot{ID: "abc", Version: "1", Resources: map[string]string{"main.points": "12.5"}}
	if err := fs.Save(ctx, "slot", s); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Resources["main.points"] = "13"
	if err := fs.Save(ctx, "slot", s); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := fs.Load(ctx, "slot")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != "abc" || got.Resources["main.points"] != "13" {
		t.Fatalf("loaded %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if _, err := m.Load(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	_ = m.Save(ctx, "x", Snapshot{ID: "1"})
	if s, err := m.Load(ctx, "x"); err != nil || s.ID != "1" {
		t.Fatalf("load = %+v, %v", s, err)
	}
}
