package save_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/xtding233/idle-backend/internal/save"
	"github.com/xtding233/idle-backend/internal/save/mocks"
)

func TestAutosaverSaveNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	snap := save.Snapshot{ID: "s1"}
	store.EXPECT().Save(gomock.Any(), "slot", snap).Return(nil)

	a := save.NewAutosaver(store, "slot", time.Hour, func() save.Snapshot { return snap })
	if err := a.SaveNow(context.Background()); err != nil {
		t.Fatalf("save now: %v", err)
	}
}

func TestAutosaverWrapsStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("disk full")
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Save(gomock.Any(), "slot", gomock.Any()).Return(boom)

	a := save.NewAutosaver(store, "slot", time.Hour, func() save.Snapshot { return save.Snapshot{} })
	if err := a.SaveNow(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped disk full", err)
	}
}

func TestAutosaverRunSavesPeriodicallyAndOnStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	ticked := make(chan struct{}, 8)
	store.EXPECT().Save(gomock.Any(), "slot", gomock.Any()).DoAndReturn(
		func(context.Context, string, save.Snapshot) error {
			select {
			case ticked <- struct{}{}:
			default:
			}
			return nil
		}).MinTimes(2)

	a := save.NewAutosaver(store, "slot", 10*time.Millisecond, func() save.Snapshot { return save.Snapshot{ID: "s"} })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatalf("no periodic save")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}
