package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xtding233/idle-backend/internal/game"
	"github.com/xtding233/idle-backend/internal/save"
	"github.com/xtding233/idle-backend/internal/server"
	"github.com/xtding233/idle-backend/internal/session"
)

type options struct {
	configDir string
	game      string
	mode      string
	httpAddr  string
	grpcAddr  string
	logLevel  string
	logJSON   bool
	watch     time.Duration
	overrides game.Overrides
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configDir, "config", "config/games", "directory holding default.yaml and game files")
	flag.StringVar(&o.game, "game", "prestige-tree", "game id")
	flag.StringVar(&o.mode, "mode", "", "optional mode overlay, e.g. fast")
	flag.StringVar(&o.httpAddr, "http", ":8080", "HTTP and WebSocket listen address")
	flag.StringVar(&o.grpcAddr, "grpc", ":9090", "gRPC listen address, empty to disable")
	flag.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.BoolVar(&o.logJSON, "log-json", false, "log as JSON")
	flag.DurationVar(&o.watch, "watch", 2*time.Second, "config poll interval, 0 to disable")
	devSpeed := flag.Float64("dev-speed", 1, "override clock.dev_speed")
	saveDir := flag.String("save-dir", "", "override save.dir")
	flag.Parse()

	// only flags given on the command line override the files
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dev-speed":
			o.overrides.DevSpeed = devSpeed
		case "save-dir":
			o.overrides.SaveDir = saveDir
		}
	})
	return o
}

func setupLogging(o options) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		level = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, hopts)
	if o.logJSON {
		h = slog.NewJSONHandler(os.Stderr, hopts)
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	o := parseFlags()
	setupLogging(o)
	if err := run(o); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(o options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := game.NewLoader(o.configDir)
	_, params, err := loader.Resolve(o.game, o.mode, o.overrides)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "config loaded", "game", params.Game, "mode", params.Mode, "version", params.Version)

	store, err := save.NewFileStore(params.SaveDir)
	if err != nil {
		return err
	}
	sess := session.New(params)
	if _, err := sess.Load(ctx, store, time.Now()); err != nil {
		slog.WarnContext(ctx, "save not restored, starting fresh", "err", err)
	}

	reload := func(reason string) {
		loader.Invalidate()
		_, p, err := loader.Resolve(o.game, o.mode, o.overrides)
		if err != nil {
			slog.WarnContext(ctx, "config reload rejected", "reason", reason, "err", err)
			return
		}
		if err := sess.Reload(ctx, p); err != nil {
			slog.WarnContext(ctx, "session reload failed", "reason", reason, "err", err)
			return
		}
		slog.InfoContext(ctx, "config reloaded", "reason", reason, "version", p.Version)
	}

	hub := server.NewHub(server.InvokeHandler(sess))
	httpSrv := &http.Server{Addr: o.httpAddr, Handler: server.NewHTTP(sess, hub)}
	grpcSrv := server.NewGRPC(sess)
	autosaver := save.NewAutosaver(store, params.SaveKey, params.Autosave, func() save.Snapshot {
		return sess.Snapshot(time.Now())
	})

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return hub.Run(ctx) })
	eg.Go(func() error { return server.RunFrames(ctx, sess, params.FrameInterval, hub) })
	eg.Go(func() error { return autosaver.Run(ctx) })
	if o.watch > 0 {
		files := loader.Paths().Files(o.game, o.mode)
		w := game.NewFileWatcher(files, o.watch, reload)
		eg.Go(func() error { return w.Run(ctx) })
	}
	eg.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-hup:
				reload("SIGHUP")
			case <-ctx.Done():
				return nil
			}
		}
	})

	eg.Go(func() error {
		slog.InfoContext(ctx, "http listening", "addr", o.httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if o.grpcAddr != "" {
		eg.Go(func() error {
			lis, err := net.Listen("tcp", o.grpcAddr)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "grpc listening", "addr", o.grpcAddr)
			return grpcSrv.Serve(lis)
		})
	}
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
