package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/config"
	"github.com/ayusman/fingercount/internal/logging"
	"github.com/ayusman/fingercount/internal/server"
	"github.com/ayusman/fingercount/internal/store"
	"github.com/ayusman/fingercount/internal/tray"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:], ".env", os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(app.Config{
		Capture:  cfg.Capture,
		Detector: cfg.Detector,
		Mirror:   cfg.Mirror,
		// The tray owns the main thread, so no window in tray mode.
		Headless: cfg.Headless || cfg.Tray,
	}, log)

	var st *store.Store
	if cfg.Record {
		st, err = store.New(cfg.DBPath)
		if err != nil {
			log.WithError(err).Error("Failed to open session database")
			return 1
		}
		defer st.Close()

		rec, err := app.NewRecorder(st, cfg.Capture.DeviceID, log)
		if err != nil {
			log.WithError(err).Error("Failed to start recording")
			return 1
		}
		a.AddSink(rec)
	}

	if cfg.Listen != "" {
		staticDir := cfg.StaticDir
		if staticDir == "" {
			staticDir = findWebDir()
		}
		if staticDir != "" {
			log.WithField("dir", staticDir).Info("Serving static files")
		}

		srv := server.New(server.Config{
			StaticDir: staticDir,
			Store:     st,
			Log:       log,
		})
		a.AddSink(srv.Hub())

		go func() {
			if err := srv.Serve(ctx, cfg.Listen); err != nil {
				log.WithError(err).Error("Live view server failed")
			}
		}()
	}

	if !cfg.Tray {
		runPipeline(ctx, a, log)
		return 0
	}

	t := tray.New()
	t.OnQuit(stop)
	if cfg.Listen != "" {
		url := "http://" + cfg.Listen
		t.OnOpen(func() { openBrowser(url, log) })
	}
	a.AddSink(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runPipeline(ctx, a, log)
		t.Stop()
	}()

	t.Run()
	stop()
	<-done
	return 0
}

// runPipeline runs the app until it stops. Every stop condition, including
// a missing camera, ends the process normally.
func runPipeline(ctx context.Context, a *app.App, log logrus.FieldLogger) {
	if err := a.Run(ctx); err != nil {
		if errors.Is(err, app.ErrCaptureUnavailable) {
			log.WithError(err).Error("Could not open webcam.")
			return
		}
		log.WithError(err).Error("Pipeline failed")
	}
}

func openBrowser(url string, log logrus.FieldLogger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.WithError(err).Warn("Failed to open browser")
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.fingercount/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".fingercount", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
