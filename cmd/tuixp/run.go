package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/app"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/input"
	"github.com/Gaurav-Gosain/tuixp/internal/server"
	"github.com/Gaurav-Gosain/tuixp/internal/storage"
	"github.com/Gaurav-Gosain/tuixp/internal/tape"
	"github.com/Gaurav-Gosain/tuixp/internal/terminal"
	"github.com/Gaurav-Gosain/tuixp/internal/web"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// filterMouseMotion drops pointer motion unless a window is being dragged
// or resized; nothing else reacts to it.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	o, ok := model.(*app.OS)
	if !ok || o.Interacting() {
		return msg
	}
	return nil
}

// newLogger returns a logger writing to w, at debug level with --debug.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openLogFile opens the local-mode log file. The terminal belongs to the
// desktop, so nothing may log to stderr while it runs.
func openLogFile() (*os.File, error) {
	path, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// loadConfig reads config.toml and applies the command-line overrides.
func loadConfig() (*config.UserConfig, error) {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		return nil, err
	}
	config.ApplyOverrides(cfg, overrides)
	return cfg, nil
}

// loadConfigOrDefault is loadConfig falling back to the defaults.
func loadConfigOrDefault(logger *log.Logger) *config.UserConfig {
	cfg, err := loadConfig()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "err", err)
		cfg = config.DefaultConfig()
		config.ApplyEnv(cfg)
		config.ApplyOverrides(cfg, overrides)
	}
	return cfg
}

// openNotes opens the note database. A failure leaves the notepad without
// persistence rather than stopping tuixp.
func openNotes(ctx context.Context, cfg *config.UserConfig, logger *log.Logger) *storage.Notes {
	path, err := cfg.NotesPath()
	if err != nil {
		logger.Warn("notes disabled", "err", err)
		return nil
	}
	notes, err := storage.Open(ctx, path, storage.WithLogger(logger))
	if err != nil {
		logger.Warn("notes disabled", "path", path, "err", err)
		return nil
	}
	return notes
}

func startCPUProfile() (stop func(), err error) {
	if cpuProfile == "" {
		return func() {}, nil
	}
	f, err := os.Create(cpuProfile)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

func runLocal(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tuixp needs an interactive terminal; use 'tuixp ssh' or 'tuixp web' to serve it")
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, "tuixp")

	stopProfile, err := startCPUProfile()
	if err != nil {
		return err
	}
	defer stopProfile()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := loadConfigOrDefault(logger)
	notes := openNotes(ctx, cfg, logger)
	if notes != nil {
		defer notes.Close()
	}

	var steps []tape.Step
	if scriptPath != "" {
		if steps, err = loadScript(scriptPath); err != nil {
			return err
		}
	}
	filter := filterMouseMotion
	var rec *tape.Recorder
	if recordPath != "" {
		rec = tape.NewRecorder(nil)
		filter = func(model tea.Model, msg tea.Msg) tea.Msg {
			rec.Record(msg)
			return filterMouseMotion(model, msg)
		}
	}

	app.SetInputHandler(input.HandleInput)
	w, h, _ := term.GetSize(int(os.Stdout.Fd()))
	initialOS := app.NewOS(app.Options{
		Config:   cfg,
		Notes:    notes,
		Logger:   logger,
		Version:  version,
		Width:    w,
		Height:   h,
		ShowKeys: showKeys,
	})

	p := tea.NewProgram(
		initialOS,
		tea.WithContext(ctx),
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(filter),
	)

	if path, err := config.GetConfigPath(); err == nil {
		watcher := config.NewWatcher(path, func(cfg *config.UserConfig) {
			config.ApplyOverrides(cfg, overrides)
			p.Send(app.ConfigReloadedMsg{Config: cfg})
		}, logger)
		go func() {
			if err := watcher.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped", "err", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Send(app.QuitRequestMsg{})
		case <-ctx.Done():
		}
	}()

	if steps != nil {
		player := tape.NewPlayer(steps)
		go func() {
			if err := player.Play(ctx, p.Send); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("script stopped", "err", err)
			}
			done, total := player.Progress()
			logger.Info("script finished", "path", scriptPath, "steps", done, "of", total)
		}()
	}

	logger.Info("starting", "version", version, "size", fmt.Sprintf("%dx%d", w, h))
	finalModel, err := p.Run()
	if finalOS, ok := finalModel.(*app.OS); ok {
		finalOS.Cleanup()
	}
	if rec != nil {
		if werr := writeRecording(recordPath, rec); werr != nil {
			logger.Error("failed to save recording", "err", werr)
		}
	}
	if err != nil {
		_ = terminal.Reset(os.Stdout)
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// serverContext returns a context cancelled on SIGINT or SIGTERM.
func serverContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newDesktops builds the shared session factory for the servers. The caller
// closes the returned note store.
func newDesktops(ctx context.Context, logger *log.Logger) (*server.Desktops, *storage.Notes) {
	cfg := loadConfigOrDefault(logger)
	notes := openNotes(ctx, cfg, logger)
	return &server.Desktops{
		Config:   loadConfig,
		Notes:    notes,
		Version:  version,
		Logger:   logger,
		ShowKeys: showKeys,
	}, notes
}

func runSSH(ctx context.Context, host, port, keyPath string) error {
	ctx, cancel := serverContext(ctx)
	defer cancel()

	logger := newLogger(os.Stderr, "ssh")
	desktops, notes := newDesktops(ctx, logger)
	if notes != nil {
		defer notes.Close()
	}

	srv := server.NewSSHServer(server.SSHConfig{Host: host, Port: port, KeyPath: keyPath}, desktops, logger)
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

func webConfig(f webFlags) web.Config {
	cfg := web.DefaultConfig()
	cfg.Host = f.host
	cfg.Port = f.port
	cfg.ReadOnly = f.readOnly
	cfg.MaxConnections = f.maxConnections
	cfg.Debug = debugMode
	return cfg
}

func runWeb(ctx context.Context, f webFlags) error {
	ctx, cancel := serverContext(ctx)
	defer cancel()

	logger := newLogger(os.Stderr, "web")
	desktops, notes := newDesktops(ctx, logger)
	if notes != nil {
		defer notes.Close()
	}

	srv := web.NewServer(webConfig(f), desktops, logger)
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}

// runServe runs the SSH and web servers under one supervisor.
func runServe(ctx context.Context, sshHost, sshPort, sshKeyPath string, f webFlags) error {
	ctx, cancel := serverContext(ctx)
	defer cancel()

	logger := newLogger(os.Stderr, "serve")
	desktops, notes := newDesktops(ctx, logger)
	if notes != nil {
		defer notes.Close()
	}

	super := server.NewSupervisor(logger)
	server.Add(super, server.NewSSHServer(
		server.SSHConfig{Host: sshHost, Port: sshPort, KeyPath: sshKeyPath},
		desktops,
		logger.WithPrefix("ssh"),
	))
	server.Add(super, web.NewServer(webConfig(f), desktops, logger.WithPrefix("web")))

	if err := super.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	return nil
}
