// Package server hosts tuixp desktops for remote clients. Every SSH or web
// session gets its own desktop; the note store is shared.
package server

import (
	"io"
	"sync/atomic"

	"github.com/Gaurav-Gosain/tuixp/internal/app"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/input"
	"github.com/Gaurav-Gosain/tuixp/internal/storage"
	"github.com/charmbracelet/log"
)

// Desktops creates a desktop per remote session.
type Desktops struct {
	// Config returns the configuration for a new session. Nil loads
	// config.toml, falling back to the defaults.
	Config   func() (*config.UserConfig, error)
	Notes    *storage.Notes
	Version  string
	Logger   *log.Logger
	ShowKeys bool

	active atomic.Int32
}

func (d *Desktops) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

func (d *Desktops) config() *config.UserConfig {
	load := d.Config
	if load == nil {
		load = config.LoadUserConfig
	}
	cfg, err := load()
	if err != nil {
		d.logger().Warn("failed to load config for session, using defaults", "err", err)
		return config.DefaultConfig()
	}
	return cfg
}

// New returns a desktop sized width x height. remote marks it as served
// over the network rather than run in the local terminal.
func (d *Desktops) New(width, height int, remote bool, logger *log.Logger) *app.OS {
	app.SetInputHandler(input.HandleInput)
	return app.NewOS(app.Options{
		Config:    d.config(),
		Notes:     d.Notes,
		Logger:    logger,
		Version:   d.Version,
		Width:     width,
		Height:    height,
		IsSSHMode: remote,
		ShowKeys:  d.ShowKeys,
	})
}

// opened records a new session and returns how many are active.
func (d *Desktops) opened() int32 { return d.active.Add(1) }

// closed records the end of a session and returns how many remain.
func (d *Desktops) closed() int32 { return d.active.Add(-1) }

// Active reports the number of connected sessions.
func (d *Desktops) Active() int { return int(d.active.Load()) }
