// Package web serves tuixp desktops to the browser. Terminal emulation,
// transports and the page itself come from sip; each browser tab gets its
// own desktop.
package web

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/server"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"
)

// Config holds the web server configuration.
type Config struct {
	Host           string // Host to bind to (default: "localhost")
	Port           string // Port to listen on (default: "7681")
	ReadOnly       bool   // If true, disallow input from clients
	MaxConnections int    // Maximum concurrent connections (0 = unlimited)
	Debug          bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Host: "localhost",
		Port: "7681",
	}
}

// Server is the browser front end.
type Server struct {
	config   Config
	desktops *server.Desktops
	logger   *log.Logger
	sessions atomic.Uint64
}

// NewServer returns a web server for desktops.
func NewServer(cfg Config, desktops *server.Desktops, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{config: cfg, desktops: desktops, logger: logger}
}

func (s *Server) String() string {
	return "web"
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, s.config.Port)
}

// Serve runs the web server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	// Styles are rendered for the browser's terminal, not for our stdout,
	// which usually is not a TTY here.
	lipgloss.Writer.Profile = colorprofile.TrueColor
	_ = os.Setenv("TERM", "xterm-256color")
	_ = os.Setenv("COLORTERM", "truecolor")

	cfg := sip.DefaultConfig()
	cfg.Host = s.config.Host
	cfg.Port = s.config.Port
	cfg.ReadOnly = s.config.ReadOnly
	cfg.MaxConnections = s.config.MaxConnections
	cfg.Debug = s.config.Debug

	s.logger.Info("starting web server", "addr", "http://"+s.Addr(), "read_only", s.config.ReadOnly)
	if err := sip.NewServer(cfg).Serve(ctx, s.handler); err != nil && ctx.Err() == nil {
		return fmt.Errorf("web server: %w", err)
	}
	return ctx.Err()
}

// handler creates a desktop for each browser session.
func (s *Server) handler(sess sip.Session) (tea.Model, []tea.ProgramOption) {
	pty := sess.Pty()
	logger := s.logger.With("session", s.sessions.Add(1))
	o := s.desktops.New(pty.Width, pty.Height, true, logger)
	logger.Info("session opened", "size", fmt.Sprintf("%dx%d", pty.Width, pty.Height))

	return o, []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}
