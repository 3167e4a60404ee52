package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
)

// SSHConfig holds configuration for the SSH server.
type SSHConfig struct {
	Host    string
	Port    string
	KeyPath string // empty: config.HostKeyPath()
}

// SSHServer serves one desktop per SSH session.
type SSHServer struct {
	cfg      SSHConfig
	desktops *Desktops
	logger   *log.Logger
}

// NewSSHServer returns an SSH server for desktops.
func NewSSHServer(cfg SSHConfig, desktops *Desktops, logger *log.Logger) *SSHServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SSHServer{cfg: cfg, desktops: desktops, logger: logger}
}

func (s *SSHServer) String() string {
	return "ssh"
}

// Addr is the address the server listens on.
func (s *SSHServer) Addr() string {
	return net.JoinHostPort(s.cfg.Host, s.cfg.Port)
}

// Serve runs the SSH server until ctx is cancelled.
func (s *SSHServer) Serve(ctx context.Context) error {
	hostKeyPath := s.cfg.KeyPath
	if hostKeyPath == "" {
		var err error
		if hostKeyPath, err = config.HostKeyPath(); err != nil {
			return err
		}
	}

	server, err := wish.NewServer(
		wish.WithAddress(s.Addr()),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting SSH server", "addr", s.Addr())
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("ssh shutdown: %w", err)
	}
	return ctx.Err()
}

// teaHandler creates a desktop for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := sess.Pty()
	if !active {
		s.logger.Warn("session without a pty refused", "user", sess.User(), "remote", sess.RemoteAddr())
		return nil, nil
	}

	logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
	o := s.desktops.New(pty.Window.Width, pty.Window.Height, true, logger)
	logger.Info("session opened", "active", s.desktops.opened(), "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	go func() {
		<-sess.Context().Done()
		logger.Info("session closed", "active", s.desktops.closed())
	}()

	return o, []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}
