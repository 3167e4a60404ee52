// Package main implements tuixp, a desktop shell for the terminal. It runs
// in the local terminal, as an SSH server and in the browser.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	cpuProfile string
	showKeys   bool
	scriptPath string
	recordPath string
	overrides  config.Overrides
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "tuixp",
		Short: "A desktop shell for the terminal",
		Long: `tuixp - a desktop shell for the terminal

A welcome screen, a desktop with icons, a taskbar with a start menu and a
clock, and draggable, resizable application windows. Runs in the local
terminal, over SSH and in the browser.`,
		Example: `  # Run tuixp
  tuixp

  # Skip the welcome screen
  tuixp --user Guest

  # Serve desktops over SSH
  tuixp ssh --port 2222

  # Serve desktops in the browser
  tuixp web --port 7681

  # Serve both under one supervisor
  tuixp serve

  # Play a script, then keep the desktop
  tuixp --script demo.tape

  # Record a session as a script
  tuixp --record session.tape

  # List all keybindings
  tuixp keybinds list`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(cmd.Context())
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.BoolVar(&showKeys, "show-keys", false, "Show pressed keys in the corner of the desktop")
	flags.StringVar(&overrides.Theme, "theme", "", "Color theme (tuixp or any bubbletint theme id)")
	flags.StringVar(&overrides.ClockFormat, "clock", "", "Taskbar clock format: 12h or 24h")
	flags.BoolVar(&overrides.Muted, "mute", false, "Start with system sounds muted")
	flags.StringVar(&overrides.AutoLogin, "user", "", "Log this account on without the welcome screen")
	flags.StringVar(&overrides.NotesPath, "notes", "", "Path of the notepad database")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "Play a tape script against the desktop")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "Record the session's input as a tape script")

	rootCmd.AddCommand(
		newSSHCmd(),
		newWebCmd(),
		newServeCmd(),
		newConfigCmd(),
		newKeybindsCmd(),
		newNoteCmd(),
		newScriptCmd(),
	)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func newSSHCmd() *cobra.Command {
	var sshHost, sshPort, sshKeyPath string
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve tuixp over SSH",
		Long: `Serve tuixp over SSH

Every connection gets its own desktop. The host key is generated on first
start when it does not exist.`,
		Example: `  # Start SSH server on default port
  tuixp ssh

  # Start on custom port
  tuixp ssh --port 2222

  # Specify custom host key
  tuixp ssh --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSH(cmd.Context(), sshHost, sshPort, sshKeyPath)
		},
	}
	cmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	cmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	cmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	return cmd
}

type webFlags struct {
	host           string
	port           string
	readOnly       bool
	maxConnections int
}

func (f *webFlags) register(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringVar(&f.port, prefix+"port", "7681", "Web server port")
	cmd.Flags().StringVar(&f.host, prefix+"host", "localhost", "Web server host")
	cmd.Flags().BoolVar(&f.readOnly, "read-only", false, "Disable input from clients (view only)")
	cmd.Flags().IntVar(&f.maxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")
}

func newWebCmd() *cobra.Command {
	var f webFlags
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve tuixp in the browser",
		Long: `Serve tuixp in the browser

Every browser tab gets its own desktop, rendered by a web terminal.`,
		Example: `  # Start web server on default port (7681)
  tuixp web

  # Bind to all interfaces for remote access
  tuixp web --host 0.0.0.0

  # View only
  tuixp web --read-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(cmd.Context(), f)
		},
	}
	f.register(cmd, "")
	return cmd
}

func newServeCmd() *cobra.Command {
	var web webFlags
	var sshHost, sshPort, sshKeyPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tuixp over SSH and in the browser",
		Long: `Serve tuixp over SSH and in the browser at once

Both servers run under a supervisor that restarts either one if it fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), sshHost, sshPort, sshKeyPath, web)
		},
	}
	cmd.Flags().StringVar(&sshPort, "ssh-port", "2222", "SSH server port")
	cmd.Flags().StringVar(&sshHost, "ssh-host", "localhost", "SSH server host")
	cmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	web.register(cmd, "web-")
	return cmd
}
