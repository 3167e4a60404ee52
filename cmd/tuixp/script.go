package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Gaurav-Gosain/tuixp/internal/tape"
	"github.com/spf13/cobra"
)

func newScriptCmd() *cobra.Command {
	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Work with tape scripts",
		Long: `Tape scripts drive the desktop: they type text, press keys, click and
drag, and run key binding actions. Play one with 'tuixp --script FILE' and
record one with 'tuixp --record FILE'.`,
	}

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Check a script for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkScript(cmd.OutOrStdout(), args[0])
		},
	}

	scriptCmd.AddCommand(checkCmd)
	return scriptCmd
}

func loadScript(path string) ([]tape.Step, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	steps, err := tape.Load(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

func checkScript(w io.Writer, path string) error {
	steps, err := loadScript(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: ok, %d steps\n", path, len(steps))
	return nil
}

func writeRecording(path string, rec *tape.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	if _, err := rec.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write recording: %w", err)
	}
	return f.Close()
}
