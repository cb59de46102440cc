package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/web3infra-foundation/aries-launcher/internal/launch"
	"github.com/web3infra-foundation/aries-launcher/internal/preflight"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that this host can launch aries",
	Long: `Run the launch contract's preflight checks without launching: the
base directory, the config file probe (reporting which launch form
would be chosen), and the aries binary itself.

A missing config file is healthy — aries then starts with built-in
defaults. Exits non-zero if any check fails.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	baseDir := launch.BaseDir
	results := preflight.Run(baseDir, launch.ConfigPath(baseDir), launch.TargetPath)

	for _, r := range results {
		globalLogger.Debug("preflight", "check", r.Name, "passed", r.Passed, "detail", r.Detail)
	}

	fmt.Println(renderDoctorTable(results, shouldColorize(os.Stdout)))

	if preflight.Failed(results) {
		return fmt.Errorf("preflight failed")
	}

	fmt.Println("All checks passed.")
	return nil
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// renderDoctorTable renders preflight results as a rounded table.
func renderDoctorTable(results []preflight.Result, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"STATUS", "CHECK", "DETAIL"})

	for _, r := range results {
		tw.AppendRow(table.Row{statusLabel(r.Passed, colorize), r.Name, r.Detail})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func statusLabel(passed, colorize bool) string {
	label := "[FAIL]"
	color := ansiRed
	if passed {
		label = "[OK]"
		color = ansiGreen
	}
	if colorize {
		return color + label + ansiReset
	}
	return label
}

// shouldColorize reports whether writer is a terminal.
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
