// Package cmd implements the branchgraph command-line interface: flag
// parsing, TTY-dependent defaults, and the one-shot vs. live-mode render
// loops (spec §6). The core (gitstore/analytics/dag) never imports this
// package.
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"branchgraph/internal/branchgraph"
	"branchgraph/internal/gitstore"
	"branchgraph/internal/render"
	"branchgraph/internal/watch"
)

var (
	flagColor       bool
	flagNoColor     bool
	flagRemoteIcons bool
	flagNoIcons     bool
	flagWatch       bool
	flagPollEvery   float64
)

var rootCmd = &cobra.Command{
	Use:   "branchgraph",
	Short: "Render a compact graph of the current repository's local branches",
	Long: `branchgraph walks a Git repository's object store directly (no shelling out
to git) and renders a compact Unicode box-drawing graph of its local
branches, their upstreams, and merge history.`,
	RunE: runRoot,
}

func init() {
	rootCmd.Flags().BoolVar(&flagColor, "color", false, "color branch names (default: true iff stdout is a TTY)")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "never color branch names")
	rootCmd.Flags().BoolVar(&flagRemoteIcons, "remote-icons", false, "show remote-sync icons (default: true iff stdout is a TTY)")
	rootCmd.Flags().BoolVar(&flagNoIcons, "no-remote-icons", false, "never show remote-sync icons")
	rootCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "enable live redraw loop (TTY only)")
	rootCmd.Flags().Float64Var(&flagPollEvery, "poll-every", 1.0, "poll interval in seconds for watch mode")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func resolveBool(set, unset, defaultValue bool) bool {
	switch {
	case set:
		return true
	case unset:
		return false
	default:
		return defaultValue
	}
}

func runRoot(c *cobra.Command, args []string) error {
	tty := isTTY()
	useColor := resolveBool(flagColor, flagNoColor, tty)
	remoteIcons := resolveBool(flagRemoteIcons, flagNoIcons, tty)
	live := flagWatch && tty

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	repo, err := gitstore.OpenRepo(cwd)
	if err != nil {
		return err
	}

	renderer := render.NewTerminal(os.Stdout, useColor, remoteIcons, live)

	if !live {
		rows, err := branchgraph.BuildRows(repo, branchgraph.WindowSizeSecs)
		if err != nil {
			return err
		}
		return renderer.RenderFrame(rows)
	}

	return runLive(repo, renderer)
}

func runLive(repo *gitstore.Repo, renderer *render.Terminal) error {
	pollEvery := time.Duration(flagPollEvery * float64(time.Second))
	if pollEvery <= 0 {
		pollEvery = time.Second
	}

	watcher, err := watch.NewFSWatcher(repo.GitDir, pollEvery)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for {
		rows, err := branchgraph.BuildRows(repo, branchgraph.WindowSizeSecs)
		if err != nil {
			return err
		}
		if err := renderer.RenderFrame(rows); err != nil {
			return err
		}

		if _, ok := <-watcher.Changed(); !ok {
			return nil
		}
		repo.ResetCaches()
	}
}
