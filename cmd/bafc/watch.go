package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchAndRebuild runs build once immediately, then re-runs it every time
// path changes on disk, until interrupted. Declared in the teacher's
// runtime/go.mod but never wired to a call site there; this is that site.
func watchAndRebuild(cmd *cobra.Command, path string, build func() error) error {
	noColor, _ := cmd.Flags().GetBool("no-color")
	if err := build(); err != nil {
		FormatError(cmd.ErrOrStderr(), err, !noColor)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &CLIError{Message: fmt.Sprintf("could not start file watcher: %v", err)}
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return &CLIError{Message: fmt.Sprintf("could not watch %q: %v", path, err)}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes (ctrl-c to stop)\n", path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s changed, rebuilding...\n", ev.Name)
			if err := build(); err != nil {
				FormatError(cmd.ErrOrStderr(), err, !noColor)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
