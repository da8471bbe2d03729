package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/triadc/triadc/pkg/diagnostics"
	"github.com/triadc/triadc/pkg/driver"
)

// runWatch recompiles filePath every time it changes, the way the
// teacher's runWatchMode watches a file's containing directory
// (more reliable than watching the file itself across editors that
// save via rename-and-replace) with a debounce timer to coalesce
// bursts of filesystem events into one recompile.
func runWatch(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	printAsm, _ := cmd.Flags().GetBool("asm")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(filePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	d := driver.New()
	recompile := func() {
		source, err := readSource(filePath)
		if err != nil {
			printError(err)
			return
		}
		res, err := d.Compile(source)
		if err != nil {
			ce := diagnostics.FromError(err, source)
			printError(fmt.Errorf("%s", ce.Format(true)))
			return
		}
		printSuccess(fmt.Sprintf("recompiled %s", filePath))
		if printAsm {
			fmt.Println(res.Assembly)
		}
	}

	recompile()
	printInfo(fmt.Sprintf("watching %s for changes, press Ctrl+C to stop", filePath))

	var debounce *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, recompile)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(err)

		case <-sigChan:
			return nil
		}
	}
}
