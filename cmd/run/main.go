package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/script-runtime/runtime"
	"github.com/wippyai/script-runtime/testbed"
)

func main() {
	var (
		scriptFile  = flag.String("script", "", "Path to Lua script file")
		watchFiles  = flag.String("watch", "", "Extra files to hot reload (comma-separated, relative to the script dir)")
		hotReload   = flag.Bool("hot", false, "Enable hot reload for the script")
		fps         = flag.Int("fps", 60, "Frame rate for the update loop")
		loop        = flag.Bool("loop", false, "Keep calling update() at -fps until interrupted")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *scriptFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -script <file.lua> [-hot] [-watch a.lua,b.lua] [-loop -fps 60]")
		fmt.Fprintln(os.Stderr, "       run -script <file.lua> -i  (interactive mode)")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*scriptFile, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*scriptFile, *watchFiles, *hotReload, *loop, *fps, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scriptFile, watchStr string, hotReload, loop bool, fps int, logger *zap.Logger) error {
	rt := runtime.New(runtime.WithLogger(logger))
	defer rt.Close()

	game := testbed.NewGame(logger)
	if err := rt.RegisterBinder(testbed.NewGameBinder(game, rt)); err != nil {
		return fmt.Errorf("register game binder: %w", err)
	}

	fmt.Printf("Script: %s\n", scriptFile)
	if err := rt.ExecuteFile(scriptFile); err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	if hotReload {
		root := filepath.Dir(scriptFile)
		files := []string{filepath.Base(scriptFile)}
		if watchStr != "" {
			files = append(files, strings.Split(watchStr, ",")...)
		}
		rt.SetReloadCompleteCallback(func(ok bool, errMsg string) {
			if ok {
				fmt.Println("reloaded")
			} else {
				fmt.Printf("reload failed: %s\n", errMsg)
			}
		})
		if err := rt.EnableHotReload(root, files...); err != nil {
			return fmt.Errorf("enable hot reload: %w", err)
		}
		fmt.Printf("Hot reload: watching %s in %s\n", strings.Join(files, ", "), root)
	}

	if !loop {
		return nil
	}
	if !rt.HasFunction("update") {
		return fmt.Errorf("-loop needs the script to define update(dt)")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	interval := time.Second / time.Duration(fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	dt := interval.Seconds()
	start := time.Now()

	fmt.Printf("Running update loop at %d fps, ctrl+c to stop\n", fps)
	for {
		select {
		case <-stop:
			fmt.Printf("\nFrames: %d\n", game.Frames())
			return nil
		case <-ticker.C:
			rt.ProcessPendingEvents()
			if _, err := rt.CallFunction("update", dt, time.Since(start).Seconds()); err != nil {
				return fmt.Errorf("update: %w", err)
			}
			if rt.HasFunction("render") {
				if _, err := rt.CallFunction("render"); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}
		}
	}
}
