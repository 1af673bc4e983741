// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command flatfs opens (or formats) a flatfs device and runs the command
// shell against it.
//
//	flatfs [-config flatfs.yaml] [-import image.zst] [-export image.zst] [command args...]
//
// With no command the shell reads commands from stdin until exit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/bpowers/flatfs"
	"github.com/bpowers/flatfs/internal/blockdev"
	"github.com/bpowers/flatfs/internal/config"
	"github.com/bpowers/flatfs/internal/image"
	"github.com/bpowers/flatfs/internal/shell"
)

var (
	configPath = flag.String("config", "flatfs.yaml", "path to the YAML config file")
	importPath = flag.String("import", "", "restore the device from this zstd image before opening it")
	exportPath = flag.String("export", "", "write a zstd image of the device to this path on exit")
)

func openDevice(cfg config.DeviceConfig) (blockdev.Device, error) {
	switch strings.ToLower(cfg.Backend) {
	case "mmap":
		return blockdev.OpenMmap(cfg.Path, cfg.Size)
	case "file":
		return blockdev.OpenFile(cfg.Path, cfg.Size)
	case "billy":
		bfs := osfs.New(filepath.Dir(cfg.Path))
		return blockdev.OpenBilly(bfs, filepath.Base(cfg.Path), cfg.Size)
	case "memory":
		return blockdev.NewMemory(cfg.Size), nil
	}
	return nil, fmt.Errorf("unknown device backend %q", cfg.Backend)
}

func importImage(path string, dev blockdev.Device) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = image.Import(f, dev)
	return err
}

func exportImage(path string, dev blockdev.Device) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := image.Export(dev, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(cfg *config.Config, logger *slog.Logger, args []string) error {
	dev, err := openDevice(cfg.Device)
	if err != nil {
		return fmt.Errorf("openDevice: %w", err)
	}
	defer dev.Close()

	if *importPath != "" {
		if err := importImage(*importPath, dev); err != nil {
			return fmt.Errorf("import %s: %w", *importPath, err)
		}
		logger.Info("imported device image", "path", *importPath)
	}

	fs, err := flatfs.Open(dev, flatfs.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("flatfs.Open: %w", err)
	}

	sh := shell.New(fs, os.Stdin, os.Stdout,
		shell.WithColor(shell.ColorEnabled(cfg.Shell.Color, os.Stdout)),
		shell.WithPrompt(cfg.Shell.Prompt),
		shell.WithLogger(logger))
	var shErr error
	if len(args) > 0 {
		sh.Exec(strings.Join(args, " "))
	} else {
		shErr = sh.Run()
	}

	if err := fs.Close(); err != nil {
		return fmt.Errorf("fs.Close: %w", err)
	}
	if shErr != nil {
		return fmt.Errorf("shell: %w", shErr)
	}

	if *exportPath != "" {
		if err := exportImage(*exportPath, dev); err != nil {
			return fmt.Errorf("export %s: %w", *exportPath, err)
		}
		logger.Info("exported device image", "path", *exportPath)
	}
	return nil
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatfs: %v\n", err)
		os.Exit(2)
	}
	logger, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatfs: %v\n", err)
		os.Exit(2)
	}

	err = run(cfg, logger, flag.Args())
	closer.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatfs: %v\n", err)
		os.Exit(1)
	}
}
