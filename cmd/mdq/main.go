// Package main provides the mdq command line interface. It builds Spotlight
// queries from flags or saved search documents, runs them once or watches
// them live.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Cyclone1070/mdq/internal/config"
	"github.com/Cyclone1070/mdq/internal/engine/mdfind"
	"github.com/Cyclone1070/mdq/internal/logger"
	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/service/executor"
	"github.com/Cyclone1070/mdq/internal/service/ignore"
	"github.com/Cyclone1070/mdq/internal/ui"
	"github.com/Cyclone1070/mdq/internal/ui/services"
	"github.com/charmbracelet/bubbles/spinner"
)

// ignoreFileName lives next to config.json.
const ignoreFileName = "ignore"

// ignoreFS is the filesystem used to load the ignore file.
type ignoreFS interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// Dependencies holds the components required to run the commands. Nil
// fields are filled in by complete.
type Dependencies struct {
	Config     *config.Config
	Logger     *slog.Logger
	Engine     mdquery.Engine
	IgnoreFile string
	IgnoreFS   ignoreFS
	Renderer   services.MarkdownRenderer
	NewView    func(cfg *config.Config, expression string) watchView
	Stdout     io.Writer
	Stderr     io.Writer
}

func (d *Dependencies) complete(configPath string, verbose bool) error {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}

	if d.Config == nil {
		cfg, err := loadConfig(configPath)
		if err != nil {
			if configPath != "" {
				return err
			}
			fmt.Fprintf(d.Stderr, "Warning: failed to load config: %v\n", err)
			fmt.Fprintf(d.Stderr, "Using default configuration.\n")
			cfg = config.DefaultConfig()
		}
		d.Config = cfg
	}
	if verbose {
		d.Config.Log.Level = "debug"
	}
	if d.Logger == nil {
		d.Logger = logger.Init(d.Config.Log, d.Stderr)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		d.Logger.Warn("home directory unknown", "err", err)
		homeDir = ""
	}

	if d.Engine == nil {
		d.Engine = mdfind.NewEngine(
			executor.NewOSCommandExecutor(d.Config),
			mdfind.OSFileStater{},
			d.Config,
			homeDir,
			d.Logger,
		)
	}
	if d.IgnoreFS == nil {
		d.IgnoreFS = ignore.OSFileSystem{}
		if homeDir != "" {
			d.IgnoreFile = filepath.Join(homeDir, ".config", config.ConfigDir, ignoreFileName)
		}
	}
	if d.Renderer == nil {
		d.Renderer = services.NewGlamourRenderer("")
	}
	if d.NewView == nil {
		d.NewView = newTerminalView
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.NewLoader().LoadFile(path)
	}
	return config.Load()
}

func newTerminalView(cfg *config.Config, expression string) watchView {
	spinnerFactory := func() spinner.Model {
		return spinner.New(spinner.WithSpinner(spinner.Dot))
	}
	return ui.NewWatchUI(ui.NewChannels(), cfg, expression, spinnerFactory)
}

// invalidInput is implemented by errors caused by bad user input.
type invalidInput interface {
	InvalidInput() bool
}

func exitCode(err error) int {
	var ii invalidInput
	if errors.As(err, &ii) && ii.InvalidInput() {
		return 2
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&Dependencies{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
