// Package mdfind implements mdquery.Engine on top of the mdfind and mdls
// command line tools that front the Spotlight metadata index.
package mdfind

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/mdq/internal/config"
	"github.com/Cyclone1070/mdq/internal/mdquery"
)

// Engine creates mdfind-backed queries.
type Engine struct {
	executor commandExecutor
	fs       fileStater
	config   *config.Config
	homeDir  string
	logger   *slog.Logger
}

// NewEngine creates a new Engine with injected dependencies.
// homeDir backs the home scope; an empty value makes that scope fail.
func NewEngine(
	executor commandExecutor,
	fs fileStater,
	cfg *config.Config,
	homeDir string,
	logger *slog.Logger,
) *Engine {
	if executor == nil {
		panic("executor is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		executor: executor,
		fs:       fs,
		config:   cfg,
		homeDir:  homeDir,
		logger:   logger.With("comp", "mdfind"),
	}
}

// NewQuery compiles expression and scopes into a query handle. Nothing runs
// until Start or Watch is called.
func (e *Engine) NewQuery(expression string, scopes []string, maxResultCount int) (mdquery.Query, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}
	if maxResultCount < 0 {
		return nil, ErrNegativeLimit
	}

	onlyIn, err := e.onlyInArgs(scopes)
	if err != nil {
		return nil, err
	}

	limit := e.config.Engine.MaxResults
	if maxResultCount != mdquery.ResultCountNoLimit && maxResultCount < limit {
		limit = maxResultCount
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Query{
		engine: e,
		args:   append(onlyIn, expression),
		limit:  limit,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}
