package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"humspine/internal/config"
	"humspine/internal/fileutil"
	"humspine/internal/humdrum"
	"humspine/internal/logging"
)

type globalFlags struct {
	config   string
	verbose  bool
	noRhythm bool
	encoding string
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logCfg := *cfg
		if c.flags.verbose {
			logCfg.Logging.Level = "debug"
		}
		logger, err := logging.NewFromConfig(&logCfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logging: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	logger, err := c.ensureLogger()
	if err != nil || logger == nil {
		return logging.NewNop()
	}
	return logger
}

// analysisOptions merges the [analysis] section with command-line overrides.
func (c *commandContext) analysisOptions(logger *slog.Logger) ([]humdrum.Option, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	analysis := cfg.Analysis
	if c.flags.noRhythm {
		analysis.Rhythm = false
	}
	if enc := strings.TrimSpace(c.flags.encoding); enc != "" {
		if err := humdrum.ValidateEncodingName(enc); err != nil {
			return nil, err
		}
		analysis.FallbackEncoding = enc
	}
	return []humdrum.Option{
		humdrum.WithLogger(logger),
		humdrum.WithRhythm(analysis.Rhythm),
		humdrum.WithRecipScale(analysis.RecipScale),
		humdrum.WithFallbackEncoding(analysis.FallbackEncoding),
	}, nil
}

// loadedFile is an analyzed document plus the hash of the bytes it came from.
type loadedFile struct {
	path string
	hash string
	doc  *humdrum.Document
}

func (c *commandContext) loadFile(ctx context.Context, path string) (*loadedFile, error) {
	logger := logging.WithContext(ctx, c.loggerValue())

	data, hash, err := fileutil.ReadHashed(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	opts, err := c.analysisOptions(logger)
	if err != nil {
		return nil, err
	}
	opts = append(opts, humdrum.WithSource(path))
	doc, err := humdrum.ReadBytes(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("file analyzed",
		logging.String(logging.FieldPath, path),
		logging.String("content_hash", hash),
		logging.Int("content_bytes", len(data)),
		logging.Bool("valid", doc.IsValid()),
		logging.String(logging.FieldRunID, doc.RunID()),
	)
	return &loadedFile{path: path, hash: hash, doc: doc}, nil
}

// loadValidFile is loadFile for commands that need a fully analyzed document.
func (c *commandContext) loadValidFile(ctx context.Context, path string) (*loadedFile, error) {
	f, err := c.loadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if !f.doc.IsValid() {
		return nil, fmt.Errorf("%s: %w: %s", path, humdrum.ErrInvalidDocument, f.doc.ParseError())
	}
	return f, nil
}

// commandCtx tags the command's context with its name for log records.
func commandCtx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.ContextWithCommand(ctx, cmd.CommandPath())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
