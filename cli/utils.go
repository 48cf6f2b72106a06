package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/pcedit/logging"
)

const (
	rootLoggerKey   = "logger"
	registryKey     = "registry"
	fileAppenderKey = "fileAppender"
)

// setupLogging creates the loggers used by every command. Logs go to the error writer so that
// command output stays clean.
func setupLogging(c *cli.Context) error {
	logger := logging.NewBlankLogger("pcedit")
	logger.SetLevel(logging.INFO)
	if c.Bool(debugFlag) {
		logger.SetLevel(logging.DEBUG)
	}
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if fn := c.String(logFileFlag); fn != "" {
		fileAppender := logging.NewFileAppender(fn)
		logger.AddAppender(fileAppender)
		c.App.Metadata[fileAppenderKey] = fileAppender
	}
	c.App.Metadata[rootLoggerKey] = logger
	logging.ReplaceGlobal(logger)
	c.App.Metadata[registryKey] = logging.NewRegistry(logger)
	return nil
}

// commandContext returns the context commands run under, marked for debug logging when --debug
// is set.
func commandContext(c *cli.Context) context.Context {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Bool(debugFlag) {
		ctx = logging.EnableDebugMode(ctx, "")
	}
	return ctx
}

func teardownLogging(c *cli.Context) error {
	var err error
	if logger, ok := c.App.Metadata[rootLoggerKey].(logging.Logger); ok {
		err = multierr.Append(err, logger.Sync())
	}
	if fileAppender, ok := c.App.Metadata[fileAppenderKey].(*logging.FileAppender); ok {
		err = multierr.Append(err, fileAppender.Close())
	}
	return err
}

func loggers(c *cli.Context) (logging.Logger, *logging.Registry) {
	logger, ok := c.App.Metadata[rootLoggerKey].(logging.Logger)
	if !ok {
		logger = logging.Global()
	}
	registry, ok := c.App.Metadata[registryKey].(*logging.Registry)
	if !ok {
		registry = logging.NewRegistry(logger)
	}
	return logger, registry
}

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	if _, err := color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: "); err != nil {
		return
	}
	printf(w, format, a...)
}

// Errorf prints a message prefixed with a bold red "Error: ".
func Errorf(w io.Writer, format string, a ...interface{}) {
	if _, err := color.New(color.Bold, color.FgRed).Fprint(w, "Error: "); err != nil {
		return
	}
	printf(w, format, a...)
}

// floatsFromFlag returns the values given to a float slice flag, which must be exactly n.
func floatsFromFlag(c *cli.Context, flag string, n int) ([]float64, error) {
	values := c.Float64Slice(flag)
	if len(values) != n {
		return nil, errors.Errorf("--%s expects %d comma separated values, got %d", flag, n, len(values))
	}
	return values, nil
}

// dimsFromFlag returns the x, y and z dimension names.
func dimsFromFlag(c *cli.Context) ([3]string, error) {
	var dims [3]string
	names := c.StringSlice(dimsFlag)
	if len(names) != len(dims) {
		return dims, errors.Errorf("--%s expects three comma separated names, got %q", dimsFlag, names)
	}
	copy(dims[:], names)
	return dims, nil
}
