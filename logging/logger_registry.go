package logging

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry hands out named subloggers of a root logger and keeps their levels in line with a
// list of pattern configs. Loggers without a matching pattern use the root logger's level.
type Registry struct {
	root Logger

	mu       sync.RWMutex
	loggers  map[string]Logger
	matchers []levelMatcher
}

// NewRegistry returns a registry whose loggers are subloggers of root.
func NewRegistry(root Logger) *Registry {
	return &Registry{
		root:    root,
		loggers: make(map[string]Logger),
	}
}

// Logger returns the sublogger with the given name, creating it on first use. If concurrent
// callers ask for the same name they all get the same logger.
func (lr *Registry) Logger(name string) Logger {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if existing, ok := lr.loggers[name]; ok {
		return existing
	}

	logger := lr.root.Sublogger(name)
	lr.loggers[name] = logger
	if level, ok := levelFor(lr.matchers, name); ok {
		logger.SetLevel(level)
	}
	return logger
}

// Names returns the names of every registered logger, sorted.
func (lr *Registry) Names() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	names := make([]string, 0, len(lr.loggers))
	for name := range lr.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateConfig replaces the pattern configs and re-levels every registered logger. Invalid
// patterns are reported to errorLogger and skipped. When several patterns match a logger the
// last one wins.
func (lr *Registry) UpdateConfig(logConfig []LoggerPatternConfig, errorLogger Logger) error {
	matchers := make([]levelMatcher, 0, len(logConfig))
	for _, lpc := range logConfig {
		m, err := lpc.compile()
		if err != nil {
			errorLogger.Warnw("failed to validate a logger pattern", "pattern", lpc.Pattern, "error", err)
			continue
		}
		matchers = append(matchers, m)
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.matchers = matchers
	for name, logger := range lr.loggers {
		level, ok := levelFor(matchers, name)
		if !ok {
			level = lr.root.GetLevel()
		}
		logger.SetLevel(level)
	}
	return nil
}

func levelFor(matchers []levelMatcher, name string) (level Level, found bool) {
	for _, m := range matchers {
		if m.re.MatchString(name) {
			level, found = m.level, true
		}
	}
	return level, found
}

// SetLevel sets the level of a single registered logger.
func (lr *Registry) SetLevel(name string, level Level) error {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	if !ok {
		return errors.Errorf("logger named %s not recognized", name)
	}
	logger.SetLevel(level)
	return nil
}
