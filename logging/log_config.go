package logging

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// LoggerPatternConfig sets the level of every logger whose name matches Pattern. A pattern is a
// dotted logger name in which any section may be "*", e.g. "las.*" or "*.writer".
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

const (
	loggerSection         = `[a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*`
	loggerPatternSection  = `(` + loggerSection + `|\*)`
	loggerPatternSections = `^` + loggerPatternSection + `(\.` + loggerPatternSection + `)*$`
)

var loggerPatternRegexp = regexp.MustCompile(loggerPatternSections)

// levelMatcher is a validated LoggerPatternConfig.
type levelMatcher struct {
	pattern string
	re      *regexp.Regexp
	level   Level
}

// Validate returns an error if the pattern or level cannot be used.
func (lpc LoggerPatternConfig) Validate() error {
	_, err := lpc.compile()
	return err
}

func (lpc LoggerPatternConfig) compile() (levelMatcher, error) {
	if !validatePattern(lpc.Pattern) {
		return levelMatcher{}, errors.Errorf("invalid logger pattern %q", lpc.Pattern)
	}
	level, err := LevelFromString(lpc.Level)
	if err != nil {
		return levelMatcher{}, err
	}
	re, err := regexp.Compile(patternToRegexp(lpc.Pattern))
	if err != nil {
		return levelMatcher{}, errors.Wrapf(err, "logger pattern %q", lpc.Pattern)
	}
	return levelMatcher{pattern: lpc.Pattern, re: re, level: level}, nil
}

func validatePattern(pattern string) bool {
	return loggerPatternRegexp.MatchString(pattern)
}

// patternToRegexp turns "las.*" into `^las\..*$`.
func patternToRegexp(pattern string) string {
	sections := strings.Split(pattern, ".")
	for i, section := range sections {
		if section == "*" {
			sections[i] = ".*"
			continue
		}
		sections[i] = regexp.QuoteMeta(section)
	}
	return "^" + strings.Join(sections, `\.`) + "$"
}
