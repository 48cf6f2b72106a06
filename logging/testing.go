package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// NewTestAppender returns an appender that writes to tb.Log, so log lines show up under the
// test that produced them, including parallel subtests.
func NewTestAppender(tb testing.TB) Appender {
	return testAppender{tb}
}

type testAppender struct {
	tb testing.TB
}

func (tapp testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	line := formatEntry(entry)
	var err error
	if len(fields) > 0 {
		var encoded string
		if encoded, err = encodeFields(fields); err == nil {
			line = append(line, encoded)
		}
	}
	tapp.tb.Log(strings.Join(line, "\t"))
	return err
}

func (tapp testAppender) Sync() error {
	return nil
}
