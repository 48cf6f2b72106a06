package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	type testCfg struct {
		pattern string
		isValid bool
	}

	tests := []testCfg{
		// Valid patterns
		{"job.las_reader", true},
		{"job.las_reader.*", true},
		{"job.*.writer", true},
		{"job.*.*", true},
		{"*.writer", true},
		{"*", true},

		// Invalid patterns
		{"job..writer", false},
		{"job.writer.", false},
		{".job.writer", false},
		{"job.writer.**", false},
		{"job.**.writer", false},

		// Invalid patterns with special characters
		{"_.job.writer", false},
		{"-.job", false},
		{"job.-", false},
		{"job._.writer", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			test.That(t, validatePattern(tc.pattern), test.ShouldEqual, tc.isValid)
		})
	}
}

func TestPatternToRegexp(t *testing.T) {
	test.That(t, patternToRegexp("las.*"), test.ShouldEqual, `^las\..*$`)
	test.That(t, patternToRegexp("*.las_reader"), test.ShouldEqual, `^.*\.las_reader$`)

	m, err := LoggerPatternConfig{Pattern: "*.writer", Level: "warn"}.compile()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.level, test.ShouldEqual, WARN)
	test.That(t, m.re.MatchString("las.writer"), test.ShouldBeTrue)
	test.That(t, m.re.MatchString("las.writers"), test.ShouldBeFalse)
	test.That(t, m.re.MatchString("laswriter"), test.ShouldBeFalse)
}

func TestPatternConfigValidate(t *testing.T) {
	test.That(t, LoggerPatternConfig{Pattern: "las.*", Level: "debug"}.Validate(), test.ShouldBeNil)
	test.That(t, LoggerPatternConfig{Pattern: "las..*", Level: "debug"}.Validate(), test.ShouldNotBeNil)
	test.That(t, LoggerPatternConfig{Pattern: "las", Level: "chatty"}.Validate(), test.ShouldNotBeNil)
}

func TestRegistryLevels(t *testing.T) {
	root := NewBlankLogger("pcedit")
	root.SetLevel(INFO)
	registry := NewRegistry(root)

	reader := registry.Logger("las.reader")
	writer := registry.Logger("las.writer")
	job := registry.Logger("job")
	test.That(t, registry.Logger("job"), test.ShouldEqual, job)
	test.That(t, registry.Names(), test.ShouldResemble, []string{"job", "las.reader", "las.writer"})
	test.That(t, reader.GetLevel(), test.ShouldEqual, INFO)

	err := registry.UpdateConfig([]LoggerPatternConfig{
		{Pattern: "las.*", Level: "debug"},
		{Pattern: "las.writer", Level: "error"},
		{Pattern: "..bad", Level: "debug"},
	}, root)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reader.GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, writer.GetLevel(), test.ShouldEqual, ERROR)
	test.That(t, job.GetLevel(), test.ShouldEqual, INFO)

	// loggers created later pick up the config
	test.That(t, registry.Logger("las.stats").GetLevel(), test.ShouldEqual, DEBUG)

	test.That(t, registry.SetLevel("job", WARN), test.ShouldBeNil)
	test.That(t, job.GetLevel(), test.ShouldEqual, WARN)
	test.That(t, registry.SetLevel("missing", WARN), test.ShouldNotBeNil)

	test.That(t, registry.UpdateConfig(nil, root), test.ShouldBeNil)
	test.That(t, reader.GetLevel(), test.ShouldEqual, INFO)
	test.That(t, writer.GetLevel(), test.ShouldEqual, INFO)
}
