package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		l := New("test", verbose)
		assert.NotNil(t, l)
		l.Debugf("debug %d", 1)
		l.Debugw("debug", map[string]any{"k": 1})
		l.Infof("info %s", "test")
		l.Warnf("warn")
		l.Errorf("error")
	}
}

func TestNopLoggerSatisfiesInterface(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("noop")
	l.Infof("noop")
}
