package kvstore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/fystack/storable/pkg/logger"
)

// quietBadgerLogger forwards badger's errors and warnings to the app logger and
// drops everything below that.
type quietBadgerLogger struct{}

func newQuietBadgerLogger() badger.Logger {
	return &quietBadgerLogger{}
}

func (ql *quietBadgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error("[BADGER] ERROR", nil, "message", fmt.Sprintf(format, args...))
}

func (ql *quietBadgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn("[BADGER] WARN", "message", fmt.Sprintf(format, args...))
}

func (ql *quietBadgerLogger) Infof(format string, args ...interface{}) {}

func (ql *quietBadgerLogger) Debugf(format string, args ...interface{}) {}
