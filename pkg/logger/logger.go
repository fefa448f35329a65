package logger

import (
	"os"

	"github.com/fystack/storable/pkg/constant"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is silent until Init is called, so library code may log unconditionally.
var Log zerolog.Logger

func Init(env string, debug bool) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if env != constant.EnvProduction {
		Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).With().Timestamp().Logger()
	} else {
		Log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// withFields attaches key/value pairs to ev. It returns false when the pairs are
// unbalanced so callers can decide how loud to be about it.
func withFields(ev *zerolog.Event, keyValues []interface{}) (*zerolog.Event, bool) {
	if len(keyValues)%2 != 0 {
		return ev, false
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			return ev, false
		}
		ev = ev.Interface(key, keyValues[i+1])
	}
	return ev, true
}

// Debug logs a debug message.
func Debug(msg string, keyValues ...interface{}) {
	ev, ok := withFields(Log.Debug(), keyValues)
	if !ok {
		ev = ev.Interface("Unknown Key", keyValues)
	}
	ev.Msg(msg)
}

// Info logs an info message.
func Info(msg string, keyValues ...interface{}) {
	// no one wants to check for errors on logging functions, so bad input is
	// reported as a warning with the raw arguments attached instead
	ev, ok := withFields(Log.Info(), keyValues)
	if !ok {
		Log.Warn().Caller().Interface("Unknown Key", keyValues).Msgf("%s ([Wrong logger.Info usage] Provided args to logger.Info must be a series of key/value pairs)", msg)
		return
	}
	ev.Msg(msg)
}

func Infof(format string, v ...interface{}) {
	Log.Info().Msgf(format, v...)
}

// Warn logs a warning message.
func Warn(msg string, keyValues ...interface{}) {
	ev, ok := withFields(Log.Warn(), keyValues)
	if !ok {
		ev = ev.Interface("Unknown Key", keyValues)
	}
	ev.Msg(msg)
}

// Error logs an error message.
func Error(msg string, err error, keyValues ...interface{}) {
	if len(keyValues)%2 != 0 {
		panic("keyValues must be a list of key/value pairs")
	}

	ev, _ := withFields(Log.Error(), keyValues)
	ev.Caller().Stack().Err(err).Msg(msg)
}

// Fatal logs a fatal message and exits the program.
func Fatal(msg string, err error) {
	Log.Fatal().Err(err).Msg(msg)
}
