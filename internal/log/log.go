package log

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields = logrus.Fields

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.Formatter = &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		TimestampFormat:        "2006/01/02 15:04:05",
		FullTimestamp:          true,
	}
}

// SetLevel accepts logrus level names ("debug", "info", ...). Unknown names keep the current level.
func SetLevel(name string) {
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(name)); err == nil {
		Logger.SetLevel(lvl)
	}
}

// SetOutput redirects all log output, e.g. to io.Discard in tests.
func SetOutput(w io.Writer) { Logger.SetOutput(w) }

func WithFields(f Fields) *logrus.Entry { return Logger.WithFields(f) }

func Debugf(fmt string, args ...any) {
	Logger.Debugf(fmt, args...)
}

func Infof(fmt string, args ...any) {
	Logger.Infof(fmt, args...)
}
func Info(args ...any) {
	Logger.Infoln(args...)
}

func Warnf(fmt string, args ...any) {
	Logger.Warnf(fmt, args...)
}

func Errorf(fmt string, args ...any) {
	Logger.Errorf(fmt, args...)
}

func Fatalf(fmt string, args ...any) {
	Logger.Fatalf(fmt, args...)
}
