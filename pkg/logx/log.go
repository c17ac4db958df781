package logx

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SetLogLevel changes the level of the default logger, or of every given
// label.
func SetLogLevel(logLevel string, labels ...LogLabel) {
	if len(labels) == 0 {
		setLogLevel(Instance(), logLevel)
		return
	}
	for _, label := range labels {
		setLogLevel(Label(label), logLevel)
	}
}

func setLogLevel(logger *logrus.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logger.SetLevel(logrus.FatalLevel)
	case "panic":
		logger.SetLevel(logrus.PanicLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// pick resolves an optional leading LogLabel argument.
func pick(args []interface{}) (*logrus.Logger, []interface{}) {
	if len(args) > 0 {
		if label, ok := args[0].(LogLabel); ok {
			return Label(label), args[1:]
		}
	}
	return Instance(), args
}

func Debug(args ...interface{}) {
	logger, rest := pick(args)
	logger.Debugln(rest...)
}

func Info(args ...interface{}) {
	logger, rest := pick(args)
	logger.Infoln(rest...)
}

// InfoWithoutFile logs without the caller field even when the caller hook
// is enabled.
func InfoWithoutFile(args ...interface{}) {
	logger, rest := pick(args)
	logger.WithField(skipCaller, true).Infoln(rest...)
}

func Warn(args ...interface{}) {
	logger, rest := pick(args)
	logger.Warnln(rest...)
}

func Error(args ...interface{}) {
	logger, rest := pick(args)
	logger.Errorln(rest...)
}

func Fatal(args ...interface{}) {
	logger, rest := pick(args)
	logger.Fatalln(rest...)
}

func Debugf(format string, args ...interface{}) {
	logger, rest := pick(args)
	logger.Debugf(format, rest...)
}

func Infof(format string, args ...interface{}) {
	logger, rest := pick(args)
	logger.Infof(format, rest...)
}

func Warnf(format string, args ...interface{}) {
	logger, rest := pick(args)
	logger.Warnf(format, rest...)
}

func Errorf(format string, args ...interface{}) {
	logger, rest := pick(args)
	logger.Errorf(format, rest...)
}

func Fatalf(format string, args ...interface{}) {
	logger, rest := pick(args)
	logger.Fatalf(format, rest...)
}

func WithFields(fields logrus.Fields, labels ...LogLabel) *logrus.Entry {
	if len(labels) == 0 {
		return Instance().WithFields(fields)
	}
	return Label(labels[0]).WithFields(fields)
}

// WithError attaches err, its pkg/errors stack is printed by the caller hook.
func WithError(err error, labels ...LogLabel) *logrus.Entry {
	if len(labels) == 0 {
		return Instance().WithError(err)
	}
	return Label(labels[0]).WithError(err)
}
