package logx

import (
	"os"
	"path"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"github.com/shrewx/crudx/pkg/conf"
	"github.com/sirupsen/logrus"
)

const (
	defaultLogLabel = "default"

	Timestamp = "2006-01-02 15:04:05"
)

var (
	logManager = initLogManager()
	modulePath string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		modulePath = info.Main.Path
	}
}

type LogLabel string

type LogManager struct {
	mu   sync.RWMutex
	logs map[LogLabel]*logrus.Logger
}

func initLogManager() *LogManager {
	return &LogManager{logs: make(map[LogLabel]*logrus.Logger)}
}

func (m *LogManager) Load(label LogLabel) *logrus.Logger {
	label = LogLabel(strings.ToLower(string(label)))

	m.mu.RLock()
	defer m.mu.RUnlock()

	if logger, ok := m.logs[label]; ok {
		return logger
	}
	return m.logs[defaultLogLabel]
}

// Set registers logger under label, replacing any previous one.
func (m *LogManager) Set(label LogLabel, logger *logrus.Logger) {
	label = LogLabel(strings.ToLower(string(label)))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[label] = logger
}

// Load builds a logger from c and registers it under c.Label. The last
// loaded logger also becomes the default one used by the package helpers.
func Load(c *conf.Log) {
	if c.Label == "" {
		c.Label = defaultLogLabel
	}
	logger := load(c)
	logManager.Set(LogLabel(c.Label), logger)
	logManager.Set(defaultLogLabel, logger)
}

func load(c *conf.Log) *logrus.Logger {
	logger := logrus.New()

	if c.IsJson {
		logger.SetFormatter(&logrus.JSONFormatter{
			DisableHTMLEscape: c.DisableHTMLEscape,
			TimestampFormat:   Timestamp,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors:    true,
			DisableQuote:     c.DisableQuote,
			FullTimestamp:    true,
			QuoteEmptyFields: false,
			PadLevelText:     false,
			TimestampFormat:  Timestamp,
		})
	}

	if !c.ToStdout && c.LogFileName != "" {
		if _, err := os.Stat(c.LogDirPath); c.LogDirPath != "" && os.IsNotExist(err) {
			if err := os.MkdirAll(c.LogDirPath, 0755); err != nil {
				panic(err)
			}
		}

		// 按大小切割日志文件
		logger.SetOutput(&lumberjack.Logger{
			Filename:   path.Join(c.LogDirPath, c.LogFileName),
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			Compress:   c.Compress,
		})
	} else {
		logger.SetOutput(os.Stderr)
	}

	setLogLevel(logger, c.LogLevel)

	if c.EnableCaller {
		logger.AddHook(NewInfoCallerHook(1, !c.NoStack))
	}

	return logger
}

func Instance() *logrus.Logger {
	logger := logManager.Load(defaultLogLabel)
	if logger == nil {
		logger = load(defaultConfig())
		logManager.Set(defaultLogLabel, logger)
	}
	return logger
}

func Label(label LogLabel) *logrus.Logger {
	logger := logManager.Load(label)
	if logger == nil {
		return Instance()
	}
	return logger
}

func defaultConfig() *conf.Log {
	return &conf.Log{
		ToStdout: true,
		LogLevel: "info",
	}
}
