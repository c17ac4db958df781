package logx

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	fileField  = "file"
	stackField = "error_stack"
	skipCaller = "skip_caller"
)

// 跳过的框架调用帧
var skippedFrames = []string{
	"sirupsen/logrus",
	"/runtime/",
	"/pkg/logx/",
	"spf13/cobra",
	"gin-gonic/gin",
	"golang.org/x/sync",
}

// InfoCallerHook adds the caller position, or the stack of an attached
// pkg/errors error, to every entry.
type InfoCallerHook struct {
	maxCallerDepth int
	withStack      bool
}

func NewInfoCallerHook(maxDepth int, withStack bool) *InfoCallerHook {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	return &InfoCallerHook{maxCallerDepth: maxDepth, withStack: withStack}
}

func (h *InfoCallerHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}
}

func (h *InfoCallerHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data[skipCaller]; ok {
		delete(entry.Data, skipCaller)
		return nil
	}

	if err, ok := entry.Data[logrus.ErrorKey].(error); ok && h.withStack {
		if stack := errorStack(err); stack != "" {
			entry.Data[stackField] = stack
			return nil
		}
	}
	if call := h.caller(); call != "" {
		entry.Data[fileField] = call
	}
	return nil
}

func (h *InfoCallerHook) caller() string {
	pcs := make([]uintptr, h.maxCallerDepth+20)
	n := runtime.Callers(0, pcs)
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var stack []string
	for {
		frame, more := frames.Next()
		if !skipped(frame.File) {
			stack = append(stack, fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line))
			if len(stack) >= h.maxCallerDepth {
				break
			}
		}
		if !more {
			break
		}
	}
	return strings.Join(stack, " <- ")
}

func skipped(file string) bool {
	for _, s := range skippedFrames {
		if strings.Contains(file, s) {
			return true
		}
	}
	// 只记录业务代码
	return modulePath != "" && !strings.Contains(file, modulePath) && !strings.HasSuffix(file, "_test.go")
}

func errorStack(err error) string {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	var tracer stackTracer
	if !errors.As(err, &tracer) {
		return ""
	}
	lines := strings.Split(fmt.Sprintf("%+v", tracer.StackTrace()), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return strings.Join(out, " ")
}
