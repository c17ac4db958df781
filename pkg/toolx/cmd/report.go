package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/shrewx/crudx/pkg/emitter"
)

var statusColors = map[emitter.Status]*color.Color{
	emitter.StatusWritten:  color.New(color.FgGreen),
	emitter.StatusSkipped:  color.New(color.FgYellow),
	emitter.StatusFailed:   color.New(color.FgRed, color.Bold),
	emitter.StatusCanceled: color.New(color.FgMagenta),
}

// PrintReport writes one line per result and a summary.
func PrintReport(w io.Writer, report *emitter.Report) {
	for _, r := range report.Results {
		c, ok := statusColors[r.Status]
		if !ok {
			c = color.New(color.Reset)
		}
		status := c.Sprintf("%-8s", r.Status)
		if r.Err != nil {
			fmt.Fprintf(w, "%s %s\n         %v\n", status, r.Path, r.Err)
		} else {
			fmt.Fprintf(w, "%s %s\n", status, r.Path)
		}
	}
	fmt.Fprintf(w, "\n%d written, %d skipped, %d failed, %d canceled\n",
		report.Count(emitter.StatusWritten),
		report.Count(emitter.StatusSkipped),
		report.Count(emitter.StatusFailed),
		report.Count(emitter.StatusCanceled))
}

// PrintTree 递归打印目录树结构
func PrintTree(w io.Writer, rootPath, prefix string) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return
	}

	// 过滤掉隐藏文件和目录
	var filtered []os.DirEntry
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			filtered = append(filtered, entry)
		}
	}

	// 目录在前，文件在后，然后按名称排序
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].IsDir() != filtered[j].IsDir() {
			return filtered[i].IsDir()
		}
		return filtered[i].Name() < filtered[j].Name()
	})

	for i, entry := range filtered {
		last := i == len(filtered)-1
		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}

		if entry.IsDir() {
			fmt.Fprintf(w, "%s%s%s/\n", prefix, connector, entry.Name())
			PrintTree(w, filepath.Join(rootPath, entry.Name()), childPrefix)
		} else {
			fmt.Fprintf(w, "%s%s%s\n", prefix, connector, entry.Name())
		}
	}
}
