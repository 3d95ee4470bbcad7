package logger

import (
	"fmt"
	"sort"
	"strings"
)

const (
	indentWidth      = 3
	stageIndentWidth = indentWidth * 3
	typeColumnWidth  = 11
)

// StageLogger prints the progress of staged fetches.
type StageLogger struct {
	log *BaseLogger
}

func NewStageLogger(log *BaseLogger) *StageLogger {
	return &StageLogger{log: log}
}

func (s *StageLogger) StageStart(message string, stage int) {
	s.log.Log("Stage %d :: %s", stage, message)
}

func (s *StageLogger) StageMessage(message string) {
	s.log.Log("%s:: %s", strings.Repeat(" ", stageIndentWidth-1), message)
}

// StageItemCount prints the total and one line per type, largest count first.
func (s *StageLogger) StageItemCount(counts map[string]int) {
	total := 0
	for _, n := range counts {
		total += n
	}
	s.StageMessage(" ")
	s.StageMessage(fmt.Sprintf("%d Items Processed In This Stage:", total))

	for _, line := range CountLines(counts) {
		s.log.Log("%s%s", strings.Repeat(" ", stageIndentWidth-1), line)
	}
}

// CountLines renders counts sorted by value descending, ties by name.
func CountLines(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("::   + %s : %d", PadRight(name, typeColumnWidth), counts[name]))
	}
	return lines
}

// PadRight pads s with spaces up to width. Longer strings are returned as is.
func PadRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
