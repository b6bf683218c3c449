package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ConsoleOutput handles status messages and the live recording meter
type ConsoleOutput struct {
	mu            sync.Mutex
	writer        io.Writer
	showTimestamp bool
}

// ConsoleConfig configures console output behavior
type ConsoleConfig struct {
	// ShowTimestamp prefixes each line with a timestamp
	ShowTimestamp bool

	// Writer is the output destination (default: os.Stdout)
	Writer io.Writer
}

// NewConsoleOutput creates a new console output handler
func NewConsoleOutput(config ConsoleConfig) *ConsoleOutput {
	writer := config.Writer
	if writer == nil {
		writer = os.Stdout
	}

	return &ConsoleOutput{
		writer:        writer,
		showTimestamp: config.ShowTimestamp,
	}
}

// DefaultConsoleOutput creates a console output with default settings
func DefaultConsoleOutput() *ConsoleOutput {
	return NewConsoleOutput(ConsoleConfig{
		ShowTimestamp: true,
		Writer:        os.Stdout,
	})
}

// Info writes an informational message
func (c *ConsoleOutput) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.showTimestamp {
		fmt.Fprintf(c.writer, "[%s] %s\n", time.Now().Format("15:04:05"), msg)
	} else {
		fmt.Fprintf(c.writer, "%s\n", msg)
	}
}

// Warn writes an advisory message (clipping, long silence) that does not
// block the current operation
func (c *ConsoleOutput) Warn(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.writer, "[WARN] %s\n", msg)
}

// Error writes an error message to stderr
func (c *ConsoleOutput) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(os.Stderr, "[ERROR] %s\n", msg)
}

// Status writes a status message (typically overwritten)
func (c *ConsoleOutput) Status(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.writer, "\r[*] %s", msg)
}

// Clear clears the current line
func (c *ConsoleOutput) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.writer, "\r%80s\r", " ")
}

// WriteRecordingMeter renders the live state line: elapsed time plus a
// level bar, overwriting the current line.
func (c *ConsoleOutput) WriteRecordingMeter(state string, seconds, level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	barLength := int(level * 50) // 50 chars max
	if barLength > 50 {
		barLength = 50
	}
	bar := strings.Repeat("=", barLength)

	fmt.Fprintf(c.writer, "\r[%s] %6.1fs  [%-50s]", state, seconds, bar)
}
