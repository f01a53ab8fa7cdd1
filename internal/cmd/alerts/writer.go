package alerts

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/parceltrack/parceltrack/internal/cmd/output"
)

// Writer writes alerts in the configured output format. Table formats get
// one styled line per alert; JSON and YAML get one document per alert.
type Writer struct {
	w        io.Writer
	format   output.Format
	useColor bool
}

// NewWriter creates a writer. Color is used only on terminals.
func NewWriter(w io.Writer, format output.Format, noColor bool) *Writer {
	return &Writer{
		w:        w,
		format:   format,
		useColor: !noColor && output.IsTerminal(w),
	}
}

type alertData struct {
	Level     string   `json:"level" yaml:"level"`
	Message   string   `json:"message" yaml:"message"`
	Details   []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
}

// Write writes one alert.
func (aw *Writer) Write(a *Alert) error {
	switch aw.format {
	case output.FormatJSON:
		return json.NewEncoder(aw.w).Encode(toData(a))
	case output.FormatYAML:
		body, err := yaml.Marshal(toData(a))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(aw.w, "---\n%s", body)
		return err
	default:
		return aw.writeLine(a)
	}
}

func (aw *Writer) writeLine(a *Alert) error {
	line := a.String()
	if aw.useColor {
		line = a.Level.Style().Render(line)
	}
	if _, err := fmt.Fprintln(aw.w, line); err != nil {
		return err
	}
	for _, detail := range a.Details {
		if _, err := fmt.Fprintf(aw.w, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

func toData(a *Alert) alertData {
	data := alertData{
		Level:     a.Level.String(),
		Message:   a.Message,
		Details:   a.Details,
		Timestamp: a.Timestamp.Format(time.RFC3339),
	}
	if a.Err != nil {
		data.Error = a.Err.Error()
	}
	return data
}
