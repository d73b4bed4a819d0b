package export

import (
	"encoding/json"
	"fmt"
	"io"

	"conformance-hq/surveyor/pkg/assess"
)

// JSONExporter exports assessment reports as JSON.
type JSONExporter struct {
	// Pretty enables indented output.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes reports to w. A single report is written as one JSON
// object, multiple reports as an array.
func (e *JSONExporter) Export(reports []*assess.Report, w io.Writer) error {
	if len(reports) == 0 {
		_, err := w.Write([]byte("[]\n"))
		return err
	}

	var payload any = reports
	if len(reports) == 1 {
		payload = reports[0]
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	_, err = w.Write([]byte("\n"))
	return err
}
