package compare

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// JSONFormatter renders a comparison set as a JSON document
type JSONFormatter struct {
	Pretty bool
}

// Format encodes compSet; the per-quote calculation detail is omitted
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	if compSet == nil {
		return "", fmt.Errorf("no comparison to format")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", fmt.Errorf("failed to encode comparison: %w", err)
	}
	return buf.String(), nil
}
