package filter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Serialize renders records in the requested format.
//
// Formats:
//   - csv: header row with the union of keys in first-seen order, one row per
//     record, "\n" line endings. Missing and null values are empty cells.
//     No records (or no columns at all) yields "".
//   - json: two-space indented array; always an array, "[]" when empty.
//   - compact: the first record as a single-line object; "{}" when empty.
//
// Any other format fails with *UnsupportedFormatError.
func Serialize(records RecordSequence, format Format) (string, error) {
	switch format {
	case FormatCSV:
		return serializeCSV(records)
	case FormatJSON:
		return serializeJSON(records)
	case FormatCompact:
		return serializeCompact(records)
	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

func serializeCSV(records RecordSequence) (string, error) {
	header := headerOf(records)
	if len(header) == 0 {
		return "", nil
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(header))
	for i, rec := range records {
		for col, key := range header {
			row[col] = cellText(rec.values[key])
		}
		// csv.Writer renders a lone empty field as a blank line, which
		// readers drop. Quote it so the row survives.
		if len(row) == 1 && row[0] == "" {
			w.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// headerOf returns every key of every record, in first-seen order.
func headerOf(records RecordSequence) []string {
	var header []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, k := range rec.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			header = append(header, k)
		}
	}
	return header
}

// cellText renders one CSV cell.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case json.RawMessage:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	}

	b, err := marshalJSON(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s
	}
	return string(b)
}

func serializeJSON(records RecordSequence) (string, error) {
	if records == nil {
		records = RecordSequence{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func serializeCompact(records RecordSequence) (string, error) {
	if len(records) == 0 {
		return "{}", nil
	}
	b, err := records[0].MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode compact: %w", err)
	}
	return string(b), nil
}
