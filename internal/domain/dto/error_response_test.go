package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		name      string
		cause     error
		wantError string
		wantJSON  map[string]bool
	}{
		{name: "message only", wantError: "invalid date range", wantJSON: map[string]bool{"message": true, "timestamp": true, "error": false}},
		{name: "with cause", cause: errors.New("start after end"), wantError: "invalid date range: start after end", wantJSON: map[string]bool{"message": true, "timestamp": true, "error": true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewErrorResponse("invalid date range", tc.cause)
			if resp.Error() != tc.wantError {
				t.Fatalf("Error()=%q want %q", resp.Error(), tc.wantError)
			}
			if resp.Timestamp.Location() != time.UTC || time.Since(resp.Timestamp) > time.Second {
				t.Fatalf("timestamp should be a fresh UTC time, got %v", resp.Timestamp)
			}

			raw, err := json.Marshal(resp)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var body map[string]any
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			for key, present := range tc.wantJSON {
				if _, ok := body[key]; ok != present {
					t.Fatalf("key %q present=%v, want %v in %s", key, ok, present, raw)
				}
			}
		})
	}
}

func TestErrorResponse_TravelsAsError(t *testing.T) {
	var err error = NewErrorResponse("no data found", nil)
	var got ErrorResponse
	if !errors.As(err, &got) || got.Message != "no data found" {
		t.Fatalf("errors.As should recover the response, got %+v", got)
	}
}
