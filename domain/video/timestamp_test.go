package video

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Timestamp
		wantErr bool
		errMsg  string
	}{
		{name: "valid timestamp", input: "01:30:45", want: Timestamp{Hours: 1, Minutes: 30, Seconds: 45}},
		{name: "all zeros", input: "00:00:00", want: Timestamp{}},
		{name: "large hours value", input: "99:00:00", want: Timestamp{Hours: 99}},
		{name: "missing leading zero", input: "1:30:45", wantErr: true, errMsg: "invalid timestamp format"},
		{name: "wrong separator", input: "01-30-45", wantErr: true, errMsg: "invalid timestamp format"},
		{name: "empty string", input: "", wantErr: true, errMsg: "invalid timestamp format"},
		{name: "minutes too high", input: "01:60:00", wantErr: true, errMsg: "minutes must be 0-59"},
		{name: "seconds too high", input: "01:30:60", wantErr: true, errMsg: "seconds must be 0-59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error, got nil", tt.input)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseTimestamp(%q) error = %v, want error containing %q", tt.input, err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestamp_StringAndDuration(t *testing.T) {
	ts := Timestamp{Hours: 1, Minutes: 2, Seconds: 3}
	if ts.String() != "01:02:03" {
		t.Errorf("String() = %q", ts.String())
	}
	if want := time.Hour + 2*time.Minute + 3*time.Second; ts.Duration() != want {
		t.Errorf("Duration() = %v, want %v", ts.Duration(), want)
	}
}

func TestTimestamp_After(t *testing.T) {
	earlier := Timestamp{Minutes: 30}
	later := Timestamp{Hours: 1}

	if !later.After(earlier) {
		t.Error("expected later to be after earlier")
	}
	if earlier.After(later) {
		t.Error("expected earlier to not be after later")
	}
	if later.After(later) {
		t.Error("expected timestamp to not be after itself")
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
