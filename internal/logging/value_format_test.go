package logging

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		value slog.Value
		want  string
	}{
		{slog.StringValue("plain"), "plain"},
		{slog.StringValue("has space"), `"has space"`},
		{slog.StringValue(""), `""`},
		{slog.IntValue(42), "42"},
		{slog.BoolValue(true), "true"},
		{slog.DurationValue(1500 * time.Millisecond), "1.5s"},
		{slog.AnyValue(errors.New("permission denied")), `"permission denied"`},
		{slog.AnyValue([]string{"documents", "pdf"}), "documents/pdf"},
	}
	for _, tc := range cases {
		if got := formatValue(tc.value); got != tc.want {
			t.Errorf("formatValue(%v) = %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestAttrStringDoesNotQuote(t *testing.T) {
	if got := attrString(slog.StringValue("two words")); got != "two words" {
		t.Fatalf("attrString = %q", got)
	}
}
