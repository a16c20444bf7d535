package util

import (
	"reflect"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"İŞ KANUNU", "iş kanunu"},
		{"İş Kanunu", "iş kanunu"},
		{"iş   kanunu", "iş kanunu"},
		{"İş Kanunu (4857)", "iş kanunu 4857"},
		{"TÜRK CEZA KANUNU", "türk ceza kanunu"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTitle_DotlessI(t *testing.T) {
	// Turkish I lowercases to dotless ı, never to i.
	if got := NormalizeTitle("KANUNI"); got != "kanunı" {
		t.Errorf("Expected kanunı, got %q", got)
	}
}

func TestSplitWords(t *testing.T) {
	got := SplitWords("  İş  Kanunu ")
	want := []string{"iş", "kanunu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitWords = %v, want %v", got, want)
	}
}
