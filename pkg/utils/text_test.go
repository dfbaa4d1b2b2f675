package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}

func TestTruncate_Multibyte(t *testing.T) {
	s := strings.Repeat("日", 10)
	if Truncate(s, 10) != s {
		t.Error("10 characters with maxLen 10 should be unchanged")
	}
	got := Truncate(s, 4)
	if got != strings.Repeat("日", 4)+"..." {
		t.Errorf("got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated text must stay valid UTF-8")
	}
}
