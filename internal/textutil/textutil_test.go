package textutil_test

import (
	"testing"

	"retake/internal/textutil"
)

func TestNormalizeCueText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"太棒了！！！", "太棒了！"},
		{"嗯。。。好的", "嗯。好的"},
		{"what???", "what?"},
		{"a,,b", "a,b"},
		{"no change。", "no change。"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.NormalizeCueText(tc.in); got != tc.want {
			t.Errorf("NormalizeCueText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTrimEdgePunct(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"，大家好。", "大家好"},
		{"...wait...", "wait"},
		{"中间，不动", "中间，不动"},
		{"。。。", ""},
	}
	for _, tc := range cases {
		if got := textutil.TrimEdgePunct(tc.in); got != tc.want {
			t.Errorf("TrimEdgePunct(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsPunctuationOnly(t *testing.T) {
	if !textutil.IsPunctuationOnly("。。。！？") {
		t.Error("pure punctuation should report true")
	}
	if !textutil.IsPunctuationOnly("  ") {
		t.Error("whitespace should report true")
	}
	if textutil.IsPunctuationOnly("好。") {
		t.Error("text with letters should report false")
	}
	if textutil.IsPunctuationOnly("42") {
		t.Error("digits should report false")
	}
}

func TestRuneCount(t *testing.T) {
	if got := textutil.RuneCount("大家 好"); got != 3 {
		t.Errorf("RuneCount = %d, want 3", got)
	}
	if got := textutil.RuneCount(""); got != 0 {
		t.Errorf("RuneCount empty = %d", got)
	}
}
