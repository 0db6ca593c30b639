package feed

import "testing"

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Hello world", "Hello world"},
		{"tags stripped", "<p>Hello <b>world</b></p>", "Hello world"},
		{"entities decoded", "Fish &amp; Chips", "Fish Chips"},
		{"script dropped", "Before<script>alert(1)</script>After", "BeforeAfter"},
		{"whitespace collapsed", "a \n\t b   c", "a b c"},
		{"non latin stripped", "Hello 世界 world", "Hello world"},
		{"punctuation allowlist", "Wait... what?! (really) [yes]", "Wait... what?! really yes"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeText(tc.input); got != tc.expected {
				t.Errorf("SanitizeText(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 70); got != "short" {
		t.Errorf("Expected 'short', got %q", got)
	}

	long := ""
	for i := 0; i < 100; i++ {
		long += "x"
	}
	if got := Truncate(long, 70); len(got) != 70 {
		t.Errorf("Expected 70 bytes, got %d", len(got))
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":                "hello-world",
		"Breaking: Storm hits coast": "breaking-storm-hits-coast",
		"  trimmed   ":               "trimmed",
		"Already-Slugged":            "already-slugged",
		"100% renewable!":            "100-renewable",
	}

	for input, expected := range cases {
		if got := Slugify(input); got != expected {
			t.Errorf("Slugify(%q) = %q, expected %q", input, got, expected)
		}
	}
}
