package slug

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "MyBlog", "myblog"},
		{"trims whitespace", "  myblog  ", "myblog"},
		{"spaces become hyphens", "my cool site", "my-cool-site"},
		{"underscores become hyphens", "my_site", "my-site"},
		{"hyphen runs collapse", "my  -  site", "my-site"},
		{"edge hyphens trimmed", "-myblog-", "myblog"},
		{"diacritics stripped", "café-société", "cafe-societe"},
		{"punctuation survives for validation", "My Cool Site!", "my-cool-site!"},
		{"empty stays empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"simple slug", "myblog", true},
		{"digits and hyphens", "blog-42", true},
		{"empty", "", false},
		{"uppercase", "MyBlog", false},
		{"punctuation", "my-cool-site!", false},
		{"unicode", "café", false},
		{"too long", strings.Repeat("a", MaxLength+1), false},
		{"at limit", strings.Repeat("a", MaxLength), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValid(tc.in); got != tc.want {
				t.Fatalf("IsValid(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
