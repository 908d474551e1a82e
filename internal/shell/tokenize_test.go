package shell

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   \t  ", nil},
		{"plain split", "list -g Solar", []string{"list", "-g", "Solar"}},
		{"collapsed whitespace", "  add   -n\tBattery  ", []string{"add", "-n", "Battery"}},
		{"double quotes", `add -g "Solar System" -n Battery`, []string{"add", "-g", "Solar System", "-n", "Battery"}},
		{"single quotes", "theme -s 'high contrast'", []string{"theme", "-s", "high contrast"}},
		{"opposing quote is literal", `set -v "it's fine"`, []string{"set", "-v", "it's fine"}},
		{"unterminated quote", `a "b`, []string{"a", "b"}},
		{"unterminated quote spans whitespace", `a "b c`, []string{"a", "b c"}},
		{"quote inside token", `foo"bar baz"qux`, []string{"foobar bazqux"}},
		{"empty quoted token", `add -d ""`, []string{"add", "-d", ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.line)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Tokenize(%q) mismatch (-want +got):\n%s", tc.line, diff)
			}
		})
	}
}

func TestTokenizeIsPure(t *testing.T) {
	const line = `add -g "Solar System" -n Battery`
	first := Tokenize(line)
	second := Tokenize(line)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated runs differ:\n%s", diff)
	}
}
