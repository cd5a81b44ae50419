package path9p

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{``, nil},
		{`\`, nil},
		{`\\`, nil},
		{`a`, []string{"a"}},
		{`\a\b`, []string{"a", "b"}},
		{`a\b\`, []string{"a", "b"}},
		{`\\a\\b\\`, []string{"a", "b"}},
	}
	for _, tc := range cases {
		got := Split(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Split(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}
