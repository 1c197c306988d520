package search

import (
	"reflect"
	"testing"
)

func TestSplitParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "name=Jan", []string{"name=Jan"}},
		{"two", "name=Jan&_count=5", []string{"name=Jan", "_count=5"}},
		{"empty tokens dropped", "&&name=Jan&&", []string{"name=Jan"}},
		{"amp inside parens", "filter=(a&b)&name=x", []string{"filter=(a&b)", "name=x"}},
		{"amp inside brackets", "code=[a&b]&x=1", []string{"code=[a&b]", "x=1"}},
		{"nested groups", "f=([a&b]&c)&g=2", []string{"f=([a&b]&c)", "g=2"}},
		{"stray closer is plain text", "a=b)&c=d", []string{"a=b)", "c=d"}},
		{"unbalanced open swallows rest", "a=(b&c=d", []string{"a=(b&c=d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitParams(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitParams(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitParamsDepthNeverNegative(t *testing.T) {
	// A closing bracket at depth zero must not make a later & grouped.
	got := splitParams("a=b]&c=d&e=f")
	want := []string{"a=b]", "c=d", "e=f"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitParams = %v, want %v", got, want)
	}
}
