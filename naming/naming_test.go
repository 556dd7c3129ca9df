package naming

import (
	"reflect"
	"testing"
)

func TestDefaultVariableNames(t *testing.T) {
	tests := []struct {
		typeName string
		exclude  []string
		expected []string
	}{
		{"Foo", nil, []string{"foo"}},
		{"StringBuilder", nil, []string{"stringBuilder", "builder"}},
		{"java.util.List<String>", nil, []string{"list"}},
		{"Foo[]", nil, []string{"foos"}},
		{"int", nil, []string{"i"}},
		{"int[]", nil, []string{"i"}},
		{"Foo", []string{"foo"}, []string{"foo1"}},
		{"Foo", []string{"foo", "foo1"}, []string{"foo2"}},
		{"Package", nil, []string{"package1"}},
		{"", nil, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got := Default{}.VariableNames(tt.typeName, tt.exclude)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("VariableNames(%q, %v) = %v, want %v", tt.typeName, tt.exclude, got, tt.expected)
			}
		})
	}
}

func TestIsKeyword(t *testing.T) {
	if !IsKeyword("class") || IsKeyword("klass") {
		t.Error("keyword table is wrong")
	}
}

func TestNegated(t *testing.T) {
	tests := []struct {
		name     string
		exclude  []string
		expected string
	}{
		{"found", nil, "notFound"},
		{"notFound", nil, "found"},
		{"nothing", nil, "notNothing"},
		{"isValid", nil, "notIsValid"},
		{"found", []string{"notFound"}, "notFound1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Negated(tt.name, tt.exclude); got != tt.expected {
				t.Errorf("Negated(%q, %v) = %q, want %q", tt.name, tt.exclude, got, tt.expected)
			}
		})
	}
}
