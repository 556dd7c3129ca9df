// Package naming suggests names for variables introduced by assists.
package naming

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Suggester proposes variable names for a value of a given type. The first
// suggestion is the preferred one. Names in exclude are never returned.
type Suggester interface {
	VariableNames(typeName string, exclude []string) []string
}

// Default derives names from the words of the type name: a
// `StringBuilder` suggests `stringBuilder` and `builder`.
type Default struct{}

var _ Suggester = Default{}

var primitiveNames = map[string]string{
	"boolean": "b",
	"byte":    "b",
	"char":    "c",
	"short":   "s",
	"int":     "i",
	"long":    "l",
	"float":   "f",
	"double":  "d",
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "var": true, "record": true, "yield": true,
}

// IsKeyword reports whether name is reserved in Java source.
func IsKeyword(name string) bool {
	return keywords[name]
}

func (Default) VariableNames(typeName string, exclude []string) []string {
	base, plural := baseName(typeName)
	taken := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		taken[e] = true
	}

	var candidates []string
	if short, ok := primitiveNames[base]; ok {
		candidates = append(candidates, short)
	} else if base != "" {
		words := strings.Split(strcase.ToSnake(base), "_")
		for i := range words {
			name := strcase.ToLowerCamel(strings.Join(words[i:], "_"))
			if plural {
				name += "s"
			}
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		candidates = []string{"name"}
	}

	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		name := unique(c, taken)
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// baseName strips packages, type arguments and array dimensions from a type
// spelling. plural is set for array types.
func baseName(typeName string) (string, bool) {
	name := strings.TrimSpace(typeName)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	plural := false
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSpace(strings.TrimSuffix(name, "[]"))
		plural = true
	}
	if strings.HasSuffix(name, "...") {
		name = strings.TrimSuffix(name, "...")
		plural = true
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if _, ok := primitiveNames[name]; ok {
		return name, false
	}
	return name, plural
}

// unique appends the smallest positive number that makes name free.
func unique(name string, taken map[string]bool) string {
	if !taken[name] && !keywords[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// Negated names the negation of a boolean variable: `found` becomes
// `notFound` and `notFound` becomes `found`. Names in exclude are avoided.
func Negated(name string, exclude []string) string {
	var negated string
	if rest := strings.TrimPrefix(name, "not"); rest != name && rest != "" && rest[0] >= 'A' && rest[0] <= 'Z' {
		negated = strcase.ToLowerCamel(rest)
	} else {
		negated = "not" + strcase.ToCamel(name)
	}
	taken := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		taken[e] = true
	}
	return unique(negated, taken)
}
