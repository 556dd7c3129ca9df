package binding

import "strings"

// Type is the resolved static type of an expression, spelled as it would
// appear in source. The zero Type means the type could not be resolved.
type Type struct {
	Name string
}

var (
	Unknown = Type{}
	Boolean = Type{Name: "boolean"}
	Int     = Type{Name: "int"}
	Long    = Type{Name: "long"}
	Float   = Type{Name: "float"}
	Double  = Type{Name: "double"}
	Char    = Type{Name: "char"}
	String  = Type{Name: "String"}
	Null    = Type{Name: "null"}
)

var boxes = map[string]string{
	"Boolean":   "boolean",
	"Byte":      "byte",
	"Short":     "short",
	"Character": "char",
	"Integer":   "int",
	"Long":      "long",
	"Float":     "float",
	"Double":    "double",
}

// numericRank orders the numeric primitives for binary promotion.
var numericRank = map[string]int{
	"byte":   1,
	"short":  2,
	"char":   2,
	"int":    3,
	"long":   4,
	"float":  5,
	"double": 6,
}

func (t Type) IsZero() bool {
	return t.Name == ""
}

func (t Type) String() string {
	if t.Name == "" {
		return "<unknown>"
	}
	return t.Name
}

// Unboxed returns the primitive for a wrapper type, or t itself.
func (t Type) Unboxed() Type {
	name := strings.TrimPrefix(t.Name, "java.lang.")
	if p, ok := boxes[name]; ok {
		return Type{Name: p}
	}
	return t
}

func (t Type) IsPrimitive() bool {
	_, ok := numericRank[t.Name]
	return ok || t.Name == "boolean"
}

func (t Type) IsBoolean() bool {
	return t.Unboxed().Name == "boolean"
}

func (t Type) IsString() bool {
	return t.Name == "String" || t.Name == "java.lang.String"
}

func (t Type) IsNumeric() bool {
	_, ok := numericRank[t.Unboxed().Name]
	return ok
}

// IsIntegral reports whether t is one of the integral types or their
// wrappers. Addition and multiplication are associative only for these.
func (t Type) IsIntegral() bool {
	switch t.Unboxed().Name {
	case "byte", "short", "char", "int", "long":
		return true
	}
	return false
}

func (t Type) IsArray() bool {
	return strings.HasSuffix(t.Name, "[]")
}

// Element strips one array dimension.
func (t Type) Element() Type {
	if !t.IsArray() {
		return Unknown
	}
	return Type{Name: strings.TrimSuffix(t.Name, "[]")}
}

// Erasure drops type arguments: List<String> becomes List.
func (t Type) Erasure() Type {
	if i := strings.IndexByte(t.Name, '<'); i >= 0 {
		dims := ""
		if j := strings.LastIndexByte(t.Name, '>'); j > i {
			dims = t.Name[j+1:]
		}
		return Type{Name: t.Name[:i] + dims}
	}
	return t
}

// promote applies binary numeric promotion. Both operands must be numeric.
func promote(a, b Type) Type {
	a, b = a.Unboxed(), b.Unboxed()
	ra, okA := numericRank[a.Name]
	rb, okB := numericRank[b.Name]
	if !okA || !okB {
		return Unknown
	}
	r := max(ra, rb, numericRank["int"])
	switch r {
	case 4:
		return Long
	case 5:
		return Float
	case 6:
		return Double
	}
	return Int
}

// unaryPromote widens byte, short and char to int.
func unaryPromote(t Type) Type {
	u := t.Unboxed()
	if r, ok := numericRank[u.Name]; ok && r < numericRank["int"] {
		return Int
	}
	return u
}
