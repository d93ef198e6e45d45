package tune

import "fmt"

// FieldDescriptor describes one tunable field: its name and the inferred
// value kind, with capability values rendered as compact signatures.
type FieldDescriptor struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// SchemaDocument lists the fields a static storage record exposes for
// tuning.
type SchemaDocument struct {
	Fields []FieldDescriptor `json:"fields"`
}

// DescribeStatic derives a schema document from a static record's declared
// fields, in sorted field order.
func DescribeStatic(s *Static) SchemaDocument {
	doc := SchemaDocument{Fields: []FieldDescriptor{}}
	if s == nil {
		return doc
	}
	for _, name := range s.Fields() {
		value, _ := s.Get(name)
		doc.Fields = append(doc.Fields, FieldDescriptor{
			Path: name,
			Kind: valueKind(value),
		})
	}
	return doc
}

func valueKind(value any) string {
	switch typed := value.(type) {
	case nil:
		return "nil"
	case *Bounded:
		lo, hi := typed.Bounds()
		if typed.v == nil {
			return fmt.Sprintf("bounded(%g,%g)", lo, hi)
		}
		return fmt.Sprintf("bounded(%g,%g,%s)", lo, hi, valueKind(typed.v))
	case *Walk:
		return fmt.Sprintf("walk(%s,%s)", valueKind(typed.v), valueKind(typed.d))
	case *Prob:
		return fmt.Sprintf("prob(%s)", valueKind(typed.p))
	case *If:
		return fmt.Sprintf("if(%s,%s,%s)", valueKind(typed.cond), valueKind(typed.then), valueKind(typed.els))
	case float64, float32:
		return "float"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case bool:
		return "bool"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", value)
	}
}
