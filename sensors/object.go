package sensors

// ObjectType tags the runtime type of a firmware record node.
type ObjectType int

const (
	TypeInteger ObjectType = iota
	TypeString
	TypePackage
)

func (t ObjectType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeString:
		return "string"
	case TypePackage:
		return "package"
	}
	return "invalid"
}

// Object is one node of a raw firmware record. A whole sensor record is a
// single Package object whose Elements are the flattened property values
// in schema order. Only the field matching Type carries meaning.
type Object struct {
	Type     ObjectType
	Value    uint64
	Text     string
	Elements []Object
}
