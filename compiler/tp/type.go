package tp

type (
	// Kind is the element type of a shader value.
	Kind int

	// Spec describes a symbol's storage: an element kind and an
	// optional array length. Len == 0 means not an array.
	Spec struct {
		Kind Kind
		Len  int
	}
)

const (
	Unknown Kind = iota
	Float
	Int
	String
	Vec3
	Matrix44
	Closure
	Ptr
	LongLong
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case String:
		return "string"
	case Vec3:
		return "vec3"
	case Matrix44:
		return "matrix44"
	case Closure:
		return "closure"
	case Ptr:
		return "ptr"
	case LongLong:
		return "longlong"
	default:
		return "unknown"
	}
}

func KindByName(name string) (Kind, bool) {
	for k := Float; k <= LongLong; k++ {
		if k.String() == name {
			return k, true
		}
	}

	return Unknown, false
}

func (s Spec) IsArray() bool { return s.Len != 0 }

func (s Spec) IsClosureBased() bool { return s.Kind == Closure }

func (s Spec) IsStringBased() bool { return s.Kind == String }

func (s Spec) String() string {
	if s.Len == 0 {
		return s.Kind.String()
	}

	return s.Kind.String() + "[]"
}
