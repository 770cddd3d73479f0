// Package image provides the strided N-dimensional image descriptor, its
// data types and the shared data segment that backs it.
package image

// Bin is the storage type of binary samples. Zero is false, anything else is true.
type Bin uint8

// Sample is a constraint for the Go element types an image can hold.
type Sample interface {
	~uint8 | ~uint16 | ~uint32 | ~int8 | ~int16 | ~int32 | ~float32 | ~float64 | ~complex64 | ~complex128
}

// DataType represents the runtime sample type of an image.
type DataType int

// Supported data types.
const (
	Binary DataType = iota // binary, one byte per sample
	Uint8
	Uint16
	Uint32
	Sint8
	Sint16
	Sint32
	Float32
	Float64
	Complex64
	Complex128

	numDataTypes
)

// AllDataTypes lists every supported data type in enumeration order.
var AllDataTypes = []DataType{
	Binary, Uint8, Uint16, Uint32, Sint8, Sint16, Sint32, Float32, Float64, Complex64, Complex128,
}

// Size returns the byte size of one sample.
func (dt DataType) Size() int {
	switch dt {
	case Binary, Uint8, Sint8:
		return 1
	case Uint16, Sint16:
		return 2
	case Uint32, Sint32, Float32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Binary:
		return "bin"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Sint8:
		return "sint8"
	case Sint16:
		return "sint16"
	case Sint32:
		return "sint32"
	case Float32:
		return "sfloat"
	case Float64:
		return "dfloat"
	case Complex64:
		return "scomplex"
	case Complex128:
		return "dcomplex"
	default:
		return "unknown"
	}
}

// ParseDataType maps a name as produced by String (or the Go type name) back to a DataType.
func ParseDataType(name string) (DataType, bool) {
	switch name {
	case "bin", "binary", "bool":
		return Binary, true
	case "uint8":
		return Uint8, true
	case "uint16":
		return Uint16, true
	case "uint32":
		return Uint32, true
	case "sint8", "int8":
		return Sint8, true
	case "sint16", "int16":
		return Sint16, true
	case "sint32", "int32":
		return Sint32, true
	case "sfloat", "float32":
		return Float32, true
	case "dfloat", "float64":
		return Float64, true
	case "scomplex", "complex64":
		return Complex64, true
	case "dcomplex", "complex128":
		return Complex128, true
	}
	return 0, false
}

// IsValid reports whether dt is one of the enumerated data types.
func (dt DataType) IsValid() bool { return dt >= Binary && dt < numDataTypes }

// IsBinary reports whether dt is the binary type.
func (dt DataType) IsBinary() bool { return dt == Binary }

// IsUnsigned reports whether dt is an unsigned integer type.
func (dt DataType) IsUnsigned() bool { return dt == Uint8 || dt == Uint16 || dt == Uint32 }

// IsSigned reports whether dt is a signed integer type.
func (dt DataType) IsSigned() bool { return dt == Sint8 || dt == Sint16 || dt == Sint32 }

// IsInteger reports whether dt is a (signed or unsigned) integer type.
func (dt DataType) IsInteger() bool { return dt.IsUnsigned() || dt.IsSigned() }

// IsFloat reports whether dt is a real floating-point type.
func (dt DataType) IsFloat() bool { return dt == Float32 || dt == Float64 }

// IsComplex reports whether dt is a complex type.
func (dt DataType) IsComplex() bool { return dt == Complex64 || dt == Complex128 }

// IsReal reports whether dt is an integer or real floating-point type.
func (dt DataType) IsReal() bool { return dt.IsInteger() || dt.IsFloat() }

// Real returns the type of one component of a complex type; other types are returned unchanged.
func (dt DataType) Real() DataType {
	switch dt {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return dt
	}
}

// SuggestReal returns a real type able to represent samples of dt:
// binary becomes uint8 and complex types become their component type.
func (dt DataType) SuggestReal() DataType {
	if dt == Binary {
		return Uint8
	}
	return dt.Real()
}

// SuggestFloat returns a floating-point type suitable for computing with samples of dt.
func (dt DataType) SuggestFloat() DataType {
	switch dt {
	case Uint32, Sint32, Float64, Complex128:
		return Float64
	default:
		return Float32
	}
}

// SuggestFlex returns a floating-point or complex type suitable for computing
// with samples of dt, keeping complex types complex.
func (dt DataType) SuggestFlex() DataType {
	if dt.IsComplex() {
		return dt
	}
	return dt.SuggestFloat()
}

// SuggestDyadic returns a type suitable for an operation combining samples of a and b.
func SuggestDyadic(a, b DataType) DataType {
	if a == b {
		return a
	}
	wide := a == Float64 || b == Float64 || a == Complex128 || b == Complex128 ||
		a == Uint32 || b == Uint32 || a == Sint32 || b == Sint32
	switch {
	case a.IsComplex() || b.IsComplex():
		if wide {
			return Complex128
		}
		return Complex64
	case a.IsFloat() || b.IsFloat():
		if wide {
			return Float64
		}
		return Float32
	case a == Binary:
		return b
	case b == Binary:
		return a
	}
	// Two different integer types: pick the smallest type covering both ranges.
	if a.IsUnsigned() == b.IsUnsigned() {
		if a.Size() >= b.Size() {
			return a
		}
		return b
	}
	size := max(a.Size(), b.Size())
	switch {
	case size == 1:
		return Sint16
	case size == 2:
		return Sint32
	default:
		return Float64
	}
}

// DataTypeOf returns the DataType matching the Go type T.
// Bin maps to Binary and plain uint8 to Uint8.
func DataTypeOf[T Sample]() DataType {
	var zero T
	switch any(zero).(type) {
	case Bin:
		return Binary
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case int8:
		return Sint8
	case int16:
		return Sint16
	case int32:
		return Sint32
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	default:
		panic("unsupported sample type")
	}
}

// DataTypeSet is a set of data types, used to declare which types a kernel supports.
type DataTypeSet uint32

// Named data type categories.
const (
	BinarySet     DataTypeSet = 1 << Binary
	UnsignedSet   DataTypeSet = 1<<Uint8 | 1<<Uint16 | 1<<Uint32
	SignedSet     DataTypeSet = 1<<Sint8 | 1<<Sint16 | 1<<Sint32
	IntegerSet                = UnsignedSet | SignedSet
	FloatSet      DataTypeSet = 1<<Float32 | 1<<Float64
	ComplexSet    DataTypeSet = 1<<Complex64 | 1<<Complex128
	RealSet                   = IntegerSet | FloatSet
	FlexSet                   = FloatSet | ComplexSet
	NonComplexSet             = BinarySet | RealSet
	NumericSet                = RealSet | ComplexSet
	AllSet                    = BinarySet | NumericSet
)

// Contains reports whether dt is a member of the set.
func (s DataTypeSet) Contains(dt DataType) bool {
	return dt.IsValid() && s&(1<<dt) != 0
}

// Types lists the members of the set in enumeration order.
func (s DataTypeSet) Types() []DataType {
	var out []DataType
	for _, dt := range AllDataTypes {
		if s.Contains(dt) {
			out = append(out, dt)
		}
	}
	return out
}
