package value

import "strconv"

// Every value stored in a variable, field or passed around by the interpreter
// must implement this interface.
type Value interface {
	String() string
	LoxValue()
}

// Primitive value types: Nil, Boolean, Number and String are defined in terms
// of go primitive types and are stored by value.
// Objects (functions, classes and instances) live in tree_lox/object and are
// stored as pointers.

type Nil struct{}
type Boolean bool
type Number float64
type String string

func (Nil) LoxValue()     {}
func (Boolean) LoxValue() {}
func (Number) LoxValue()  {}
func (String) LoxValue()  {}

func (Nil) String() string {
	return "nil"
}

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Integral numbers print without a fractional part: 3.0 is "3".
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s String) String() string {
	return string(s)
}

// Logical operations
// --------------------------------------------------------

// Only nil and false are falsy.
func Truthy(s Value) bool {
	switch v := s.(type) {
	case nil, Nil:
		return false
	case Boolean:
		return bool(v)
	default:
		return true
	}
}

func EqualTo(s, t Value) bool {
	// Both the dynamic type and the stored value must match. Objects are
	// pointers so they compare by identity.
	// A go nil and Nil{} both mean nil.
	if s == nil {
		s = Nil{}
	}
	if t == nil {
		t = Nil{}
	}
	return s == t
}

func Less(s, t Value) (Value, bool) {
	u, v, ok := numbers(s, t)
	return Boolean(u < v), ok
}

func LessEqual(s, t Value) (Value, bool) {
	u, v, ok := numbers(s, t)
	return Boolean(u <= v), ok
}

func Greater(s, t Value) (Value, bool) {
	u, v, ok := numbers(s, t)
	return Boolean(u > v), ok
}

func GreaterEqual(s, t Value) (Value, bool) {
	u, v, ok := numbers(s, t)
	return Boolean(u >= v), ok
}

// Mathematical operations
// --------------------------------------------------------

func Neg(s Value) (Value, bool) {
	if u, ok := s.(Number); ok {
		return -u, true
	}
	return nil, false
}

// Adds two numbers or concatenates when at least one side is a string and the
// other one is a string or a number.
func Add(s, t Value) (Value, bool) {
	switch u := s.(type) {
	case Number:
		switch v := t.(type) {
		case Number:
			return u + v, true
		case String:
			return String(u.String()) + v, true
		}

	case String:
		switch v := t.(type) {
		case String:
			return u + v, true
		case Number:
			return u + String(v.String()), true
		}
	}

	return nil, false
}

func Sub(s, t Value) (Value, bool) {
	u, v, ok := numbers(s, t)
	return u - v, ok
}

func Mul(s, t Value) (Value, bool) {
	u, v, ok := numbers(s, t)
	return u * v, ok
}

// Division by zero is not checked here, see the interpreter.
func Div(s, t Value) (Value, bool) {
	u, v, ok := numbers(s, t)
	return u / v, ok
}

func IsZero(s Value) bool {
	n, ok := s.(Number)
	return ok && n == 0
}

func numbers(s, t Value) (Number, Number, bool) {
	u, e := s.(Number)
	v, f := t.(Number)
	return u, v, e && f
}
