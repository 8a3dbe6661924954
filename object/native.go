package object

import (
	"fmt"
	"time"

	"github.com/cmdneo/tree_lox/value"
)

// Natives lists the functions defined in every global environment.
var Natives = []*Native{
	{"clock", 0, clock},
	{"str", 1, str},
	{"getattr", 2, getattr},
	{"setattr", 3, setattr},
	{"delattr", 2, delattr},
	{"isinstance", 2, isinstance},
}

type Native struct {
	Name       string
	ParamCount int
	Function   func(args []value.Value) (value.Value, error)
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Native) LoxValue() {}

func (n *Native) String() string {
	return "<native fn>"
}

// --------------------------------------------------------

func (n *Native) Arity() int {
	return n.ParamCount
}

func (n *Native) Call(_ Executor, args []value.Value) (value.Value, error) {
	// Arity is verified by the interpreter, so crash on a mismatch here.
	if len(args) != n.Arity() {
		panic("Got wrong number of arguments in native function.")
	}

	return n.Function(args)
}

// Error returned by native functions on domain or type error.
// Note arity is verified by the interpreter.
// --------------------------------------------------------
type NativeError struct {
	message string
}

func (n *NativeError) Error() string { return n.message }

func nativeError(format string, args ...any) *NativeError {
	return &NativeError{message: fmt.Sprintf(format, args...)}
}

// Native functions
// --------------------------------------------------------

// Wall-clock reading taken at start up, clock advances it with the monotonic
// clock so that it never goes backwards.
var startTime = time.Now()

func clock(args []value.Value) (value.Value, error) {
	base := float64(startTime.UnixNano()) / float64(time.Second)
	return value.Number(base + time.Since(startTime).Seconds()), nil
}

func str(args []value.Value) (value.Value, error) {
	return value.String(args[0].String()), nil
}

func getattr(args []value.Value) (value.Value, error) {
	instance, field, err := instanceAndField("getattr", args)
	if err != nil {
		return nil, err
	}

	if v, ok := instance.Get(string(field)); ok {
		return v, nil
	}
	return nil, nativeError("Instance has no attribute named '%v'.", field)
}

func setattr(args []value.Value) (value.Value, error) {
	instance, field, err := instanceAndField("setattr", args)
	if err != nil {
		return nil, err
	}

	instance.Set(string(field), args[2])
	return value.Nil{}, nil
}

func delattr(args []value.Value) (value.Value, error) {
	instance, field, err := instanceAndField("delattr", args)
	if err != nil {
		return nil, err
	}

	if !instance.Delete(string(field)) {
		return nil, nativeError("Instance has no attribute named '%v'.", field)
	}
	return value.Nil{}, nil
}

func isinstance(args []value.Value) (value.Value, error) {
	instance, err := extractArg[*Instance](args[0],
		"First argument to 'isinstance' should be an instance.")
	if err != nil {
		return nil, err
	}
	class, err := extractArg[*Class](args[1],
		"Second argument to 'isinstance' should be a class.")
	if err != nil {
		return nil, err
	}

	return value.Boolean(instance.Class.IsSubclassOf(class)), nil
}

// Type checking helpers
// --------------------------------------------------------
func instanceAndField(fun string, args []value.Value) (*Instance, value.String, error) {
	instance, err := extractArg[*Instance](args[0],
		fmt.Sprintf("First argument to '%v' should be an instance.", fun))
	if err != nil {
		return nil, "", err
	}
	field, err := extractArg[value.String](args[1],
		fmt.Sprintf("Second argument to '%v' should be a field name.", fun))
	if err != nil {
		return nil, "", err
	}
	return instance, field, nil
}

func extractArg[T value.Value](arg value.Value, message string) (T, error) {
	v, ok := arg.(T)
	if !ok {
		return v, nativeError("%v", message)
	}
	return v, nil
}
