package object

import "github.com/cmdneo/tree_lox/value"

type Instance struct {
	Fields map[string]value.Value
	Class  *Class
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Instance) LoxValue() {}

func (i *Instance) String() string {
	return i.Class.Name + " instance"
}

// --------------------------------------------------------

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

func (i *Instance) Get(name string) (value.Value, bool) {
	// Fields take precedence over methods
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if method := i.Class.FindMethod(name); method != nil {
		// Puts 'this' so that the method can access it.
		return method.Bind(i), true
	}
	return nil, false
}

func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}

// Removes a field, methods cannot be deleted.
func (i *Instance) Delete(name string) bool {
	if _, ok := i.Fields[name]; !ok {
		return false
	}
	delete(i.Fields, name)
	return true
}
