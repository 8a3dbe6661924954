package object

import "github.com/cmdneo/tree_lox/value"

type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // Can be nil
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Class) LoxValue() {}

func (c *Class) String() string {
	return c.Name
}

// --------------------------------------------------------

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{
		Name:       name,
		Methods:    methods,
		Superclass: superclass,
	}
}

// Finds the method in the class or else in its nearest ancestor.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if fun, ok := class.Methods[name]; ok {
			return fun
		}
	}
	return nil
}

// Reports whether the class is c or one of its ancestors.
func (c *Class) IsSubclassOf(class *Class) bool {
	for k := c; k != nil; k = k.Superclass {
		if k == class {
			return true
		}
	}
	return false
}

// The class takes the arguments of its initializer, if any.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Calling a class creates an instance and runs the initializer on it.
func (c *Class) Call(ex Executor, args []value.Value) (value.Value, error) {
	instance := NewInstance(c)

	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(ex, args); err != nil {
			return nil, err
		}
	}

	return instance, nil
}
