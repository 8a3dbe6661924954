package object

import (
	"testing"

	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/token"
	"github.com/cmdneo/tree_lox/value"
)

func TestEnvironmentChain(t *testing.T) {
	globals := NewEnvironment(nil)
	globals.Define("a", value.Number(1))

	block := NewEnvironment(globals)
	block.Define("b", value.Number(2))

	if v, ok := block.Get("a"); !ok || v != value.Number(1) {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := globals.Get("b"); ok {
		t.Errorf("inner binding leaked into the enclosing scope")
	}

	if !block.Assign("a", value.Number(3)) {
		t.Fatal("Assign(a) failed")
	}
	if v, _ := globals.Get("a"); v != value.Number(3) {
		t.Errorf("assignment did not reach the global: %v", v)
	}
	if block.Assign("missing", value.Nil{}) {
		t.Errorf("Assign to an undefined name succeeded")
	}

	block.AssignAt(1, "a", value.Number(4))
	if v := block.GetAt(1, "a"); v != value.Number(4) {
		t.Errorf("GetAt(1, a) = %v", v)
	}
	if v := block.GetAt(0, "b"); v != value.Number(2) {
		t.Errorf("GetAt(0, b) = %v", v)
	}
	if block.Enclosing() != globals {
		t.Errorf("wrong enclosing environment")
	}
}

// Runs nothing and returns the value stored under "result", if any.
type fakeExecutor struct{}

func (fakeExecutor) ExecuteBody(body []ast.Stmt, env *Environment) (value.Value, bool) {
	v, ok := env.Get("result")
	return v, ok
}

func ident(name string) token.Token {
	return token.Token{Kind: token.IDENTIFIER, Lexeme: name, Line: 1}
}

func TestClassMethodsAndInstances(t *testing.T) {
	initDecl := &ast.Function{Name: ident("init"), Params: []token.Token{ident("x")}}
	methodDecl := &ast.Function{Name: ident("m")}

	base := NewClass("Base", nil, map[string]*Function{
		"init": NewFunction(initDecl, NewEnvironment(nil), true),
		"m":    NewFunction(methodDecl, NewEnvironment(nil), false),
	})
	derived := NewClass("Derived", base, map[string]*Function{})

	if derived.Arity() != 1 {
		t.Errorf("inherited initializer arity = %v", derived.Arity())
	}
	if derived.FindMethod("m") == nil || derived.FindMethod("nope") != nil {
		t.Errorf("method lookup through the superclass is wrong")
	}
	if !derived.IsSubclassOf(base) || base.IsSubclassOf(derived) {
		t.Errorf("subclass relation is wrong")
	}

	v, err := derived.Call(fakeExecutor{}, []value.Value{value.Number(1)})
	if err != nil {
		t.Fatal(err)
	}
	instance := v.(*Instance)
	if instance.String() != "Derived instance" || derived.String() != "Derived" {
		t.Errorf("printed as %v and %v", instance, derived)
	}

	// Methods are bound to the instance.
	got, ok := instance.Get("m")
	if !ok {
		t.Fatal("method not found on instance")
	}
	bound := got.(*Function)
	if bound.Closure.GetAt(0, "this") != instance {
		t.Errorf("method not bound to its instance")
	}
	if bound.String() != "<fn m>" {
		t.Errorf("bound method printed as %v", bound)
	}

	// Fields shadow methods.
	instance.Set("m", value.Number(5))
	if got, _ := instance.Get("m"); got != value.Number(5) {
		t.Errorf("field did not shadow method: %v", got)
	}
	if !instance.Delete("m") || instance.Delete("m") {
		t.Errorf("Delete reported the wrong result")
	}
}

func TestInitializerReturnsInstance(t *testing.T) {
	decl := &ast.Function{Name: ident("init")}
	class := NewClass("A", nil, map[string]*Function{
		"init": NewFunction(decl, NewEnvironment(nil), true),
	})
	instance := NewInstance(class)

	init := class.FindMethod("init").Bind(instance)
	// The body "returns" a different value, the instance still wins.
	init.Closure.Define("result", value.Number(1))

	v, _ := init.Call(fakeExecutor{}, nil)
	if v != instance {
		t.Fatalf("initializer returned %v", v)
	}
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	fun := NewFunction(&ast.Function{Name: ident("f")}, NewEnvironment(nil), false)
	if v, _ := fun.Call(fakeExecutor{}, nil); v != (value.Nil{}) {
		t.Fatalf("got %v", v)
	}
}

func native(t *testing.T, name string) *Native {
	t.Helper()
	for _, n := range Natives {
		if n.Name == name {
			return n
		}
	}
	t.Fatalf("no native named %v", name)
	return nil
}

func TestNatives(t *testing.T) {
	class := NewClass("A", nil, map[string]*Function{})
	sub := NewClass("B", class, map[string]*Function{})
	instance := NewInstance(sub)

	call := func(name string, args ...value.Value) (value.Value, error) {
		return native(t, name).Call(nil, args)
	}

	if v, _ := call("str", value.Number(2.5)); v != value.String("2.5") {
		t.Errorf("str(2.5) = %#v", v)
	}

	call("setattr", instance, value.String("x"), value.Number(1))
	if v, err := call("getattr", instance, value.String("x")); err != nil || v != value.Number(1) {
		t.Errorf("getattr = %v, %v", v, err)
	}
	if _, err := call("delattr", instance, value.String("x")); err != nil {
		t.Errorf("delattr: %v", err)
	}
	if _, err := call("getattr", instance, value.String("x")); err == nil {
		t.Errorf("getattr of a deleted field succeeded")
	}
	if _, err := call("getattr", value.Number(1), value.String("x")); err == nil ||
		err.Error() != "First argument to 'getattr' should be an instance." {
		t.Errorf("getattr on a number: %v", err)
	}

	if v, _ := call("isinstance", instance, class); v != value.Boolean(true) {
		t.Errorf("isinstance through the superclass = %v", v)
	}
	if v, _ := call("isinstance", NewInstance(class), sub); v != value.Boolean(false) {
		t.Errorf("isinstance of a superclass instance = %v", v)
	}

	for _, n := range Natives {
		if n.String() != "<native fn>" {
			t.Errorf("%v printed as %v", n.Name, n)
		}
	}
}

func TestClockIsMonotonic(t *testing.T) {
	first, _ := native(t, "clock").Call(nil, nil)
	second, _ := native(t, "clock").Call(nil, nil)
	if second.(value.Number) < first.(value.Number) {
		t.Fatalf("clock went backwards: %v then %v", first, second)
	}
}
