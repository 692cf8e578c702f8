package binding

import (
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/script-runtime/marshal"
)

// counterHost is a minimal host collaborator for registry tests.
type counterHost struct {
	count   int
	label   string
	attract bool
}

// counterBinder fronts counterHost with a small catalog.
type counterBinder struct {
	host     *counterHost
	dispatch *Dispatcher
}

func newCounterBinder(host *counterHost) *counterBinder {
	b := &counterBinder{host: host}
	b.dispatch = NewDispatcher(map[string]Handler{
		"add":      b.execAdd,
		"label":    b.execLabel,
		"touch":    b.execTouch,
		"panics":   b.execPanics,
		"teleport": b.execTeleport,
	})
	return b
}

func (b *counterBinder) Name() string { return "counter" }

func (b *counterBinder) Methods() []MethodDescriptor {
	return []MethodDescriptor{
		{Name: "add", Description: "add an amount to the counter", Params: []marshal.TypeTag{marshal.TypeInt}, Returns: marshal.TypeInt},
		{Name: "label", Description: "set the counter label", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeVoid},
		{Name: "touch", Description: "increment with an optional step", Params: []marshal.TypeTag{marshal.TypeInt}, Returns: marshal.TypeInt},
		{Name: "panics", Description: "always panics (boundary test)", Params: nil, Returns: marshal.TypeVoid},
		{Name: "teleport", Description: "move to a position", Params: []marshal.TypeTag{marshal.TypeFloat, marshal.TypeFloat, marshal.TypeFloat}, Returns: marshal.TypeString},
	}
}

func (b *counterBinder) Properties() []string {
	return []string{"count", "attractMode"}
}

func (b *counterBinder) Call(method string, args []any) CallResult {
	return b.dispatch.Dispatch(method, args)
}

func (b *counterBinder) Property(name string) (any, bool) {
	switch name {
	case "count":
		return b.host.count, true
	case "attractMode":
		return b.host.attract, true
	}
	return nil, false
}

func (b *counterBinder) SetProperty(name string, value any) bool {
	// attractMode is the only writable property.
	if name != "attractMode" {
		return false
	}
	v, err := marshal.ToBool(value)
	if err != nil {
		return false
	}
	b.host.attract = v
	return true
}

func (b *counterBinder) execAdd(args []any) CallResult {
	if err := ValidateArgCount(args, 1, "add"); err != nil {
		return FailureErr(err)
	}
	n, err := marshal.ToInt(args[0])
	if err != nil {
		return FailureErr(err)
	}
	b.host.count += n
	return Success(b.host.count)
}

func (b *counterBinder) execLabel(args []any) CallResult {
	if err := ValidateArgCount(args, 1, "label"); err != nil {
		return FailureErr(err)
	}
	s, err := marshal.ToString(args[0])
	if err != nil {
		return FailureErr(err)
	}
	b.host.label = s
	return Success(nil)
}

func (b *counterBinder) execTouch(args []any) CallResult {
	if err := ValidateArgCountRange(args, 0, 1, "touch"); err != nil {
		return FailureErr(err)
	}
	step := 1
	if len(args) == 1 {
		n, err := marshal.ToInt(args[0])
		if err != nil {
			return FailureErr(err)
		}
		step = n
	}
	b.host.count += step
	return Success(b.host.count)
}

func (b *counterBinder) execPanics([]any) CallResult {
	panic("host went sideways")
}

func (b *counterBinder) execTeleport(args []any) CallResult {
	if err := ValidateArgCount(args, 3, "teleport"); err != nil {
		return FailureErr(err)
	}
	pos, err := marshal.ToVec3(args, 0)
	if err != nil {
		return FailureErr(err)
	}
	return Success(fmt.Sprintf("(%g, %g, %g)", pos.X, pos.Y, pos.Z))
}

func newTestRegistry(t *testing.T) (*Registry, *counterHost) {
	t.Helper()
	host := &counterHost{}
	reg := NewRegistry()
	if err := reg.Register(newCounterBinder(host)); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg, host
}

func TestRegistry_CallSuccess(t *testing.T) {
	reg, host := newTestRegistry(t)

	res := reg.Call("counter", "add", []any{float64(5)})
	if !res.OK {
		t.Fatalf("add failed: %s", res.Error)
	}
	if res.Value != 5 || host.count != 5 {
		t.Errorf("add result = %v, host count = %d, want 5", res.Value, host.count)
	}
}

func TestRegistry_ArgCount(t *testing.T) {
	reg, _ := newTestRegistry(t)

	// Exact arity methods reject every other count.
	for _, args := range [][]any{nil, {float64(1), float64(2)}} {
		res := reg.Call("counter", "add", args)
		if res.OK {
			t.Fatalf("add with %d args should fail", len(args))
		}
		if !strings.Contains(res.Error, "needs 1 arguments") {
			t.Errorf("arg count error should name the expected count, got %q", res.Error)
		}
	}

	// Range arity accepts min..max and rejects outside.
	if res := reg.Call("counter", "touch", nil); !res.OK {
		t.Errorf("touch with 0 args should succeed: %s", res.Error)
	}
	if res := reg.Call("counter", "touch", []any{float64(2)}); !res.OK {
		t.Errorf("touch with 1 arg should succeed: %s", res.Error)
	}
	res := reg.Call("counter", "touch", []any{float64(1), float64(2)})
	if res.OK || !strings.Contains(res.Error, "needs 0-1 arguments") {
		t.Errorf("touch with 2 args should report the range, got %q", res.Error)
	}
}

func TestRegistry_TypeConversionFailure(t *testing.T) {
	reg, host := newTestRegistry(t)

	res := reg.Call("counter", "add", []any{"five"})
	if res.OK {
		t.Fatal("add with a string argument should fail")
	}
	if !strings.Contains(res.Error, "expected int") {
		t.Errorf("conversion failure should name the expected type, got %q", res.Error)
	}
	if host.count != 0 {
		t.Errorf("failed call must not touch the host, count = %d", host.count)
	}
}

func TestRegistry_UnknownMethod(t *testing.T) {
	reg, _ := newTestRegistry(t)

	res := reg.Call("counter", "frobnicate", nil)
	if res.OK {
		t.Fatal("unknown method should fail")
	}
	if !strings.Contains(res.Error, "unknown method: frobnicate") {
		t.Errorf("error should identify the unknown method, got %q", res.Error)
	}

	res = reg.Call("ghost", "add", nil)
	if res.OK || !strings.Contains(res.Error, "unknown method") {
		t.Errorf("unknown object should fail as unknown method, got %q", res.Error)
	}
}

func TestRegistry_PanicIsContained(t *testing.T) {
	reg, _ := newTestRegistry(t)

	res := reg.Call("counter", "panics", nil)
	if res.OK {
		t.Fatal("panicking method should report failure")
	}
	if !strings.Contains(res.Error, "panicked") {
		t.Errorf("panic should be wrapped into the result, got %q", res.Error)
	}
}

func TestRegistry_Vec3Method(t *testing.T) {
	reg, _ := newTestRegistry(t)

	res := reg.Call("counter", "teleport", []any{float64(1), float64(2), float64(3)})
	if !res.OK {
		t.Fatalf("teleport failed: %s", res.Error)
	}
	if res.Value != "(1, 2, 3)" {
		t.Errorf("teleport = %v", res.Value)
	}

	res = reg.Call("counter", "teleport", []any{float64(1), float64(2), "three"})
	if res.OK {
		t.Fatal("teleport with a non-numeric component should fail")
	}
}

func TestRegistry_CatalogOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)

	catalog := reg.Methods("counter")
	want := []string{"add", "label", "touch", "panics", "teleport"}
	if len(catalog) != len(want) {
		t.Fatalf("catalog size = %d, want %d", len(catalog), len(want))
	}
	for i, name := range want {
		if catalog[i].Name != name {
			t.Errorf("catalog[%d] = %s, want %s (declaration order must be stable)", i, catalog[i].Name, name)
		}
	}
	if reg.Methods("ghost") != nil {
		t.Error("unknown object should have a nil catalog")
	}
}

func TestRegistry_Properties(t *testing.T) {
	reg, host := newTestRegistry(t)
	host.count = 42

	v, ok := reg.Property("counter", "count")
	if !ok || v != 42 {
		t.Errorf("count property = %v, %v", v, ok)
	}
	if _, ok := reg.Property("counter", "missing"); ok {
		t.Error("unknown property should report absent")
	}

	if !reg.SetProperty("counter", "attractMode", true) {
		t.Error("attractMode should be writable")
	}
	if host.attract != true {
		t.Error("SetProperty did not reach the host")
	}
	if reg.SetProperty("counter", "count", 7) {
		t.Error("count is read-only")
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	host := &counterHost{}
	reg := NewRegistry()
	if err := reg.Register(newCounterBinder(host)); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(newCounterBinder(host)); err == nil {
		t.Fatal("duplicate object name must be rejected")
	}
}
