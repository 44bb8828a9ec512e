package registry

import (
	"context"
	"testing"
)

func TestRegisterAndGet(t *testing.T) {
	Register("echo", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return args["msg"], nil
	})
	defer Unregister("echo")

	fn, ok := Get("echo")
	if !ok {
		t.Fatal("registered resolver not found")
	}
	out, err := fn(context.Background(), map[string]interface{}{"msg": "hi"})
	if err != nil || out != "hi" {
		t.Errorf("resolve = %v, %v; want hi, nil", out, err)
	}
}

func TestGet_Unknown(t *testing.T) {
	defer Unregister("") // unlock for later tests
	if _, ok := Get("no_such_resolver"); ok {
		t.Error("unknown resolver should not be found")
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	Register("dup", func(ctx context.Context, args map[string]interface{}) (interface{}, error) { return nil, nil })
	defer Unregister("dup")
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("dup", func(ctx context.Context, args map[string]interface{}) (interface{}, error) { return nil, nil })
}

func TestRegister_AfterLockPanics(t *testing.T) {
	Get("anything") // locks the registry
	defer Unregister("")
	defer func() {
		if recover() == nil {
			t.Error("expected panic registering after first lookup")
		}
	}()
	Register("late", func(ctx context.Context, args map[string]interface{}) (interface{}, error) { return nil, nil })
}
