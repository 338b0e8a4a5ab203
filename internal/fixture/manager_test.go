package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// fakeInvoker records fixture executions and can be told to fail
type fakeInvoker struct {
	calls  []string
	failOn map[string]error
}

func (f *fakeInvoker) ExecuteScript(path string) error {
	key := filepath.Base(path)
	if err := f.failOn[key]; err != nil {
		return err
	}
	f.calls = append(f.calls, key)
	return nil
}

func (f *fakeInvoker) InvokeMethod(class, method string) error {
	key := class + "::" + method
	if err := f.failOn[key]; err != nil {
		return err
	}
	f.calls = append(f.calls, key)
	return nil
}

type fakeReinit struct {
	count int
}

func (f *fakeReinit) Reinitialize() error {
	f.count++
	return nil
}

type fakeCache struct {
	names []string
}

func (f *fakeCache) Invalidate(name string) error {
	f.names = append(f.names, name)
	return nil
}

type fakeModules map[string]string

func (f fakeModules) Resolve(module string) (string, bool) {
	p, ok := f[module]
	return p, ok
}

// newTestManager builds a manager over a temp fixture dir containing the
// given files, wired to fakes.
func newTestManager(t *testing.T, files ...string) (*Manager, *fakeInvoker, *fakeReinit, *fakeCache) {
	t.Helper()

	baseDir, err := os.MkdirTemp("", "pfx-fixtures-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(baseDir) })

	for _, file := range files {
		path := filepath.Join(baseDir, file)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<?php"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	invoker := &fakeInvoker{failOn: make(map[string]error)}
	reinit := &fakeReinit{}
	cache := &fakeCache{}

	manager, err := NewManager(baseDir, Options{
		Invoker:   invoker,
		Modules:   fakeModules{},
		Reinit:    reinit,
		Cache:     cache,
		CacheName: "metadata",
	})
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	return manager, invoker, reinit, cache
}

func meta(methodFixtures, classFixtures []string, zeroArg ...string) TestMeta {
	m := TestMeta{
		Class:          `Tests\Unit\CartTest`,
		MethodFixtures: methodFixtures,
		ClassFixtures:  classFixtures,
		ZeroArgMethods: make(map[string]bool),
	}
	for _, method := range zeroArg {
		m.ZeroArgMethods[method] = true
	}
	return m
}

func TestNewManager_MissingBaseDir(t *testing.T) {
	_, err := NewManager("/does/not/exist", Options{})
	if err == nil {
		t.Fatal("expected error for missing base directory")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestManager_AppliesMethodFixturesInOrder(t *testing.T) {
	manager, invoker, reinit, _ := newTestManager(t, "a.php", "b.php", "c.php")

	err := manager.OnTestStart(meta([]string{"a.php", "b.php"}, []string{"c.php"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Class fixtures ignored when method fixtures exist
	if !reflect.DeepEqual(invoker.calls, []string{"a.php", "b.php"}) {
		t.Errorf("expected [a.php b.php], got %v", invoker.calls)
	}
	if reinit.count != 1 {
		t.Errorf("expected 1 reinitialize, got %d", reinit.count)
	}
}

func TestManager_FallsBackToClassFixtures(t *testing.T) {
	manager, invoker, _, _ := newTestManager(t, "c.php")

	if err := manager.OnTestStart(meta(nil, []string{"c.php"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(invoker.calls, []string{"c.php"}) {
		t.Errorf("expected [c.php], got %v", invoker.calls)
	}
}

func TestManager_RejectsBackslashBeforeAnyIO(t *testing.T) {
	manager, invoker, _, _ := newTestManager(t)

	err := manager.OnTestStart(meta([]string{`Fixtures\products.php`}, nil))
	if err == nil {
		t.Fatal("expected error for backslash in identifier")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
	if len(invoker.calls) != 0 {
		t.Errorf("nothing should have executed, got %v", invoker.calls)
	}
}

func TestManager_DuplicateFixtureAppliesOnce(t *testing.T) {
	manager, invoker, _, _ := newTestManager(t, "a.php")

	if err := manager.OnTestStart(meta([]string{"a.php", "a.php"}, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(invoker.calls, []string{"a.php"}) {
		t.Errorf("expected single apply, got %v", invoker.calls)
	}
}

func TestManager_CallableFixture(t *testing.T) {
	manager, invoker, _, _ := newTestManager(t)

	m := meta([]string{"seedCart"}, nil, "seedCart", "seedCartRollback")
	if err := manager.OnTestStart(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.OnTestEnd(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		`Tests\Unit\CartTest::seedCart`,
		`Tests\Unit\CartTest::seedCartRollback`,
	}
	if !reflect.DeepEqual(invoker.calls, expected) {
		t.Errorf("expected %v, got %v", expected, invoker.calls)
	}
	if len(manager.Applied()) != 0 {
		t.Errorf("applied log should be empty after OnTestEnd")
	}
}

func TestManager_RevertsInReverseOrder(t *testing.T) {
	manager, invoker, _, cache := newTestManager(t,
		"a.php", "a_rollback.php",
		"b.php", "b_rollback.php",
		"c.php", "c_rollback.php",
	)

	if err := manager.OnTestStart(meta([]string{"a.php", "b.php", "c.php"}, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.OnTestEnd(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"a.php", "b.php", "c.php",
		"c_rollback.php", "b_rollback.php", "a_rollback.php",
	}
	if !reflect.DeepEqual(invoker.calls, expected) {
		t.Errorf("expected %v, got %v", expected, invoker.calls)
	}
	if len(manager.Applied()) != 0 {
		t.Errorf("applied log should be empty after OnTestEnd")
	}
	if !reflect.DeepEqual(cache.names, []string{"metadata"}) {
		t.Errorf("expected exactly one cache invalidation, got %v", cache.names)
	}
}

func TestManager_MissingRollbackIsSkipped(t *testing.T) {
	manager, invoker, _, _ := newTestManager(t, "a.php")

	if err := manager.OnTestStart(meta([]string{"a.php"}, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.OnTestEnd(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(invoker.calls, []string{"a.php"}) {
		t.Errorf("expected no rollback execution, got %v", invoker.calls)
	}
	if len(manager.Applied()) != 0 {
		t.Errorf("applied log should be empty after OnTestEnd")
	}
}

func TestManager_ApplyFailureWrapsFixtureIdentity(t *testing.T) {
	manager, invoker, _, _ := newTestManager(t, "a.php", "bad.php")
	invoker.failOn["bad.php"] = fmt.Errorf("syntax error")

	err := manager.OnTestStart(meta([]string{"a.php", "bad.php"}, nil))
	if err == nil {
		t.Fatal("expected apply error")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %T", err)
	}
	if execErr.Fixture != "bad.php" {
		t.Errorf("expected failing fixture bad.php, got %s", execErr.Fixture)
	}

	// The successful fixture stays in the log for revert
	if !reflect.DeepEqual(manager.Applied(), []Reference{PathReference{ID: "a.php"}}) {
		t.Errorf("unexpected applied log: %v", manager.Applied())
	}
}

func TestManager_CacheInvalidatedEvenWhenRevertFails(t *testing.T) {
	manager, invoker, _, cache := newTestManager(t, "a.php", "a_rollback.php")
	invoker.failOn["a_rollback.php"] = fmt.Errorf("cannot undo")

	if err := manager.OnTestStart(meta([]string{"a.php"}, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := manager.OnTestEnd()
	if err == nil {
		t.Fatal("expected revert error")
	}
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Errorf("expected ExecutionError, got %T", err)
	}

	if !reflect.DeepEqual(cache.names, []string{"metadata"}) {
		t.Errorf("cache must be invalidated despite the revert failure, got %v", cache.names)
	}
	if len(manager.Applied()) != 0 {
		t.Errorf("applied log must be cleared despite the revert failure")
	}
}

func TestManager_LogEmptyAfterEveryTestCycle(t *testing.T) {
	manager, invoker, _, _ := newTestManager(t, "a.php", "b.php", "b_rollback.php")

	// First cycle: fixture without rollback
	if err := manager.OnTestStart(meta([]string{"a.php"}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := manager.OnTestEnd(); err != nil {
		t.Fatal(err)
	}

	// Second cycle: fixture with rollback, same manager
	if err := manager.OnTestStart(meta([]string{"b.php"}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := manager.OnTestEnd(); err != nil {
		t.Fatal(err)
	}

	expected := []string{"a.php", "b.php", "b_rollback.php"}
	if !reflect.DeepEqual(invoker.calls, expected) {
		t.Errorf("expected %v, got %v", expected, invoker.calls)
	}
	if len(manager.Applied()) != 0 {
		t.Errorf("applied log should be empty")
	}
}
