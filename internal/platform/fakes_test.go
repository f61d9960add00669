package platform

import (
	"context"
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
)

type busCall struct {
	dest   string
	method string
	args   []interface{}
}

type fakeBus struct {
	mu        sync.Mutex
	calls     []busCall
	responses map[string]*dbus.Call
	missing   map[string]bool
}

func newFakeBus() *fakeBus {
	return &fakeBus{responses: map[string]*dbus.Call{}, missing: map[string]bool{}}
}

func (bus *fakeBus) resolve(dest string, _ dbus.ObjectPath) (BusObject, error) {
	if bus.missing[dest] {
		return nil, errors.New("name has no owner: " + dest)
	}
	return &fakeObject{bus: bus, dest: dest}, nil
}

func (bus *fakeBus) methods() []string {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	methods := make([]string, 0, len(bus.calls))
	for _, call := range bus.calls {
		methods = append(methods, call.method)
	}
	return methods
}

type fakeObject struct {
	bus  *fakeBus
	dest string
}

func (object *fakeObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	object.bus.mu.Lock()
	defer object.bus.mu.Unlock()
	object.bus.calls = append(object.bus.calls, busCall{dest: object.dest, method: method, args: args})
	if response, ok := object.bus.responses[method]; ok {
		return response
	}
	return &dbus.Call{}
}

type spawned struct {
	name string
	args []string
}

type fakeRunner struct {
	mu        sync.Mutex
	output    []byte
	outputErr error
	spawnErr  error
	spawns    []spawned
	outputs   []spawned
}

func (runner *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.outputs = append(runner.outputs, spawned{name: name, args: args})
	return runner.output, runner.outputErr
}

func (runner *fakeRunner) Spawn(name string, args ...string) error {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.spawnErr != nil {
		return runner.spawnErr
	}
	runner.spawns = append(runner.spawns, spawned{name: name, args: args})
	return nil
}

type notification struct {
	title string
	body  string
}

type fakeNotifier struct {
	sent []notification
}

func (notifier *fakeNotifier) Notify(title, body string) {
	notifier.sent = append(notifier.sent, notification{title: title, body: body})
}
