package session

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// fsm state and event names, untyped for statekit.StateID and statekit.EventType
const (
	stateIdle    = "idle"
	stateLoading = "loading"
	stateReady   = "ready"
	stateFailed  = "failed"

	evSubmit  = "submit"
	evSucceed = "succeed"
	evFail    = "fail"
	evReset   = "reset"
)

// Phase is the lifecycle position of the presentation state
type Phase string

// phases
const (
	PhaseIdle    Phase = stateIdle
	PhaseLoading Phase = stateLoading
	PhaseReady   Phase = stateReady
	PhaseFailed  Phase = stateFailed
)

type phaseContext struct{}

// phaseMachines holds one compiled machine per starting phase
var phaseMachines = mustPhaseMachines()

func mustPhaseMachines() map[Phase]func() *statekit.Interpreter[phaseContext] {
	res := map[Phase]func() *statekit.Interpreter[phaseContext]{}
	for _, p := range []Phase{PhaseIdle, PhaseLoading, PhaseReady, PhaseFailed} {
		factory, err := newPhaseMachine(p)
		if err != nil {
			panic(fmt.Sprintf("build phase machine for %s: %v", p, err))
		}
		res[p] = factory
	}
	return res
}

// newPhaseMachine defines the allowed phase transitions, starting at initial.
// No transition targets its own state, so a changed state means the event was accepted.
func newPhaseMachine(initial Phase) (func() *statekit.Interpreter[phaseContext], error) {
	builder := statekit.NewMachine[phaseContext]("session-phase").
		WithInitial(statekit.StateID(initial)).
		WithContext(phaseContext{})

	builder.State(stateIdle).
		On(evSubmit).Target(stateLoading).
		Done()

	builder.State(stateLoading).
		On(evSucceed).Target(stateReady).
		On(evFail).Target(stateFailed).
		On(evReset).Target(stateIdle).
		Done()

	builder.State(stateReady).
		On(evSubmit).Target(stateLoading).
		On(evReset).Target(stateIdle).
		Done()

	builder.State(stateFailed).
		On(evSubmit).Target(stateLoading).
		On(evReset).Target(stateIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	return func() *statekit.Interpreter[phaseContext] { return statekit.NewInterpreter(machine) }, nil
}

// canTransition reports whether event moves the machine out of phase from
func canTransition(from Phase, event string) bool {
	factory, ok := phaseMachines[from]
	if !ok {
		return false
	}
	interp := factory()
	interp.Start()
	interp.Send(statekit.Event{Type: statekit.EventType(event)})
	return Phase(interp.State().Value) != from
}
