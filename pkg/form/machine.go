package form

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

const (
	EventWarn    = "warn"
	EventFail    = "fail"
	EventSucceed = "succeed"
	EventReset   = "reset"
)

var allStates = []string{
	string(StatusIdle),
	string(StatusWarning),
	string(StatusFailure),
	string(StatusSuccess),
}

// statusEvents maps a submit outcome onto the event that reaches it.
var statusEvents = map[Status]string{
	StatusWarning: EventWarn,
	StatusFailure: EventFail,
	StatusSuccess: EventSucceed,
	StatusIdle:    EventReset,
}

func newMachine(onEnter func(from, to Status, event string)) *fsm.FSM {
	return fsm.NewFSM(
		string(StatusIdle),
		fsm.Events{
			// Submit re-evaluates from any state; warning and failure are not sticky.
			{Name: EventWarn, Src: allStates, Dst: string(StatusWarning)},
			{Name: EventFail, Src: allStates, Dst: string(StatusFailure)},
			{Name: EventSucceed, Src: allStates, Dst: string(StatusSuccess)},
			{Name: EventReset, Src: allStates, Dst: string(StatusIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if onEnter != nil {
					onEnter(Status(e.Src), Status(e.Dst), e.Event)
				}
			},
		},
	)
}

// moveTo fires the event leading to target. looplab/fsm reports self
// transitions as errors, so staying put is handled before the event is sent.
func moveTo(machine *fsm.FSM, target Status) error {
	if Status(machine.Current()) == target {
		return nil
	}
	event, ok := statusEvents[target]
	if !ok {
		return fmt.Errorf("form: no event reaches status %q", target)
	}
	if err := machine.Event(context.Background(), event); err != nil {
		return fmt.Errorf("form: %s transition: %w", event, err)
	}
	return nil
}
