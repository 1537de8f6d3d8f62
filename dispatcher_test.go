package edi

import (
	"testing"
)

// seqEventHandler records its invocations and, on the first input event,
// pushes two queries around a piped event so tests can observe the
// query-priority ordering.
type seqEventHandler struct {
	log *[]string
}

func (h seqEventHandler) Handle(_ *EditorState, e Event, ctrl *Handle) {
	switch e.Payload.Type {
	case EventInput:
		*h.log = append(*h.log, "event:input")
		ctrl.PushQuery(QueryPayload{Type: QueryCommand, Command: "one"})
		ctrl.PushEvent(EventPayload{Type: EventModeSwitched})
		ctrl.PushQuery(QueryPayload{Type: QueryCommand, Command: "two"})
	case EventModeSwitched:
		*h.log = append(*h.log, "event:mode")
	}
}

type seqQueryHandler struct {
	log *[]string
}

func (h seqQueryHandler) Handle(_ *EditorState, q Query, _ *Handle) {
	*h.log = append(*h.log, "query:"+q.Payload.Command)
}

func TestDispatcherQueriesRunBeforeQueuedEvents(t *testing.T) {
	ch := make(chan Input, 1)
	ch <- Input{Kind: InputKeypress, Ch: 'x'}
	close(ch)

	var log []string
	d := NewDispatcher(ch)
	d.AttachEventHandler(seqEventHandler{log: &log})
	d.AttachQueryHandler(QueryCommand, seqQueryHandler{log: &log})

	d.Run(newTestState())

	want := []string{"event:input", "query:one", "query:two", "event:mode"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log[%d] = %q, want %q (full log %v)", i, log[i], want[i], log)
		}
	}
}

func TestDispatcherQuitStopsLoop(t *testing.T) {
	// The channel is never closed and never written to: if Quit did not
	// stop the loop, Run would block here forever.
	ch := make(chan Input)
	d := NewDispatcher(ch)
	d.PipeQuery(QueryPayload{Type: QueryQuit})
	d.Run(newTestState())
}

func TestDispatcherQuitRunsBeforeQueuedEvent(t *testing.T) {
	ch := make(chan Input)
	var log []string
	d := NewDispatcher(ch)
	d.AttachEventHandler(seqEventHandler{log: &log})
	d.PipeEvent(EventPayload{Type: EventModeSwitched})
	d.PipeQuery(QueryPayload{Type: QueryQuit})

	d.Run(newTestState())
	if len(log) != 0 {
		t.Errorf("handlers ran after Quit was queued first: %v", log)
	}
}

type filteredEventHandler struct {
	calls *int
}

func (h filteredEventHandler) Handle(_ *EditorState, _ Event, _ *Handle) {
	*h.calls++
}

func (h filteredEventHandler) InterestedIn(_ HandlerID, e Event) bool {
	return e.Payload.Type == EventCharWritten
}

func TestDispatcherInterestFilterSkipsHandler(t *testing.T) {
	ch := make(chan Input)
	close(ch)

	calls := 0
	d := NewDispatcher(ch)
	d.AttachEventHandler(filteredEventHandler{calls: &calls})
	d.PipeEvent(EventPayload{Type: EventModeSwitched})
	d.PipeEvent(EventPayload{Type: EventCharWritten})

	d.Run(newTestState())
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1 (only the CharWritten event)", calls)
	}
}

func TestDispatcherUnregisteredQueryIsDropped(t *testing.T) {
	ch := make(chan Input)
	close(ch)
	d := NewDispatcher(ch)
	d.PipeQuery(QueryPayload{Type: QueryMove})
	// No handler registered for QueryMove; the loop must drop the query
	// and terminate when the channel drains.
	d.Run(newTestState())
}

func TestHistoryHandlerObservesEditEvents(t *testing.T) {
	ch := make(chan Input)
	close(ch)

	h := NewHistoryHandler()
	d := NewDispatcher(ch)
	d.AttachQueryHandler(QueryHistory, h)

	s := newTestState()
	id := s.OpenScratch()
	d.PipeEvent(EventPayload{Type: EventCharWritten, BufferID: id, Offset: 0, Ch: 'a'})
	d.PipeEvent(EventPayload{Type: EventCharDeleted, BufferID: id, Offset: 0})
	d.PipeEvent(EventPayload{Type: EventModeSwitched, BufferID: id})

	d.Run(s)

	hist, ok := h.byBuffer[id]
	if !ok {
		t.Fatalf("history handler recorded nothing for buffer %v", id)
	}
	if len(hist.changes) != 2 {
		t.Fatalf("recorded %d changes, want 2 (mode switch must not be recorded)", len(hist.changes))
	}
	if hist.changes[0].isDelete || hist.changes[0].ch != 'a' {
		t.Errorf("first change = %+v, want write of 'a'", hist.changes[0])
	}
	if !hist.changes[1].isDelete {
		t.Errorf("second change = %+v, want a delete", hist.changes[1])
	}
}
