package edi

// HandlerID uniquely identifies a registered event handler within one
// Dispatcher.
type HandlerID int

// EventHandler reacts to events. A handler with no interest filter is
// called for every event.
type EventHandler interface {
	Handle(state *EditorState, event Event, ctrl *Handle)
}

// InterestedEventHandler is the optional interest-filter extension of
// EventHandler. A handler that does not implement it is treated as
// interested in every event.
type InterestedEventHandler interface {
	EventHandler
	InterestedIn(ownID HandlerID, event Event) bool
}

// QueryHandler performs the work requested by one query type.
type QueryHandler interface {
	Handle(state *EditorState, query Query, ctrl *Handle)
}

// EventObservingQueryHandler is the optional extension query handlers use
// to piggyback on the event stream for side purposes (history recording
// uses this).
type EventObservingQueryHandler interface {
	QueryHandler
	CheckEvent(state *EditorState, event Event, ctrl *Handle)
	InterestedInEvent(event Event) bool
}

// Dispatcher is the single-threaded cooperative event/query loop. It owns
// both FIFOs and the handler registries; the input source feeds it through
// a single channel and handlers feed it through the Handle passed to every
// invocation.
type Dispatcher struct {
	incoming <-chan Input

	events []Event
	queued []Query

	eventHandlers map[HandlerID]EventHandler
	queryHandlers map[QueryType]QueryHandler
	nextHandlerID HandlerID
}

// NewDispatcher returns a dispatcher draining Input from incoming.
func NewDispatcher(incoming <-chan Input) *Dispatcher {
	return &Dispatcher{
		incoming:      incoming,
		eventHandlers: make(map[HandlerID]EventHandler),
		queryHandlers: make(map[QueryType]QueryHandler),
	}
}

// AttachEventHandler registers h, returning its fresh id.
func (d *Dispatcher) AttachEventHandler(h EventHandler) HandlerID {
	id := d.nextHandlerID
	d.nextHandlerID++
	d.eventHandlers[id] = h
	return id
}

// AttachQueryHandler registers h as the handler for queries of type t.
func (d *Dispatcher) AttachQueryHandler(t QueryType, h QueryHandler) {
	d.queryHandlers[t] = h
}

// PipeEvent seeds an event to be processed before the dispatcher blocks on
// incoming for the first time.
func (d *Dispatcher) PipeEvent(p EventPayload) {
	d.events = append(d.events, Event{Payload: p})
}

// PipeQuery seeds a query to run on the very first loop iteration; used to
// kick off the initial draw.
func (d *Dispatcher) PipeQuery(p QueryPayload) {
	d.queued = append(d.queued, Query{Payload: p})
}

// Handle is passed to every handler invocation; it is the only way
// handlers may push further events or queries. Handlers hold no
// back-pointers to the dispatcher or to each other.
type Handle struct {
	d      *Dispatcher
	origin *HandlerID
}

func (h *Handle) withOrigin(id HandlerID) *Handle {
	return &Handle{d: h.d, origin: &id}
}

// PushEvent enqueues e, tagging it with the calling handler's id.
func (h *Handle) PushEvent(p EventPayload) {
	h.d.events = append(h.d.events, Event{Payload: p, Source: h.origin})
}

// PushQuery enqueues q, tagging it with the calling handler's id.
func (h *Handle) PushQuery(p QueryPayload) {
	h.d.queued = append(h.d.queued, Query{Payload: p, Source: h.origin})
}

// QueryRedraw is shorthand for PushQuery(Draw{Redraw}), the most common
// query pushed by edit/move/mode handlers.
func (h *Handle) QueryRedraw() {
	h.PushQuery(QueryPayload{Type: QueryDraw, DrawKind: DrawRedraw})
}

// QueryQuit is shorthand for PushQuery(Quit).
func (h *Handle) QueryQuit() {
	h.PushQuery(QueryPayload{Type: QueryQuit})
}

func (d *Dispatcher) popQuery() (Query, bool) {
	if len(d.queued) == 0 {
		return Query{}, false
	}
	q := d.queued[0]
	d.queued = d.queued[1:]
	return q, true
}

func (d *Dispatcher) popEvent() (Event, bool) {
	if len(d.events) == 0 {
		return Event{}, false
	}
	e := d.events[0]
	d.events = d.events[1:]
	return e, true
}

func (d *Dispatcher) dispatchEvent(state *EditorState, e Event) {
	rootHandle := &Handle{d: d}
	for id, h := range d.eventHandlers {
		if ih, ok := h.(InterestedEventHandler); ok && !ih.InterestedIn(id, e) {
			continue
		}
		h.Handle(state, e, rootHandle.withOrigin(id))
	}
	for _, qh := range d.queryHandlers {
		oh, ok := qh.(EventObservingQueryHandler)
		if !ok || !oh.InterestedInEvent(e) {
			continue
		}
		oh.CheckEvent(state, e, rootHandle)
	}
}

// Run loops until shutdown: queued queries run strictly before any
// further event is drained, and queued events drain before blocking on
// the channel, so every input's resulting queries complete before the
// next input is considered. Run returns when a Quit query is popped or
// the incoming channel is closed with no further queued work.
func (d *Dispatcher) Run(state *EditorState) {
	rootHandle := &Handle{d: d}
	for {
		if q, ok := d.popQuery(); ok {
			if q.IsQuit() {
				return
			}
			if h, ok := d.queryHandlers[q.Payload.Type]; ok {
				origin := HandlerID(-1)
				if q.Source != nil {
					origin = *q.Source
				}
				h.Handle(state, q, rootHandle.withOrigin(origin))
			} else {
				Debugf("no query handler registered for type %d", q.Payload.Type)
			}
			continue
		}

		if e, ok := d.popEvent(); ok {
			d.dispatchEvent(state, e)
			continue
		}

		in, ok := <-d.incoming
		if !ok {
			return
		}
		d.dispatchEvent(state, NewInputEvent(in))
	}
}
