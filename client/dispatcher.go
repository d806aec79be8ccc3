package client

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/golang-collections/collections/queue"

	"github.com/ftsanjuan/modern-react-redux-blog/store"
)

// envelope is a queued action and the channel closed once it is applied.
type envelope struct {
	action  store.Action
	applied chan struct{}
}

// Dispatcher owns a store and applies actions to it one at a time.
//
// Actions are applied in the order Dispatch is called, on a single goroutine.
// Readers get an immutable snapshot via State without locking.
type Dispatcher struct {
	reduce store.Reducer
	logger *slog.Logger

	state atomic.Pointer[store.State]

	mu      sync.Mutex
	pending *queue.Queue
	closed  bool
	subs    map[int]func(store.State)
	nextSub int

	wake chan struct{}
	done chan struct{}
}

// NewDispatcher creates a dispatcher with an empty store and starts its loop.
// A nil reduce uses store.Reduce.
func NewDispatcher(reduce store.Reducer, logger *slog.Logger) *Dispatcher {
	if reduce == nil {
		reduce = store.Reduce
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		reduce:  reduce,
		logger:  logger,
		pending: queue.New(),
		subs:    make(map[int]func(store.State)),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	empty := store.Empty()
	d.state.Store(&empty)
	go d.run()
	return d
}

// State returns the current snapshot.
func (d *Dispatcher) State() store.State {
	return *d.state.Load()
}

// Dispatch queues action and returns a channel closed once it has been applied.
// Dispatch never blocks. After Close the action is dropped and the returned
// channel is already closed.
func (d *Dispatcher) Dispatch(action store.Action) <-chan struct{} {
	applied, _ := d.TryDispatch(action)
	return applied
}

// TryDispatch is Dispatch that also reports whether the action was accepted.
// It returns false once the dispatcher is closed.
func (d *Dispatcher) TryDispatch(action store.Action) (<-chan struct{}, bool) {
	applied := make(chan struct{})

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Debug("dropping action after close", "type", actionType(action))
		close(applied)
		return applied, false
	}
	d.pending.Enqueue(envelope{action: action, applied: applied})
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return applied, true
}

// Subscribe registers fn to be called with every new snapshot.
// fn runs on the dispatch goroutine and must not call Dispatch synchronously
// waiting on the result. The returned func removes the subscription.
func (d *Dispatcher) Subscribe(fn func(store.State)) (cancel func()) {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Close stops accepting actions, applies those already queued and stops the loop.
// It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for range d.wake {
		for {
			env, ok, closed := d.next()
			if !ok {
				if closed {
					return
				}
				break
			}
			d.apply(env)
		}
	}
}

// next pops the oldest pending envelope.
func (d *Dispatcher) next() (env envelope, ok, closed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending.Len() == 0 {
		return envelope{}, false, d.closed
	}
	return d.pending.Dequeue().(envelope), true, d.closed
}

func (d *Dispatcher) apply(env envelope) {
	next := d.reduce(d.State(), env.action)
	d.state.Store(&next)

	d.logger.Debug("applied action",
		"type", actionType(env.action),
		"posts", next.Len(),
	)

	d.mu.Lock()
	subs := make([]func(store.State), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	close(env.applied)
}

// actionType names an action for logging without calling its methods,
// which may not be safe on a typed nil.
func actionType(a store.Action) string {
	return fmt.Sprintf("%T", a)
}
