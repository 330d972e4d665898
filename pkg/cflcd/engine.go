// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

// Package cflcd drives a CrystalFontz-style character display over a byte
// stream. It runs the packet protocol engine (framing, checksum validation,
// request/response correlation, keypad event dispatch) and exposes a typed
// command facade on top of it.
package cflcd

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/lumenworks/cflink/pkg/cfpacket"
)

// Defaults for the tunable engine parameters.
const (
	DefaultReceiveTimeout = 250 * time.Millisecond
	DefaultCommandTimeout = 2 * time.Second
	DefaultStoreBound     = 16

	// eventQueueSize bounds the keypad event queue between the receive
	// worker and the dispatch goroutine. When full, the oldest event is
	// dropped so framing never stalls on a slow observer.
	eventQueueSize = 32
)

// Predicate selects a reply from the correlation store.
type Predicate func(*cfpacket.Packet) bool

// MatchReplyTo returns a predicate matching the acknowledgement of the given
// host command.
func MatchReplyTo(command byte) Predicate {
	return func(p *cfpacket.Packet) bool {
		return p.IsReplyTo(command)
	}
}

// Engine owns the two transport workers and the shared queues between them
// and command callers. Replies are matched by predicate, not arrival order:
// callers issuing commands with indistinguishable reply opcodes concurrently
// must serialize those calls themselves.
type Engine struct {
	transport Transport
	log       zerolog.Logger
	clock     clockwork.Clock

	recvTimeout time.Duration
	cmdTimeout  time.Duration
	storeBound  int

	// Outbound queue, drained FIFO by the send worker.
	outMu    sync.Mutex
	outbound []*cfpacket.Packet
	wake     chan struct{}

	// Correlation store of received non-event packets. arrival is closed
	// and replaced on every append so waiters can select on it.
	storeMu sync.Mutex
	store   []*cfpacket.Packet
	arrival chan struct{}

	// Keypad event path, decoupled from the receive worker.
	events    chan cfpacket.KeyEvent
	obsMu     sync.Mutex
	observers map[int]func(cfpacket.KeyEvent)
	nextObs   int

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithReceiveTimeout sets the transport read poll interval. A partially read
// frame is discarded when a poll elapses with no data.
func WithReceiveTimeout(d time.Duration) Option {
	return func(e *Engine) { e.recvTimeout = d }
}

// WithCommandTimeout sets the default window commands wait for their reply.
func WithCommandTimeout(d time.Duration) Option {
	return func(e *Engine) { e.cmdTimeout = d }
}

// WithStoreBound sets the maximum number of buffered replies. The oldest
// reply is evicted when newer arrivals exceed the bound.
func WithStoreBound(n int) Option {
	return func(e *Engine) { e.storeBound = n }
}

// WithClock substitutes the wall clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine starts the protocol engine over an already-open transport and
// returns it running. Fails with ErrTransportNotReady when the transport is
// nil.
func NewEngine(t Transport, opts ...Option) (*Engine, error) {
	if t == nil {
		return nil, ErrTransportNotReady
	}

	e := &Engine{
		transport:   t,
		log:         zerolog.Nop(),
		clock:       clockwork.NewRealClock(),
		recvTimeout: DefaultReceiveTimeout,
		cmdTimeout:  DefaultCommandTimeout,
		storeBound:  DefaultStoreBound,
		wake:        make(chan struct{}, 1),
		arrival:     make(chan struct{}),
		events:      make(chan cfpacket.KeyEvent, eventQueueSize),
		observers:   make(map[int]func(cfpacket.KeyEvent)),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := t.SetReadTimeout(e.recvTimeout); err != nil {
		return nil, err
	}

	e.wg.Add(3)
	go e.receiveLoop()
	go e.sendLoop()
	go e.dispatchLoop()

	return e, nil
}

// CommandTimeout returns the default reply window.
func (e *Engine) CommandTimeout() time.Duration {
	return e.cmdTimeout
}

// Close shuts both workers down, releases every blocked caller with
// ErrClosed, and closes the transport. It is idempotent and returns once the
// workers have exited.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
		// Closing the transport unblocks the receive worker's read.
		e.closeErr = e.transport.Close()
	})
	e.wg.Wait()
	return e.closeErr
}

func (e *Engine) closed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Enqueue appends a packet to the outbound queue and wakes the send worker.
// The wake is raised even when the worker is already draining, so no packet
// is ever left unflushed.
func (e *Engine) Enqueue(p *cfpacket.Packet) error {
	if e.closed() {
		return ErrClosed
	}

	e.outMu.Lock()
	e.outbound = append(e.outbound, p)
	e.outMu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
		// A wake is already pending; the worker rescans after draining.
	}
	return nil
}

// SendAndExpect enqueues the packet, then blocks until a received packet
// satisfies match, the timeout elapses, or the engine closes. The timeout is
// one logical deadline: non-matching arrivals waking the caller do not extend
// it. The matched packet is removed from the store and owned by the caller.
func (e *Engine) SendAndExpect(p *cfpacket.Packet, match Predicate, timeout time.Duration) (*cfpacket.Packet, error) {
	if err := e.Enqueue(p); err != nil {
		return nil, err
	}

	timer := e.clock.NewTimer(timeout)
	defer timer.Stop()

	for {
		e.storeMu.Lock()
		for i, stored := range e.store {
			if match(stored) {
				e.store = append(e.store[:i], e.store[i+1:]...)
				e.storeMu.Unlock()
				return stored, nil
			}
		}
		arrival := e.arrival
		e.storeMu.Unlock()

		select {
		case <-arrival:
		case <-timer.Chan():
			return nil, ErrTimeout
		case <-e.done:
			return nil, ErrClosed
		}
	}
}

// Subscribe registers an observer for keypad events. The returned function
// unregisters it. Observers run on the engine's dispatch goroutine, off the
// receive path, so a slow observer delays later events but never framing.
func (e *Engine) Subscribe(fn func(cfpacket.KeyEvent)) (cancel func()) {
	e.obsMu.Lock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	e.obsMu.Unlock()

	return func() {
		e.obsMu.Lock()
		delete(e.observers, id)
		e.obsMu.Unlock()
	}
}

// sendLoop drains the outbound queue in enqueue order whenever woken.
func (e *Engine) sendLoop() {
	defer e.wg.Done()

	for {
		select {
		case <-e.done:
			return
		case <-e.wake:
		}

		e.outMu.Lock()
		pending := e.outbound
		e.outbound = nil
		e.outMu.Unlock()

		for _, p := range pending {
			if _, err := e.transport.Write(p.Encode()); err != nil {
				if e.closed() {
					return
				}
				e.log.Error().Err(err).Str("packet", p.String()).Msg("transport write failed")
			}
		}
	}
}

// receiveLoop reassembles frames from the byte stream. Framing has two
// states: awaiting the 2-byte header, then awaiting length+2 body bytes. Any
// poll timeout mid-frame discards the partial frame; the next bytes are
// reinterpreted as a fresh header. A frame failing decode is dropped the same
// way, so a corrupted frame cannot wedge reception.
func (e *Engine) receiveLoop() {
	defer e.wg.Done()

	header := make([]byte, cfpacket.HeaderSize)
	for {
		n, err := e.readSome(header)
		if err != nil {
			return
		}
		if n == 0 {
			continue // idle poll, nothing started
		}
		if n < len(header) && !e.fill(header[n:], "header") {
			continue
		}

		body := make([]byte, int(header[1])+cfpacket.ChecksumSize)
		if !e.fill(body, "body") {
			continue
		}

		frame := make([]byte, 0, len(header)+len(body))
		frame = append(frame, header...)
		frame = append(frame, body...)

		p, err := cfpacket.Decode(frame)
		if err != nil {
			e.log.Debug().Err(err).Msg("dropping corrupt frame")
			continue
		}

		if p.IsKeyActivity() {
			e.publishEvent(cfpacket.KeyEvent(p.Data()[0]))
			continue
		}
		e.storePacket(p)
	}
}

// readSome performs one transport poll into buf. It returns an error only
// when the worker should exit (shutdown or transport failure).
func (e *Engine) readSome(buf []byte) (int, error) {
	if e.closed() {
		return 0, ErrClosed
	}

	n, err := e.transport.Read(buf)
	if err != nil {
		if !e.closed() {
			e.log.Error().Err(err).Msg("transport read failed, receive worker exiting")
		}
		return 0, err
	}
	return n, nil
}

// fill reads until buf is full. It returns false when a poll elapses with no
// data (the in-flight frame is abandoned) or the worker should exit.
func (e *Engine) fill(buf []byte, part string) bool {
	filled := 0
	for filled < len(buf) {
		n, err := e.readSome(buf[filled:])
		if err != nil {
			return false
		}
		if n == 0 {
			e.log.Debug().Str("part", part).Int("got", filled).Int("want", len(buf)).
				Msg("read timeout mid-frame, discarding partial frame")
			return false
		}
		filled += n
	}
	return true
}

// storePacket appends a reply to the correlation store, evicting the oldest
// entry past the bound, then wakes every waiter.
func (e *Engine) storePacket(p *cfpacket.Packet) {
	e.storeMu.Lock()
	if len(e.store) >= e.storeBound {
		evicted := e.store[0]
		e.store = append(e.store[:0], e.store[1:]...)
		e.log.Debug().Str("packet", evicted.String()).Msg("store full, evicting oldest reply")
	}
	e.store = append(e.store, p)
	close(e.arrival)
	e.arrival = make(chan struct{})
	e.storeMu.Unlock()
}

// publishEvent hands a keypad event to the dispatch goroutine without ever
// blocking the receive worker: when the queue is full the oldest queued event
// is dropped.
func (e *Engine) publishEvent(ev cfpacket.KeyEvent) {
	for {
		select {
		case e.events <- ev:
			return
		default:
		}
		select {
		case dropped := <-e.events:
			e.log.Warn().Str("event", dropped.String()).Msg("event queue full, dropping oldest")
		default:
		}
	}
}

// dispatchLoop delivers keypad events to the current observer set.
func (e *Engine) dispatchLoop() {
	defer e.wg.Done()

	for {
		select {
		case <-e.done:
			return
		case ev := <-e.events:
			e.obsMu.Lock()
			observers := make([]func(cfpacket.KeyEvent), 0, len(e.observers))
			for _, fn := range e.observers {
				observers = append(observers, fn)
			}
			e.obsMu.Unlock()

			for _, fn := range observers {
				fn(ev)
			}
		}
	}
}
