/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"context"
	"time"
)

const defaultSendBuffer = 16

type Options struct {
	Aggregator Aggregator

	// OnePerQuestion accepts a single batch of phrases per connection
	// for each question.
	OnePerQuestion bool

	// ClearOnQuestion empties the word map whenever the question changes.
	ClearOnQuestion bool

	// SessionTimeout is how long a session with no participants is kept.
	// Zero keeps it until the process exits.
	SessionTimeout time.Duration

	SendBuffer int
	PingPeriod time.Duration

	Logf func(format string, args ...any)
}

type Stats struct {
	Sessions     int `json:"sessions"`
	Participants int `json:"participants"`
	Connections  int `json:"connections"`
}

type createRequest struct {
	question string
	reply    chan createResult
}

type createResult struct {
	id  string
	err error
}

// Hub owns the session store and every connection. All state changes run
// on the goroutine started by Run, one event at a time, so broadcasts to a
// session reach its members in the order they were emitted.
type Hub struct {
	store *Store
	opts  Options

	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	lagging []*Client

	register   chan *Client
	unregister chan *Client
	commands   chan command
	creates    chan createRequest
	stats      chan chan Stats
	done       chan struct{}
}

func NewHub(store *Store, opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}

	return &Hub{
		store:      store,
		opts:       opts,
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan command),
		creates:    make(chan createRequest),
		stats:      make(chan chan Stats),
		done:       make(chan struct{}),
	}
}

func (h *Hub) logf(format string, args ...any) {
	h.opts.Logf(format, args...)
}

// Run processes events until ctx is cancelled, then closes every
// connection. It must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	var sweep <-chan time.Time
	if h.opts.SessionTimeout > 0 {
		ticker := time.NewTicker(h.opts.SessionTimeout / 2)
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			h.remove(c)
		case cmd := <-h.commands:
			if h.clients[cmd.client] {
				h.handle(cmd)
			}
		case req := <-h.creates:
			req.reply <- h.create(req.question)
		case reply := <-h.stats:
			reply <- Stats{
				Sessions:     h.store.Len(),
				Participants: h.store.Participants(),
				Connections:  len(h.clients),
			}
		case now := <-sweep:
			h.sweep(now)
		}

		h.evictLagging()
	}
}

func (h *Hub) shutdown() {
	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
	}
	h.clients = make(map[*Client]bool)
	h.rooms = make(map[string]map[*Client]bool)

	close(h.done)
}

// Serve attaches conn to the hub and blocks until it disconnects.
func (h *Hub) Serve(conn Conn) {
	c := newClient(conn, h.opts.SendBuffer)

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump(h.opts.PingPeriod)
	h.readPump(c)
}

// CreateSession starts a new session with the given question and returns
// its ID.
func (h *Hub) CreateSession(ctx context.Context, question string) (string, error) {
	req := createRequest{
		question: question,
		reply:    make(chan createResult, 1),
	}

	select {
	case h.creates <- req:
	case <-h.done:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.id, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)

	select {
	case h.stats <- reply:
	case <-h.done:
		return Stats{}, ErrClosed
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

func (h *Hub) create(question string) createResult {
	s, err := h.store.Create(question)
	if err != nil {
		h.logf("SESSIONS: Unable to create session: %v", err)
		return createResult{err: err}
	}

	h.logf("SESSIONS: Created session %s with question %q", s.ID, s.Question)

	return createResult{id: s.ID}
}

func (h *Hub) handle(cmd command) {
	c := cmd.client

	switch cmd.kind {
	case EventJoinSession:
		h.join(c, cmd.sessionID)
	case EventSendWords:
		h.sendWords(c, cmd.phrases)
	case EventNewQuestion:
		h.newQuestion(c, cmd.sessionID, cmd.question)
	case EventReset:
		h.reset(c)
	}
}

func (h *Hub) join(c *Client, raw string) {
	id, ok := NormalizeID(raw)
	if !ok {
		h.logf("SESSIONS: Ignoring join to invalid session %q from %s", raw, c.id)
		return
	}

	if c.sessionID == id {
		s, _ := h.store.Get(id)
		h.deliver(c, Event{Type: EventParticipants, Data: s.Participants})
		h.deliver(c, Event{Type: EventCloud, Data: s.Snapshot()})
		h.deliver(c, Event{Type: EventWordCount, Data: len(s.Words)})
		h.deliver(c, Event{Type: EventQuestion, Data: s.Question})
		return
	}

	h.leave(c)

	s, created := h.store.GetOrCreate(id)
	if created {
		h.logf("SESSIONS: Created session %s on join", id)
	}

	c.sessionID = id
	c.answered = -1

	room, ok := h.rooms[id]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[id] = room
	}
	room[c] = true

	s.Participants++
	h.store.touch(s)

	h.logf("SESSIONS: %s joined %s (%d participants)", c.id, id, s.Participants)

	h.broadcast(id, Event{Type: EventParticipants, Data: s.Participants})
	h.broadcastCloud(s)
	h.deliver(c, Event{Type: EventQuestion, Data: s.Question})
}

// leave detaches c from its session, deleting the session once nobody is
// left in it.
func (h *Hub) leave(c *Client) {
	id := c.sessionID
	if id == "" {
		return
	}
	c.sessionID = ""

	if room, ok := h.rooms[id]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, id)
		}
	}

	s, ok := h.store.Get(id)
	if !ok {
		return
	}

	s.Participants--
	h.store.touch(s)

	if s.Participants <= 0 {
		h.store.Delete(id)
		delete(h.rooms, id)
		h.logf("SESSIONS: %s left %s; session deleted", c.id, id)
		return
	}

	h.logf("SESSIONS: %s left %s (%d participants)", c.id, id, s.Participants)

	h.broadcast(id, Event{Type: EventParticipants, Data: s.Participants})
}

func (h *Hub) sendWords(c *Client, phrases []string) {
	s, ok := h.store.Get(c.sessionID)
	if !ok {
		h.logf("SESSIONS: Ignoring words from %s: not in a session", c.id)
		return
	}

	if h.opts.OnePerQuestion && c.answered == s.Round {
		h.logf("SESSIONS: Ignoring words from %s in %s: already answered", c.id, s.ID)
		return
	}

	accepted, rejected := h.opts.Aggregator.Submit(s, phrases)
	for _, r := range rejected {
		h.logf("SESSIONS: Rejected %s from %s in %s", r, c.id, s.ID)
	}

	if accepted == 0 {
		return
	}

	c.answered = s.Round
	h.store.touch(s)

	h.broadcastCloud(s)
}

func (h *Hub) newQuestion(c *Client, raw, question string) {
	id := c.sessionID
	if raw != "" {
		var ok bool
		if id, ok = NormalizeID(raw); !ok {
			h.logf("SESSIONS: Ignoring question for invalid session %q from %s", raw, c.id)
			return
		}
	}

	s, ok := h.store.Get(id)
	if !ok {
		h.logf("SESSIONS: Ignoring question for unknown session %q from %s", id, c.id)
		return
	}

	s.Question = question
	s.Round++
	h.store.touch(s)

	h.logf("SESSIONS: New question in %s: %q", s.ID, question)

	if h.opts.ClearOnQuestion {
		s.Reset()
		h.broadcastCloud(s)
	}

	h.broadcast(s.ID, Event{Type: EventQuestion, Data: s.Question})
}

func (h *Hub) reset(c *Client) {
	s, ok := h.store.Get(c.sessionID)
	if !ok {
		h.logf("SESSIONS: Ignoring reset from %s: not in a session", c.id)
		return
	}

	s.Reset()
	h.store.touch(s)

	h.logf("SESSIONS: Reset cloud in %s", s.ID)

	h.broadcastCloud(s)
}

func (h *Hub) sweep(now time.Time) {
	for _, id := range h.store.Sweep(now.Add(-h.opts.SessionTimeout)) {
		delete(h.rooms, id)
		h.logf("SESSIONS: Removed idle session %s", id)
	}
}

func (h *Hub) broadcastCloud(s *Session) {
	words := s.Snapshot()

	h.broadcast(s.ID, Event{Type: EventCloud, Data: words})
	h.broadcast(s.ID, Event{Type: EventWordCount, Data: len(words)})
}

func (h *Hub) broadcast(id string, ev Event) {
	for c := range h.rooms[id] {
		h.deliver(c, ev)
	}
}

// deliver queues ev for c. A client whose buffer is full is marked and
// dropped once the current event has been handled.
func (h *Hub) deliver(c *Client, ev Event) {
	if c.lagging {
		return
	}

	select {
	case c.send <- ev:
	default:
		c.lagging = true
		h.lagging = append(h.lagging, c)
	}
}

func (h *Hub) evictLagging() {
	for len(h.lagging) > 0 {
		c := h.lagging[0]
		h.lagging = h.lagging[1:]

		h.logf("SESSIONS: Dropping lagging connection %s", c.id)
		h.remove(c)
	}
}

// remove forgets c. Only the first call for a given client has any effect.
func (h *Hub) remove(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)

	h.leave(c)

	close(c.send)
	_ = c.conn.Close()
}
