package server

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/google/uuid"
)

var ErrNotEnoughFiles = errors.New("not enough files to animate")

type storedFile struct {
	name string
	size int
}

// Ticket is the server side of one upload batch.
type Ticket struct {
	mu            sync.Mutex
	id            string
	uid           string
	files         []storedFile
	readyPolls    int
	completePolls int
	merged        bool
	lastSeen      time.Time
}

func (t *Ticket) ID() string {
	return t.id
}

func (t *Ticket) touch() {
	t.lastSeen = time.Now()
}

// AddFile records an upload. A later upload with the same name replaces the earlier one.
func (t *Ticket) AddFile(name string, size int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	for i := range t.files {
		if t.files[i].name == name {
			t.files[i].size = size
			return
		}
	}
	t.files = append(t.files, storedFile{name: name, size: size})
}

func (t *Ticket) FileCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.files)
}

// PollReady counts a readiness poll. The ticket is ready once it holds at
// least one file and has been polled readyAfter times.
func (t *Ticket) PollReady(readyAfter int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	t.readyPolls++
	return len(t.files) > 0 && t.readyPolls >= readyAfter
}

func (t *Ticket) Merge(minFiles int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	if len(t.files) < minFiles || len(t.files) == 0 {
		return ErrNotEnoughFiles
	}
	t.merged = true

	return nil
}

// PollComplete counts a completion poll, polls before the merge do not count.
func (t *Ticket) PollComplete(completeAfter int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	if !t.merged {
		return false
	}
	t.completePolls++
	return t.completePolls >= completeAfter
}

func (t *Ticket) idleSince(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return now.Sub(t.lastSeen)
}

// TicketStore keeps every live ticket and drops the ones idle for longer than ttl.
type TicketStore struct {
	tickets *sync.Map
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

func NewTicketStore(ttl time.Duration) *TicketStore {
	return &TicketStore{
		tickets: &sync.Map{},
		ttl:     ttl,
		done:    make(chan struct{}),
	}
}

func (ts *TicketStore) Start() {
	go ts.vacuumTask()
}

func (ts *TicketStore) Stop() {
	ts.once.Do(func() {
		close(ts.done)
	})
}

func (ts *TicketStore) vacuumTask() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ts.done:
			return
		case now := <-ticker.C:
			ts.Vacuum(now)
		}
	}
}

// Vacuum removes tickets idle for longer than the ttl as of now.
func (ts *TicketStore) Vacuum(now time.Time) int {
	removed := 0
	ts.tickets.Range(func(key, value any) bool {
		ticket := value.(*Ticket)

		if ts.ttl > 0 && ticket.idleSince(now) > ts.ttl {
			ts.tickets.Delete(key)
			removed++
			slog.Debug("Cleanup idle ticket", "ticket", ticket.id, "uid", ticket.uid)
		}

		return true
	})

	return removed
}

func (ts *TicketStore) NewTicket(uid string) *Ticket {
	ticket := &Ticket{
		id:       uuid.NewString(),
		uid:      uid,
		lastSeen: time.Now(),
	}
	ts.tickets.Store(ticket.id, ticket)

	return ticket
}

func (ts *TicketStore) Get(id string) (*Ticket, error) {
	v, exist := ts.tickets.Load(id)
	if !exist {
		return nil, constants.ErrNotFound
	}

	return v.(*Ticket), nil
}
