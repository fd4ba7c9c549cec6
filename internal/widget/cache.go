package widget

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	labels []Label
	at     time.Time
}

// Cache reuses the last successful draw of a widget until its refresh
// interval has elapsed. Failed draws are retried on the next call. A Cache
// belongs to a single render loop and is not safe for concurrent use.
type Cache struct {
	clock   clockwork.Clock
	entries map[*User]entry
}

func NewCache(clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		clock:   clock,
		entries: make(map[*User]entry),
	}
}

func (c *Cache) Draw(u *User) ([]Label, error) {
	if u.Refresh > 0 {
		if e, ok := c.entries[u]; ok && c.clock.Since(e.at) < u.Refresh {
			return e.labels, nil
		}
	}

	if u.Draw == nil {
		return nil, nil
	}

	labels, err := u.Draw()
	if err != nil {
		return nil, err
	}

	if u.Refresh > 0 {
		c.entries[u] = entry{labels: labels, at: c.clock.Now()}
	}
	return labels, nil
}
