package telegram

import (
	"fmt"
	"sync"

	"nutrition-advisor/internal/meal"
)

const maxPendingEstimates = 100

// pendingEstimates holds the estimates shown with an "Add to menu" button,
// keyed by the message that carries the button.
type pendingEstimates struct {
	mu    sync.Mutex
	recs  map[string]meal.Record
	order []string
}

func newPendingEstimates() *pendingEstimates {
	return &pendingEstimates{recs: make(map[string]meal.Record)}
}

func pendingKey(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

// put stores rec, evicting the oldest entry once the limit is reached.
func (p *pendingEstimates) put(chatID int64, messageID int, rec meal.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := pendingKey(chatID, messageID)
	if _, ok := p.recs[key]; !ok {
		p.order = append(p.order, key)
	}
	p.recs[key] = rec

	for len(p.order) > maxPendingEstimates {
		delete(p.recs, p.order[0])
		p.order = p.order[1:]
	}
}

// take removes and returns the estimate attached to a message.
func (p *pendingEstimates) take(chatID int64, messageID int) (meal.Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := pendingKey(chatID, messageID)
	rec, ok := p.recs[key]
	if !ok {
		return meal.Record{}, false
	}
	delete(p.recs, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return rec, true
}
