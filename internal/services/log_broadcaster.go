package services

import (
	"sync"
	"sync/atomic"
	"time"
)

const logChangeSubscriberBuffer = 64

const (
	LogChangeCreated = "created"
	LogChangeDeleted = "deleted"
)

type LogChange struct {
	Kind   string    `json:"kind"`
	Ref    string    `json:"ref"`
	UserID uint      `json:"-"`
	At     time.Time `json:"at"`
}

// logBroadcaster fans committed changes out to per-user subscribers. Sends never
// block: a subscriber whose buffer is full misses the change.
type logBroadcaster struct {
	mu          sync.RWMutex
	nextID      uint64
	subscribers map[uint]map[uint64]chan LogChange
	dropped     atomic.Int64
	onDrop      func()
}

func newLogBroadcaster(onDrop func()) *logBroadcaster {
	return &logBroadcaster{
		subscribers: make(map[uint]map[uint64]chan LogChange),
		onDrop:      onDrop,
	}
}

func (broadcaster *logBroadcaster) subscribe(userID uint) (<-chan LogChange, func()) {
	channel := make(chan LogChange, logChangeSubscriberBuffer)

	broadcaster.mu.Lock()
	broadcaster.nextID++
	id := broadcaster.nextID
	if broadcaster.subscribers[userID] == nil {
		broadcaster.subscribers[userID] = make(map[uint64]chan LogChange)
	}
	broadcaster.subscribers[userID][id] = channel
	broadcaster.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			broadcaster.mu.Lock()
			defer broadcaster.mu.Unlock()
			if userSubscribers, ok := broadcaster.subscribers[userID]; ok {
				delete(userSubscribers, id)
				if len(userSubscribers) == 0 {
					delete(broadcaster.subscribers, userID)
				}
			}
			close(channel)
		})
	}
	return channel, cancel
}

func (broadcaster *logBroadcaster) publish(change LogChange) {
	broadcaster.mu.RLock()
	defer broadcaster.mu.RUnlock()

	for _, channel := range broadcaster.subscribers[change.UserID] {
		select {
		case channel <- change:
		default:
			broadcaster.dropped.Add(1)
			if broadcaster.onDrop != nil {
				broadcaster.onDrop()
			}
		}
	}
}

func (broadcaster *logBroadcaster) droppedCount() int64 {
	return broadcaster.dropped.Load()
}
