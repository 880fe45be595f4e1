package identity

import "sync"

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Listener receives the current identity; nil means signed out.
type Listener func(current *Identity)

type listenerEntry struct {
	id       int
	listener Listener
}

// Observable holds the process-wide current identity and fans changes out
// to subscribers.
type Observable struct {
	mu        sync.Mutex
	current   *Identity
	listeners []listenerEntry
	nextID    int
}

func NewObservable() *Observable {
	return &Observable{
		listeners: make([]listenerEntry, 0),
		nextID:    1,
	}
}

// Current returns a copy of the current identity, or nil when signed out.
func (o *Observable) Current() *Identity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyIdentity(o.current)
}

// Publish replaces the current identity. Listeners are only notified when
// the signed-in uid actually changes.
func (o *Observable) Publish(next *Identity) {
	o.mu.Lock()
	if sameUser(o.current, next) {
		o.current = copyIdentity(next)
		o.mu.Unlock()
		return
	}
	o.current = copyIdentity(next)
	listeners := make([]listenerEntry, len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	for _, entry := range listeners {
		entry.listener(copyIdentity(next))
	}
}

// Subscribe registers listener and calls it once with the current identity.
// The returned func unsubscribes.
func (o *Observable) Subscribe(listener Listener) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners = append(o.listeners, listenerEntry{id: id, listener: listener})
	current := copyIdentity(o.current)
	o.mu.Unlock()

	listener(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			for i, entry := range o.listeners {
				if entry.id == id {
					o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

func sameUser(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UID == b.UID
}

func copyIdentity(i *Identity) *Identity {
	if i == nil {
		return nil
	}
	out := *i
	return &out
}
