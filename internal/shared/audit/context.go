package audit

import "time"

// Context is an immutable snapshot of actor + timestamp for one logical
// operation. Every mutation in the same operation shares one timestamp.
type Context struct {
	actor     Actor
	timestamp time.Time
}

// NewContext reads the clock exactly once.
func NewContext(actor Actor, clock Clock) Context {
	return Context{actor: actor, timestamp: clock.Now()}
}

func (c Context) Actor() Actor {
	return c.actor
}

func (c Context) ActorUser() UserReference {
	return c.actor.user
}

func (c Context) Timestamp() time.Time {
	return c.timestamp
}
