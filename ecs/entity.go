package ecs

import "fmt"

// Entity is a generational handle. The zero Entity is never alive.
type Entity struct {
	ID  int
	Gen int
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.ID, e.Gen)
}

func (e Entity) Valid() bool {
	return e.ID > 0
}
