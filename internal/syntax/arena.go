package syntax

import (
	"fmt"

	"fortio.org/safecast"
)

type arena struct {
	data []Node
}

func newArena(capHint uint) *arena {
	return &arena{
		data: make([]Node, 0, capHint),
	}
}

// Возвращает индекс нового элемента (1-based).
func (a *arena) allocate(value Node) NodeID {
	a.data = append(a.data, value)
	id, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return NodeID(id)
}

func (a *arena) get(id NodeID) *Node {
	if id == NoNode {
		return nil
	}
	return &a.data[id-1]
}

func (a *arena) len() int {
	return len(a.data)
}
