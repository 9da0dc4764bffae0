package syntax

// NodeID identifies a node within one Tree's arena.
type NodeID uint32

// NoNode — нулевой ID, "нет узла".
const NoNode NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNode }
