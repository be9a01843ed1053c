package style

import (
	"strings"
	"sync"
)

// Sheet is an ordered set of blocks keyed by ID. Applying a block whose ID
// is already present replaces it in place.
//
// Blocks added with Acquire are reference counted per owner: the block stays
// on the sheet until every owner that acquired it has released it.
type Sheet struct {
	mu     sync.RWMutex
	blocks []Block
	owners map[string]map[any]struct{}
}

// NewSheet returns an empty Sheet.
func NewSheet() *Sheet {
	return &Sheet{}
}

// Apply adds block, replacing any block with the same ID.
func (s *Sheet) Apply(block Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.blocks {
		if s.blocks[i].ID == block.ID {
			s.blocks[i] = block
			return
		}
	}
	s.blocks = append(s.blocks, block)
}

// Acquire applies block on behalf of owner. owner must be comparable.
func (s *Sheet) Acquire(owner any, block Block) {
	s.Apply(block)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owners == nil {
		s.owners = make(map[string]map[any]struct{})
	}
	if s.owners[block.ID] == nil {
		s.owners[block.ID] = make(map[any]struct{})
	}
	s.owners[block.ID][owner] = struct{}{}
}

// Release drops owner's hold on the block with id. The block is removed once
// no owner holds it; Release reports whether that happened.
func (s *Sheet) Release(owner any, id string) bool {
	s.mu.Lock()
	holders, ok := s.owners[id]
	if ok {
		delete(holders, owner)
		if len(holders) > 0 {
			s.mu.Unlock()
			return false
		}
		delete(s.owners, id)
	}
	s.mu.Unlock()
	return s.Remove(id)
}

// Remove drops the block with id and reports whether it existed. Owners
// holding the block are forgotten.
func (s *Sheet) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.owners, id)
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the block with id.
func (s *Sheet) Get(id string) (Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, block := range s.blocks {
		if block.ID == id {
			return block, true
		}
	}
	return Block{}, false
}

// Blocks returns the blocks in insertion order.
func (s *Sheet) Blocks() []Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// CSS concatenates every block, one per line.
func (s *Sheet) CSS() string {
	blocks := s.Blocks()
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if css := block.CSS(); css != "" {
			parts = append(parts, css)
		}
	}
	return strings.Join(parts, "\n")
}
