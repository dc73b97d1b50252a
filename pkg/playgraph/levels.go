package playgraph

import (
	"context"

	"github.com/dtnitsch/deepfield/pkg/db"
)

// NodeSource streams persisted nodes ordered by level.
type NodeSource interface {
	Nodes(ctx context.Context) (*db.NodeIterator, error)
}

// LevelIterator yields the persisted nodes one level at a time, lowest level
// first. No two nodes of one level are connected by a path.
type LevelIterator struct {
	nodes   *db.NodeIterator
	pending *db.PlayNode
	level   []db.PlayNode
	done    bool
}

func Levels(ctx context.Context, store NodeSource) (*LevelIterator, error) {
	nodes, err := store.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	return &LevelIterator{nodes: nodes}, nil
}

func (it *LevelIterator) Next() bool {
	if it.done {
		return false
	}
	it.level = nil
	if it.pending != nil {
		it.level = append(it.level, *it.pending)
		it.pending = nil
	}
	for it.nodes.Next() {
		n := it.nodes.Node()
		if len(it.level) > 0 && n.Level != it.level[0].Level {
			it.pending = &n
			return true
		}
		it.level = append(it.level, n)
	}
	it.done = true
	return it.nodes.Error() == nil && len(it.level) > 0
}

// Level returns the nodes latched by the last call to Next.
func (it *LevelIterator) Level() []db.PlayNode {
	return it.level
}

func (it *LevelIterator) Error() error {
	return it.nodes.Error()
}

func (it *LevelIterator) Close() error {
	return it.nodes.Close()
}
