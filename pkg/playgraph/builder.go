// Package playgraph builds the dependency graph of plays: a play depends on
// the previous play of its batter and the previous play of its pitcher.
package playgraph

import (
	"fmt"

	"github.com/dtnitsch/deepfield/pkg/db"
	"github.com/dtnitsch/deepfield/pkg/outcome"
)

type lastPlay struct {
	playID int64
	level  int // level the player's next play is at least at
}

// Builder assigns levels to plays fed to it in game order.
type Builder struct {
	last map[int64]lastPlay
}

func NewBuilder() *Builder {
	return &Builder{last: map[int64]lastPlay{}}
}

// Add consumes one play. It returns false for plays whose outcome does not
// classify; those leave the builder untouched.
func (b *Builder) Add(play db.PlayRef) (db.PlayNode, []db.PlayEdge, bool) {
	o, ok := outcome.FromDesc(play.Desc)
	if !ok {
		return db.PlayNode{}, nil, false
	}

	batter, hasBatter := b.last[play.BatterID]
	pitcher, hasPitcher := b.last[play.PitcherID]
	node := db.PlayNode{
		PlayID:  play.ID,
		Outcome: int(o),
		Level:   max(batter.level, pitcher.level),
	}

	var edges []db.PlayEdge
	if hasBatter {
		edges = append(edges, db.PlayEdge{From: batter.playID, To: play.ID})
	}
	// The batter and pitcher may have last met in the same play.
	if hasPitcher && !(hasBatter && pitcher.playID == batter.playID) {
		edges = append(edges, db.PlayEdge{From: pitcher.playID, To: play.ID})
	}

	next := lastPlay{playID: play.ID, level: node.Level + 1}
	b.last[play.BatterID] = next
	b.last[play.PitcherID] = next
	return node, edges, true
}

// PlaySource is a stream of plays in game order.
type PlaySource interface {
	Next() bool
	Play() db.PlayRef
	Error() error
}

// Build feeds every play of it to a new Builder and calls emit for each node.
func Build(it PlaySource, emit func(db.PlayNode, []db.PlayEdge) error) (*Summary, error) {
	b := NewBuilder()
	s := &Summary{}
	for it.Next() {
		node, edges, ok := b.Add(it.Play())
		if !ok {
			s.Excluded++
			continue
		}
		s.add(node, edges)
		if err := emit(node, edges); err != nil {
			return nil, err
		}
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("failed to read plays: %w", err)
	}
	return s, nil
}

// Summary describes a built graph.
type Summary struct {
	Nodes    int
	Edges    int
	Excluded int
	Levels   int
	Outcomes [outcome.Count]int
}

func (s *Summary) add(node db.PlayNode, edges []db.PlayEdge) {
	s.Nodes++
	s.Edges += len(edges)
	s.Outcomes[node.Outcome]++
	if node.Level+1 > s.Levels {
		s.Levels = node.Level + 1
	}
}

// Distribution returns the share of nodes per outcome.
func (s *Summary) Distribution() map[string]float64 {
	freq := outcome.Distribution(s.Outcomes)
	out := make(map[string]float64, len(freq))
	for i, f := range freq {
		out[outcome.Outcome(i).String()] = f
	}
	return out
}
