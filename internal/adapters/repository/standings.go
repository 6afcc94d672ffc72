package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/types"
	"github.com/okian/hoopsim/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: win share DESC, point differential DESC, team id ASC.
// "less" means ranks earlier, so an in-order traversal yields the table
// from first place to last.

// defaultMaxLimit caps Standings when WithMaxLimit is not given.
const defaultMaxLimit = 100

// tally is one team's accumulated record.
type tally struct {
	id      string
	name    string
	games   int
	wins    int
	losses  int
	ties    int
	pointsF int
	pointsA int
}

// halfWins counts a tie as half a win, doubled to stay integral.
func (t tally) halfWins() int { return 2*t.wins + t.ties }

func (t tally) diff() int { return t.pointsF - t.pointsA }

func (t tally) standing(rank int) types.Standing {
	s := types.Standing{
		Rank:          rank,
		TeamID:        t.id,
		Name:          t.name,
		Games:         t.games,
		Wins:          t.wins,
		Losses:        t.losses,
		Ties:          t.ties,
		PointsFor:     t.pointsF,
		PointsAgainst: t.pointsA,
		PointDiff:     t.diff(),
	}
	if t.games > 0 {
		s.WinShare = float64(t.halfWins()) / float64(2*t.games)
	}
	return s
}

// less reports whether a ranks ahead of b. Win shares are compared by
// cross-multiplication so no rounding enters the order.
func less(a, b tally) bool {
	l, r := a.halfWins()*b.games, b.halfWins()*a.games
	if l != r {
		return l > r
	}
	if a.diff() != b.diff() {
		return a.diff() > b.diff()
	}
	return a.id < b.id
}

// treap node
type node struct {
	key   tally
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, k tally) *node {
	if n == nil {
		return &node{key: k, prio: rand.Uint64(), size: 1}
	}
	if less(k, n.key) {
		n.left = insert(n.left, k)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, k)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// deleteNode removes the node holding k. k must be the exact tally the
// node was inserted with, otherwise the search path diverges.
func deleteNode(n *node, k tally) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.key.id == k.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, k)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, k)
		}
	case less(k, n.key):
		n.left = deleteNode(n.left, k)
	default:
		n.right = deleteNode(n.right, k)
	}
	fix(n)
	return n
}

// rankOf returns the 1-based position of k, or 0 when absent.
func rankOf(n *node, k tally) int {
	ahead := 0
	for n != nil {
		switch {
		case n.key.id == k.id:
			return ahead + nsize(n.left) + 1
		case less(k, n.key):
			n = n.left
		default:
			ahead += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collectTopN appends up to limit rows in table order.
func collectTopN(n *node, limit int, out *[]types.Standing) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.key.standing(len(*out)+1))
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	root     *node
	teams    map[string]tally
	games    map[string]model.GameRecord
	order    []string
	maxGames int
	maxLimit int
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		teams:    make(map[string]tally),
		games:    make(map[string]model.GameRecord),
		maxLimit: defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateStandingsTeams(0)
	return s
}

// SaveGame implements Store.SaveGame in O(log n) expected time.
func (s *MemoryStore) SaveGame(_ context.Context, rec model.GameRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordStandingsUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if rec.ID == "" {
		metrics.RecordErrorByComponent("repository", "invalid_record")
		return fmt.Errorf("%w: game id is empty", ErrInvalidRecord)
	}
	home, away := rec.Result.Home, rec.Result.Away

	s.mu.Lock()
	if _, ok := s.games[rec.ID]; ok {
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "duplicate")
		return fmt.Errorf("%w: game %s", ErrDuplicate, rec.ID)
	}
	s.games[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	if s.maxGames > 0 && len(s.order) > s.maxGames {
		delete(s.games, s.order[0])
		s.order = s.order[1:]
	}
	s.apply(home.ID, home.Name, home.Score, away.Score)
	s.apply(away.ID, away.Name, away.Score, home.Score)
	teams := len(s.teams)
	s.mu.Unlock()

	metrics.UpdateStandingsTeams(teams)
	return nil
}

// apply folds one side of a game into its tally. Callers hold mu.
func (s *MemoryStore) apply(id, name string, pointsFor, pointsAgainst int) {
	t, ok := s.teams[id]
	if ok {
		s.root = deleteNode(s.root, t)
	}
	t.id, t.name = id, name
	t.games++
	t.pointsF += pointsFor
	t.pointsA += pointsAgainst
	switch {
	case pointsFor > pointsAgainst:
		t.wins++
	case pointsFor < pointsAgainst:
		t.losses++
	default:
		t.ties++
	}
	s.teams[id] = t
	s.root = insert(s.root, t)
}

// Game implements Store.Game.
func (s *MemoryStore) Game(_ context.Context, id string) (model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.games[id]
	if !ok {
		return model.GameRecord{}, fmt.Errorf("%w: game %s", ErrNotFound, id)
	}
	return rec, nil
}

// Standings implements Store.Standings. Limits above the configured maximum
// are clamped.
func (s *MemoryStore) Standings(_ context.Context, limit int) ([]types.Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStandingsQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if limit < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	limit = min(limit, s.maxLimit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Standing, 0, min(limit, len(s.teams)))
	collectTopN(s.root, limit, &out)
	return out, nil
}

// Standing implements Store.Standing in O(log n) expected time.
func (s *MemoryStore) Standing(_ context.Context, teamID string) (types.Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStandingsQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Standing{}, fmt.Errorf("%w: team %s has no games", ErrNotFound, teamID)
	}
	return t.standing(rankOf(s.root, t)), nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}

// GameCount returns how many game records are retained.
func (s *MemoryStore) GameCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
