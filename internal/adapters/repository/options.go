package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxGames bounds how many game records are retained. When the bound is
// reached the oldest record is dropped; standings are unaffected. Values
// <= 0 keep every game.
func WithMaxGames(n int) Option {
	return func(s *MemoryStore) {
		s.maxGames = n
	}
}

// WithMaxLimit caps the limit accepted by Standings.
func WithMaxLimit(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}
