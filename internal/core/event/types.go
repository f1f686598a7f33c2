package event

// Pool lifecycle notifications. Templates are carried by name so subscribers
// never hold a template reference past the pool's lifetime.

type PoolCreated struct {
	Template string
	Category string
}

type PoolCleared struct {
	Template  string
	Category  string
	Destroyed int
}
