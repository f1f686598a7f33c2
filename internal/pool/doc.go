// Package pool reuses whole simulation entities across spawn/despawn cycles.
//
// A Manager owns one Lifecycle pool per template, created lazily on the first
// spawn of that template. Instances move between active (handed to a caller)
// and inactive (parked on the pool's free stack); they are destroyed only when
// their pool is cleared or when a release would push the pool past its idle
// cap. The Manager never creates or destroys entities itself: a Factory does,
// and a Host provides hierarchy and capability access.
//
// Everything here runs on the game loop goroutine. No type in this package is
// safe for concurrent use.
package pool
