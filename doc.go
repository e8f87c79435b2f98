// Package coflux is a structured-concurrency runtime: every computation
// spawned as a Fork is transitively owned by the Task (or Fork) that spawned
// it, so a parent never completes before all of its descendants have, and
// cancelling a parent cooperatively cancels its entire subtree.
//
// A Task is the root of a computation tree; it is spawned with New and must
// eventually be Closed. From inside a running computation's body, Spawn
// starts an attached Fork, Await blocks for one to finish, and WhenAll,
// WhenAny and WhenN combine several at once. Dispatch and Sleep move work
// between executors without leaving the structured tree. Executors
// themselves — thread pools, timer threads, worker groups — live in the
// executor subpackage and are looked up through a Scheduler from the
// scheduler subpackage; an Environment binds a Scheduler (and, optionally, a
// custom Arena) to the Tasks spawned under it.
package coflux
