/*
Package poetry builds a first-order, word-level Markov chain over a
tokenized text corpus and generates pseudo-random poems by random walk.

Transitions are stored in a custom open-addressed hash table using
triangular-number quadratic probing, built once per corpus by a
ChainBuilder and optionally persisted to a binary cache file between runs
by a PersistenceCache. The Generator performs the stochastic walk with a
bounded anti-repetition heuristic.
*/
package poetry
