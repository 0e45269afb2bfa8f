/*
Package snapshot manages the authoritative ranking state of a page.

A page is always in one of two modes: original (ranking as served by the
feeds) or calculated (a recalculated ranking received from a weights page).
The Manager owns the active snapshot and performs the three transitions:

	Reload            feeds ──► original snapshot (reentrancy-guarded)
	ApplyCalculated   message ──► calculated snapshot (validated, re-ranked)
	ResetToOriginal   memory / cache / feeds ──► original snapshot

Every transition swaps the full snapshot under one lock, so a reader can
never see a list that mixes the two modes. Readers receive clones. Rapid
successive applies serialize on the same lock and the last writer wins,
matching the channel's last-write-wins semantics.

ApplyCalculated refuses empty distributions (ErrEmptyCalculated): a broken
sender must not blank the board. Reload refuses to stack concurrent loads
(ErrLoadInProgress); callers treat that as "already being handled".

The manager deliberately knows nothing about view state — search, filter,
sort, and pagination live in the page controller and survive swaps because
they are never part of the snapshot.
*/
package snapshot
