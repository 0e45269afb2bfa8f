/*
Package types defines the shared data model for the ranking board: raw feed
records, fused member and party entities, ranking snapshots, and the view
state pages carry across snapshot swaps.

Raw record types mirror the upstream feed schemas field-for-field (including
the HG_NM / POLY_NM naming of the score-ranking feeds) so that decoding stays
a plain unmarshal. Fused types keep one optional reference per source feed
plus an always-populated stats block; absence of a feed is represented by a
nil reference, never by a partially filled stats struct.

Types here have no behavior beyond Clone on Snapshot. All fusion, comparison,
and snapshot logic lives in the packages that consume these types.
*/
package types
