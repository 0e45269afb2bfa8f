/*
Package feeds is the HTTP data-access layer for the upstream assembly API.

One Client serves all nine feeds: six member feeds (roster, performance, bill
counts, score ranking, photos, committee seats) and three party feeds
(performance, score ranking, stats). Every method takes a context, retries
transient failures with linear backoff, and rate-limits requests against the
shared public API.

# Defensive Parsing

The upstream feeds are not entirely well behaved: rows can be null, fields can
be missing, and some deployments wrap the record list in a {"data": [...]}
envelope. decodeRecords tolerates all of that — a malformed row is dropped
(and counted in the logs), never propagated as an error. A feed call fails
only when the transport fails or the body is not a record list at all.

Callers treat a failed feed as an absent data source: fusion substitutes
documented defaults, so a single dead feed degrades stats without taking the
page down.
*/
package feeds
