/*
Package channel implements the cross-process notification channel that keeps
independently launched pages agreeing on the active ranking snapshot.

# Architecture

	┌──────────────────── NOTIFICATION CHANNEL ────────────────────┐
	│                                                              │
	│  Publish ──┬──► Multicast (ephemeral)  ──┐                   │
	│            │     UDP group, best-effort  │                   │
	│            │     delivery while running  │                   │
	│            │                             ├──► dedup by       │
	│            └──► FileStore (persistent) ──┤    Type+Timestamp │
	│                  atomic JSON state file  │        │          │
	│                  + fsnotify change event │        ▼          │
	│                                          │    Broker ──► Subscribers
	│  Reconcile ticker ───────────────────────┘                   │
	│    compares stored cursor vs persistent key                  │
	└──────────────────────────────────────────────────────────────┘

Two transports carry every data message. The multicast group delivers
instantly but only to pages alive at that moment; the state file delivers
late but always, because a page launched afterwards still reads it. The same
message arriving twice collapses on its Type+Timestamp key.

Message types: calculated_data_distribution and data_reset_to_original are
data messages (persisted); connection_check and connection_response are the
handshake (ephemeral only). A page receiving a check answers with its
current data mode.

# Failure behavior

Joining the multicast group can fail outright (no multicast support); the
channel then runs persistent-only. A send error triggers exactly one socket
re-creation after a short delay; a second failure degrades to
persistent-only for good. Malformed payloads (null, missing type, unknown
type) are counted and dropped. Publish never returns an error: sync is an
overlay and the page keeps rendering regardless.

The reconciliation ticker closes the remaining gap: if the persistent key
holds a data message this page never acted on — both transports missed it —
the message is replayed to subscribers. The cursor advances only when the
page Acks a message after applying it, so an update lost between receipt
and apply is still recovered.

Delivery guarantee: at-most-once per transport, exactly-once to subscribers
per dedup window, last-write-wins on conflicts.
*/
package channel
