package storage

import (
	"errors"

	"github.com/baekilha/baekilha/pkg/types"
)

// ErrNotFound is returned when a requested key has no stored value.
var ErrNotFound = errors.New("not found")

// Store defines the interface for the page-local cache.
// Implemented by BoltDB-backed storage; each page process owns its own file.
type Store interface {
	// Members
	SaveMember(member *types.Member) error
	GetMemberByName(name string) (*types.Member, error)
	ListMembers() ([]*types.Member, error)
	ReplaceMembers(members []*types.Member) error

	// Parties
	SaveParty(party *types.Party) error
	GetPartyByName(name string) (*types.Party, error)
	ListParties() ([]*types.Party, error)
	ReplaceParties(parties []*types.Party) error

	// Snapshots (cached original per entity kind, for reset without refetch)
	SaveOriginalSnapshot(snap *types.Snapshot) error
	GetOriginalSnapshot(kind types.EntityKind) (*types.Snapshot, error)

	// View state (per page kind, survives restarts)
	SaveViewState(page string, state *types.ViewState) error
	GetViewState(page string) (*types.ViewState, error)

	// Sync cursor (last message this page acted on, for reconciliation)
	SaveCursor(cursor *Cursor) error
	GetCursor() (*Cursor, error)

	// Utility
	Close() error
}

// Cursor records the last notification a page acted on. The reconciliation
// loop compares it against the persistent transport's current value.
type Cursor struct {
	MessageType string `json:"message_type"`
	Timestamp   int64  `json:"timestamp"`
	SenderID    string `json:"sender_id,omitempty"`
}
