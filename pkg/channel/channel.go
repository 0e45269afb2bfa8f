package channel

import (
	"sync"
	"time"

	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/baekilha/baekilha/pkg/storage"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// recreateDelay is the pause before the single multicast re-creation
	// attempt after a send error.
	recreateDelay = 500 * time.Millisecond

	// seenLimit caps the dedup cache.
	seenLimit = 1024
)

// Options configures a Channel.
type Options struct {
	// PageID identifies this process on the wire. Random when empty.
	PageID string

	// MulticastGroup enables the ephemeral transport. Empty disables it.
	MulticastGroup string

	// DataDir locates the shared state file of the persistent transport.
	DataDir string

	// Store, when set, persists the reconciliation cursor.
	Store storage.Store

	// ReconcileInterval is the period of the reconciliation loop.
	// Zero disables it.
	ReconcileInterval time.Duration

	// Mode reports the page's current data mode for handshake responses.
	Mode func() types.DataMode
}

// Channel is the cross-process notification channel: dual transport
// (ephemeral multicast + persistent state file), dedup across transports,
// handshake, and periodic reconciliation. Delivery is at-most-once and
// best-effort; the persistent transport plus reconciliation covers the
// gaps the ephemeral one drops.
type Channel struct {
	pageID    string
	broker    *Broker
	filestore *FileStore
	store     storage.Store
	mode      func() types.DataMode
	group     string
	interval  time.Duration
	logger    zerolog.Logger

	mu        sync.Mutex
	multicast *Multicast // nil when degraded to persistent-only
	seen      map[string]struct{}
	seenOrder []string

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New builds a channel. The persistent transport is mandatory; failure to
// join the multicast group degrades to persistent-only instead of failing.
func New(opts Options) (*Channel, error) {
	if opts.PageID == "" {
		opts.PageID = uuid.NewString()
	}
	if opts.Mode == nil {
		opts.Mode = func() types.DataMode { return types.ModeOriginal }
	}

	logger := log.WithComponent("channel")

	fs, err := NewFileStore(opts.DataDir)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		pageID:    opts.PageID,
		broker:    NewBroker(),
		filestore: fs,
		store:     opts.Store,
		mode:      opts.Mode,
		group:     opts.MulticastGroup,
		interval:  opts.ReconcileInterval,
		logger:    logger,
		seen:      make(map[string]struct{}),
		stopCh:    make(chan struct{}),
	}

	if opts.MulticastGroup != "" {
		mc, err := NewMulticast(opts.MulticastGroup)
		if err != nil {
			// Ephemeral construction failure is survivable: the state
			// file still carries every data message.
			logger.Warn().Err(err).Msg("multicast unavailable, persistent-only mode")
			metrics.UpdateComponent("channel", true, "persistent-only")
		} else {
			c.multicast = mc
		}
	}

	return c, nil
}

// PageID returns this channel's sender id.
func (c *Channel) PageID() string { return c.pageID }

// Start launches the broker, receive loops, and the reconciliation ticker.
func (c *Channel) Start() {
	c.broker.Start()
	metrics.RegisterComponent("channel", true, "")

	c.mu.Lock()
	mc := c.multicast
	c.mu.Unlock()
	if mc != nil {
		c.wg.Add(1)
		go c.receiveLoop(mc.Receive())
	}

	c.wg.Add(1)
	go c.receiveLoop(c.filestore.Receive())

	if c.interval > 0 {
		c.wg.Add(1)
		go c.reconcileLoop()
	}
}

// Stop shuts down transports and the broker.
func (c *Channel) Stop() {
	close(c.stopCh)

	c.mu.Lock()
	mc := c.multicast
	c.multicast = nil
	c.mu.Unlock()
	if mc != nil {
		mc.Close()
	}
	c.filestore.Close()

	c.wg.Wait()
	c.broker.Stop()
}

// Subscribe returns a stream of deduplicated messages from other pages.
func (c *Channel) Subscribe() Subscriber {
	return c.broker.Subscribe()
}

// Unsubscribe removes a subscription.
func (c *Channel) Unsubscribe(sub Subscriber) {
	c.broker.Unsubscribe(sub)
}

// Publish sends a message over every available transport. Data messages go
// to both (the state file makes them survive restarts); handshake messages
// are ephemeral-only. Errors degrade transports but never propagate: sync
// is an overlay on a page that must keep rendering.
func (c *Channel) Publish(msg *Message) {
	if msg.SenderID == "" {
		msg.SenderID = c.pageID
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	// Never re-deliver our own message when it echoes back.
	c.markSeen(msg.Key())

	c.sendEphemeral(msg)

	if msg.IsData() {
		if err := c.filestore.Set(msg); err != nil {
			c.logger.Error().Err(err).Msg("failed to persist message")
			metrics.TransportErrors.WithLabelValues(c.filestore.Name()).Inc()
		} else {
			metrics.MessagesPublished.WithLabelValues(msg.Type, c.filestore.Name()).Inc()
		}
		c.saveCursor(msg)
	}
}

// sendEphemeral sends over multicast with the one-retry recovery dance: on
// error, rebuild the socket once after a short delay and try again; a second
// failure degrades the channel to persistent-only.
func (c *Channel) sendEphemeral(msg *Message) {
	c.mu.Lock()
	mc := c.multicast
	c.mu.Unlock()
	if mc == nil {
		return
	}

	err := mc.Send(msg)
	if err == nil {
		metrics.MessagesPublished.WithLabelValues(msg.Type, mc.Name()).Inc()
		return
	}
	c.logger.Warn().Err(err).Msg("multicast send failed, recreating socket")

	mc.Close()
	time.Sleep(recreateDelay)

	fresh, err := NewMulticast(c.group)
	if err == nil {
		if sendErr := fresh.Send(msg); sendErr == nil {
			metrics.MessagesPublished.WithLabelValues(msg.Type, fresh.Name()).Inc()
		} else {
			err = sendErr
		}
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("multicast recovery failed, persistent-only mode")
		metrics.UpdateComponent("channel", true, "persistent-only")
		if fresh != nil {
			fresh.Close()
			fresh = nil
		}
	}

	c.mu.Lock()
	c.multicast = fresh
	c.mu.Unlock()
	if fresh != nil {
		c.wg.Add(1)
		go c.receiveLoop(fresh.Receive())
	}
}

func (c *Channel) receiveLoop(in <-chan *Message) {
	defer c.wg.Done()
	for {
		select {
		case <-c.stopCh:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			c.handleIncoming(msg)
		}
	}
}

func (c *Channel) handleIncoming(msg *Message) {
	if msg.SenderID == c.pageID {
		return
	}
	if c.alreadySeen(msg.Key()) {
		metrics.MessagesDeduped.Inc()
		return
	}

	if msg.Type == TypeConnectionCheck {
		c.respondToCheck()
		// Checks are also delivered so pages can count peers.
	}

	// Data messages move the reconciliation cursor only when the page Acks
	// them after a successful apply, not on receipt.
	c.broker.Publish(msg)
}

// Ack records that this page acted on a data message. The reconciliation
// cursor moves only here, so an update lost between receipt and apply is
// still recovered after a restart.
func (c *Channel) Ack(msg *Message) {
	c.saveCursor(msg)
}

// respondToCheck answers a peer's connection_check with this page's mode.
func (c *Channel) respondToCheck() {
	resp := NewMessage(TypeConnectionResponse, c.pageID)
	resp.Status = "connected"
	resp.DataMode = c.mode()
	c.markSeen(resp.Key())
	c.sendEphemeral(resp)
}

// CheckPeers broadcasts a connection_check; responses arrive on Subscribe.
func (c *Channel) CheckPeers() {
	c.Publish(NewMessage(TypeConnectionCheck, c.pageID))
}

func (c *Channel) reconcileLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.reconcile()
		}
	}
}

// reconcile compares the persistent key against the last message this page
// acted on; a mismatch means both transports were missed (page launched
// between events, dropped datagram plus a lost watch event) and the stored
// message is replayed.
func (c *Channel) reconcile() {
	metrics.ReconcileCycles.Inc()

	msg, err := c.filestore.Get()
	if err != nil || msg == nil {
		return
	}
	if msg.SenderID == c.pageID {
		return
	}

	if c.store != nil {
		cursor, err := c.store.GetCursor()
		if err == nil && cursor.MessageType == msg.Type && cursor.Timestamp == msg.Timestamp {
			return
		}
	}
	if c.alreadySeen(msg.Key()) {
		return
	}

	c.logger.Info().
		Str("type", msg.Type).
		Int64("timestamp", msg.Timestamp).
		Msg("reconciliation recovered a missed update")
	metrics.ReconcileCorrections.Inc()

	c.broker.Publish(msg)
}

func (c *Channel) saveCursor(msg *Message) {
	if c.store == nil || !msg.IsData() {
		return
	}
	cursor := &storage.Cursor{
		MessageType: msg.Type,
		Timestamp:   msg.Timestamp,
		SenderID:    msg.SenderID,
	}
	if err := c.store.SaveCursor(cursor); err != nil {
		c.logger.Warn().Err(err).Msg("failed to save sync cursor")
	}
}

// markSeen records a dedup key, evicting the oldest entry past the cap, and
// reports whether the key was new. Check and mark are one critical section so
// the same message racing in on both receive loops dedups to one delivery.
func (c *Channel) markSeen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = struct{}{}
	c.seenOrder = append(c.seenOrder, key)
	if len(c.seenOrder) > seenLimit {
		oldest := c.seenOrder[0]
		c.seenOrder = c.seenOrder[1:]
		delete(c.seen, oldest)
	}
	return true
}

func (c *Channel) alreadySeen(key string) bool {
	return !c.markSeen(key)
}
