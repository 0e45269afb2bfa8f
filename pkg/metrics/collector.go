package metrics

import (
	"time"

	"github.com/baekilha/baekilha/pkg/storage"
	"github.com/baekilha/baekilha/pkg/types"
)

// Collector periodically samples gauge metrics from the local cache
type Collector struct {
	store  storage.Store
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(store storage.Store) *Collector {
	return &Collector{
		store:  store,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectMemberMetrics()
	c.collectPartyMetrics()
}

func (c *Collector) collectMemberMetrics() {
	members, err := c.store.ListMembers()
	if err != nil {
		return
	}
	EntitiesFused.WithLabelValues(string(types.KindMember)).Set(float64(len(members)))
}

func (c *Collector) collectPartyMetrics() {
	parties, err := c.store.ListParties()
	if err != nil {
		return
	}
	EntitiesFused.WithLabelValues(string(types.KindParty)).Set(float64(len(parties)))
}
