package channel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// StateKey is the well-known key data messages are stored under.
const StateKey = "client_weight_updates"

const stateFileName = "sync_state.json"

// FileStore is the persistent transport: a shared JSON state file in the
// data directory, written atomically and observed via fsnotify. Unlike the
// multicast transport it survives process restarts — a page launched later
// still sees the last data message. Last write wins.
type FileStore struct {
	path    string
	watcher *fsnotify.Watcher
	recvCh  chan *Message
	stopCh  chan struct{}
	logger  zerolog.Logger

	mu       sync.Mutex
	lastSeen string // dedup key of the last message emitted from the file
}

// NewFileStore opens the state file transport over dataDir.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory, not the file: atomic rename replaces the inode.
	if err := watcher.Add(dataDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch data dir: %w", err)
	}

	f := &FileStore{
		path:    filepath.Join(dataDir, stateFileName),
		watcher: watcher,
		recvCh:  make(chan *Message, 100),
		stopCh:  make(chan struct{}),
		logger:  log.WithComponent("filestore"),
	}

	// Seed lastSeen with whatever is already on disk so startup does not
	// replay an old message as if it just arrived.
	if msg, err := f.Get(); err == nil && msg != nil {
		f.lastSeen = msg.Key()
	}

	go f.watchLoop()
	return f, nil
}

// Name identifies the transport in logs and metrics.
func (f *FileStore) Name() string { return "filestore" }

// Set stores a data message under the well-known key. The file is written
// whole to a temp file and renamed into place, so concurrent readers see
// either the old state or the new one, never a torn write.
func (f *FileStore) Set(msg *Message) error {
	state, err := f.readState()
	if err != nil {
		return err
	}
	state[StateKey] = msg

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), stateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	f.mu.Lock()
	f.lastSeen = msg.Key()
	f.mu.Unlock()
	return nil
}

// Get returns the message under the well-known key, or nil when nothing has
// been stored yet. A corrupt state file reads as empty: the transport always
// degrades to "no pending message", never to an error a page would surface.
func (f *FileStore) Get() (*Message, error) {
	state, err := f.readState()
	if err != nil {
		return nil, err
	}
	return state[StateKey], nil
}

// Receive returns messages observed in the state file. The channel closes on
// Close.
func (f *FileStore) Receive() <-chan *Message {
	return f.recvCh
}

// Close stops the watcher.
func (f *FileStore) Close() error {
	close(f.stopCh)
	return f.watcher.Close()
}

func (f *FileStore) readState() (map[string]*Message, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*Message), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state map[string]*Message
	if err := json.Unmarshal(data, &state); err != nil {
		f.logger.Warn().Err(err).Msg("corrupt state file, treating as empty")
		return make(map[string]*Message), nil
	}
	if state == nil {
		state = make(map[string]*Message)
	}
	return state, nil
}

func (f *FileStore) watchLoop() {
	defer close(f.recvCh)

	for {
		select {
		case <-f.stopCh:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != stateFileName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			f.emitChanged()
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn().Err(err).Msg("watch error")
			metrics.TransportErrors.WithLabelValues(f.Name()).Inc()
		}
	}
}

// emitChanged reads the state file and emits the stored message if it is one
// we have not seen yet.
func (f *FileStore) emitChanged() {
	msg, err := f.Get()
	if err != nil || msg == nil {
		return
	}

	f.mu.Lock()
	if msg.Key() == f.lastSeen {
		f.mu.Unlock()
		return
	}
	f.lastSeen = msg.Key()
	f.mu.Unlock()

	metrics.MessagesReceived.WithLabelValues(msg.Type, f.Name()).Inc()
	select {
	case f.recvCh <- msg:
	default:
		metrics.MessagesDropped.WithLabelValues("buffer_full").Inc()
	}
}
