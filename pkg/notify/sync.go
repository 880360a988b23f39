package notify

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/inkwell-social/inkwell-cli/pkg/api"
	"github.com/inkwell-social/inkwell-cli/pkg/client"
	"github.com/inkwell-social/inkwell-cli/pkg/config"
	"github.com/inkwell-social/inkwell-cli/pkg/logger"
	"github.com/inkwell-social/inkwell-cli/pkg/push"
	json "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

// pushConn is the slice of push.Client the sync layer depends on
type pushConn interface {
	Connect(topic string, onEvent func([]byte)) error
	Disconnect()
	State() push.State
}

// Sync keeps one user's notification feed consistent between the REST
// snapshot and the push stream. Items are deduplicated by id because the
// snapshot fetch and the subscription can both deliver the same event during
// the startup race; neither ordering is guaranteed.
type Sync struct {
	mu     sync.Mutex
	items  []api.Notification
	seen   map[string]struct{}
	userID string
	conn   pushConn

	// gen tags in-flight work with the identity it was issued for; a
	// result whose tag no longer matches is discarded instead of
	// overwriting fresher state
	gen uint64

	limiter *rate.Limiter

	// onMerge, when set, observes each notification accepted into the feed
	onMerge func(api.Notification)

	// seams for tests
	fetch   func(ctx context.Context, userID string) ([]api.Notification, error)
	confirm func(ctx context.Context, id string) error
	newConn func() pushConn
}

// New creates a notification sync in the disconnected state
func New() *Sync {
	return &Sync{
		seen:    make(map[string]struct{}),
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		fetch:   api.GetNotifications,
		confirm: api.MarkNotificationRead,
		newConn: newPushConn,
	}
}

// newPushConn builds a push client against the configured broker endpoint,
// carrying the session cookie jar on the handshake
func newPushConn() pushConn {
	cfg := push.DefaultConfig()
	cfg.ReconnectDelay = time.Duration(config.GetInt("push.reconnect_delay")) * time.Second
	cfg.URL = pushURL()
	cfg.Jar = client.GetClient().GetClient().Jar
	return push.NewClient(cfg)
}

// pushURL derives the broker endpoint from the API base URL
func pushURL() string {
	base := config.GetString("api.base_url")
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + config.GetString("push.path")
	return u.String()
}

// OnMerge registers a hook invoked for every notification accepted into the
// feed, snapshot and push alike. Used by the watch command.
func (s *Sync) OnMerge(fn func(api.Notification)) {
	s.mu.Lock()
	s.onMerge = fn
	s.mu.Unlock()
}

// Initialize points the feed at userID: tears down any prior subscription,
// fetches the current snapshot, then opens the push subscription on the
// user's topic. An empty userID clears the feed and disconnects. Must be
// re-invoked whenever the active identity changes; a stale snapshot from a
// superseded call never overwrites the newer identity's items.
//
// Snapshot failure is logged and leaves the feed empty; it does not block
// the push subscription from starting.
func (s *Sync) Initialize(ctx context.Context, userID string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	prev := s.conn
	s.conn = nil
	s.userID = userID
	if userID == "" {
		s.items = nil
		s.seen = make(map[string]struct{})
	}
	s.mu.Unlock()

	// Old subscription closes before any new one opens, so two live
	// connections can never race on the same feed
	if prev != nil {
		prev.Disconnect()
	}

	if userID == "" {
		return
	}

	items, err := s.fetch(ctx, userID)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		logger.Debug("Discarding stale notification snapshot", "user_id", userID)
		return
	}

	if err != nil {
		logger.Warn("Notification snapshot fetch failed", "user_id", userID, "error", err)
		s.items = nil
		s.seen = make(map[string]struct{})
	} else {
		s.items = items
		s.seen = make(map[string]struct{}, len(items))
		for _, n := range items {
			s.seen[n.ID] = struct{}{}
		}
	}
	hook := s.onMerge
	conn := s.newConn()
	s.conn = conn
	s.mu.Unlock()

	if hook != nil {
		for i := len(items) - 1; i >= 0; i-- {
			hook(items[i])
		}
	}

	topic := "notifications." + userID
	if err := conn.Connect(topic, func(data []byte) {
		s.handleEvent(gen, data)
	}); err != nil {
		logger.Error("Push subscription failed to start", "topic", topic, "error", err)
	}
}

// handleEvent merges one pushed notification into the feed. Duplicates are
// discarded; new items are prepended, which is what keeps the feed
// newest-first (the server pushes in creation order, no re-sorting happens
// here). A missing read field defaults to unread.
func (s *Sync) handleEvent(gen uint64, data []byte) {
	var n api.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		logger.Error("Malformed notification payload", "error", err)
		return
	}
	if n.ID == "" {
		logger.Debug("Ignoring notification without id")
		return
	}

	s.mu.Lock()
	if gen != s.gen {
		// Event from a subscription belonging to a previous identity
		s.mu.Unlock()
		logger.Debug("Discarding notification for stale subscription", "id", n.ID)
		return
	}
	if _, dup := s.seen[n.ID]; dup {
		s.mu.Unlock()
		logger.Debug("Discarding duplicate notification", "id", n.ID)
		return
	}
	s.seen[n.ID] = struct{}{}
	s.items = append([]api.Notification{n}, s.items...)
	hook := s.onMerge
	s.mu.Unlock()

	if hook != nil {
		hook(n)
	}
}

// Teardown closes the subscription and clears the feed
func (s *Sync) Teardown() {
	s.Initialize(context.Background(), "")
}

// MarkAsRead optimistically marks one notification read, then confirms with
// the backend. Already-read items are a no-op. Confirmation failure is
// swallowed: the local read state stands (fire-and-forget, no rollback).
func (s *Sync) MarkAsRead(ctx context.Context, id string) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			if s.items[i].Read {
				s.mu.Unlock()
				return
			}
			s.items[i].Read = true
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return
	}

	if err := s.confirm(ctx, id); err != nil {
		logger.Warn("Mark-read confirm failed", "id", id, "error", err)
	}
}

// MarkAllAsRead confirms every currently-unread notification concurrently,
// waits for all confirms to settle, then marks them read locally. Partial
// confirm failure is swallowed; the local feed still reads as fully read.
func (s *Sync) MarkAllAsRead(ctx context.Context) {
	s.mu.Lock()
	unread := make([]string, 0, len(s.items))
	for _, n := range s.items {
		if !n.Read {
			unread = append(unread, n.ID)
		}
	}
	s.mu.Unlock()

	if len(unread) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, id := range unread {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.confirm(ctx, id); err != nil {
				logger.Warn("Mark-read confirm failed", "id", id, "error", err)
			}
		}(id)
	}
	wg.Wait()

	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.mu.Unlock()
}

// Refresh refetches the snapshot for the active user and merges it through
// the dedup path; safe to call any time since duplicate ids are discarded.
// Rate-limited so a watch loop cannot hammer the API. There is no catch-up
// protocol for events missed while disconnected beyond this manual path.
func (s *Sync) Refresh(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	gen := s.gen
	s.mu.Unlock()

	if userID == "" {
		return nil
	}
	if !s.limiter.Allow() {
		logger.Debug("Refresh rate-limited")
		return nil
	}

	items, err := s.fetch(ctx, userID)
	if err != nil {
		logger.Warn("Notification refresh failed", "user_id", userID, "error", err)
		return err
	}

	// Oldest-first so prepends land newest-first
	for i := len(items) - 1; i >= 0; i-- {
		data, err := json.Marshal(items[i])
		if err != nil {
			continue
		}
		s.handleEvent(gen, data)
	}
	return nil
}

// Items returns a copy of the feed, newest-first
func (s *Sync) Items() []api.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadCount returns the number of unread notifications
func (s *Sync) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// ConnectionState reports the push subscription state
func (s *Sync) ConnectionState() push.State {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return push.StateDisconnected
	}
	return conn.State()
}

// SubscriptionUserID returns the user id the subscription is scoped to, or
// empty when unauthenticated
func (s *Sync) SubscriptionUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}
