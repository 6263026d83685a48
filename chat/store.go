// Package chat keeps a locally mutated, append-only view of the remote
// conversation consistent under optimistic sends, concurrent completions and
// backward pagination.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/valeriapadilla/ChatBot-Ecommerce/api"
)

// TokenSource supplies the bearer token gating every remote operation. The
// identity session implements it; tests substitute a fake.
type TokenSource interface {
	Token() (string, bool)
}

// Options tune page sizes and the send context window. Zero values fall back
// to the defaults the backend expects.
type Options struct {
	HistoryPageSize int // newest page, default 50
	OlderPageSize   int // backward pagination page, default 20
	ContextWindow   int // messages sent alongside a new message, default 5
}

// Store owns the ordered message log for one chat surface. One instance per
// surface; the log is never shared or persisted.
type Store struct {
	mu     sync.Mutex
	client *api.Client
	tokens TokenSource
	opts   Options

	msgs    []Message
	offset  int  // cumulative count of loaded messages, pagination cursor
	hasMore bool // whether older pages remain server-side

	loading     bool // initial history load in flight
	loadingMore bool // backward pagination in flight, at most one
	sending     bool

	// Send supersession: each send captures the generation at start and
	// applies its result only if the generation still matches.
	sendGen    int
	sendCancel context.CancelFunc

	lastErr string // transient user-facing error, cleared on success
}

func NewStore(client *api.Client, tokens TokenSource, opts Options) *Store {
	if opts.HistoryPageSize <= 0 {
		opts.HistoryPageSize = 50
	}
	if opts.OlderPageSize <= 0 {
		opts.OlderPageSize = 20
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = 5
	}
	return &Store{
		client:  client,
		tokens:  tokens,
		opts:    opts,
		hasMore: true,
	}
}

type historyResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

type sendRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

type sendResponse struct {
	Response string `json:"response"`
}

// LoadHistory fetches the newest page and replaces the whole local log.
// Calling it repeatedly with no intervening sends reproduces the same state.
func (s *Store) LoadHistory(ctx context.Context) error {
	token, ok := s.tokens.Token()
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	limit := s.opts.HistoryPageSize
	s.mu.Unlock()

	var resp historyResponse
	err := s.client.Get(ctx, historyPath(limit, 0), token, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOf(err)
		return err
	}

	s.msgs = append([]Message(nil), resp.Messages...)
	s.offset = len(resp.Messages)
	s.hasMore = resp.Total > len(resp.Messages)
	return nil
}

// LoadMore fetches the next older page and prepends it, keeping chronological
// order. It is a no-op while another load is in flight, when no more pages
// exist, or when unauthenticated.
func (s *Store) LoadMore(ctx context.Context) error {
	token, ok := s.tokens.Token()
	if !ok {
		return nil
	}

	s.mu.Lock()
	if !s.hasMore || s.loadingMore || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loadingMore = true
	s.lastErr = ""
	offset := s.offset
	limit := s.opts.OlderPageSize
	s.mu.Unlock()

	var resp historyResponse
	err := s.client.Get(ctx, historyPath(limit, offset), token, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingMore = false
	if err != nil {
		s.lastErr = api.MessageOf(err)
		return err
	}

	s.msgs = append(append([]Message(nil), resp.Messages...), s.msgs...)
	s.offset += len(resp.Messages)
	s.hasMore = resp.Total > s.offset
	return nil
}

// Send appends an optimistic user message, posts it with a short context
// window, and reconciles on completion: promote in place and append the
// assistant reply on success, roll the provisional back on failure.
//
// Starting a new send cancels any in-flight one; a superseded send's late
// completion is discarded. After Send settles, no provisional message for
// this call remains in the log either way.
func (s *Store) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	token, ok := s.tokens.Token()
	if !ok {
		return nil
	}

	s.mu.Lock()
	if s.sendCancel != nil {
		s.sendCancel()
	}
	s.sendGen++
	gen := s.sendGen

	sendCtx, cancel := context.WithCancel(ctx)
	s.sendCancel = cancel

	window := contextWindow(s.msgs, s.opts.ContextWindow)
	provisional := newProvisional(text)
	s.msgs = append(s.msgs, provisional)
	s.sending = true
	s.lastErr = ""
	s.mu.Unlock()

	var resp sendResponse
	err := s.client.Post(sendCtx, api.RouteChatSend, token, sendRequest{Message: text, Context: window}, &resp)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.sendGen {
		s.sending = false
		s.sendCancel = nil
	}

	if err != nil {
		s.remove(provisional.ID)
		// A superseded send is not a failure; no error surfaces
		if !api.IsCancelled(err) && gen == s.sendGen {
			s.lastErr = api.MessageOf(err)
		}
		return err
	}

	if gen != s.sendGen {
		// Completed after being superseded; the result is stale
		s.remove(provisional.ID)
		return nil
	}

	// A full reload may have raced the send and replaced the log; in that
	// case the provisional is gone and the reply is dropped rather than
	// appended unpaired.
	if s.promote(provisional.ID) {
		s.msgs = append(s.msgs, newAssistant(resp.Response))
	}
	return nil
}

// Clear empties the remote conversation, then the local log. Clearing is not
// optimistic: a failed remote clear leaves the local log untouched.
func (s *Store) Clear(ctx context.Context) error {
	token, ok := s.tokens.Token()
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	var resp struct {
		Message string `json:"message"`
	}
	err := s.client.Post(ctx, api.RouteChatClear, token, map[string]string{}, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = api.MessageOf(err)
		return err
	}

	s.msgs = nil
	s.offset = 0
	s.hasMore = true
	return nil
}

// Messages returns a copy of the ordered log.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.msgs...)
}

// HasMore reports whether older pages remain.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Offset returns the pagination cursor: the cumulative loaded message count.
func (s *Store) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// Sending reports whether a send is in flight.
func (s *Store) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Loading reports whether a history load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading || s.loadingMore
}

// Err returns the transient error message from the last failed operation,
// empty after a success.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// remove deletes the message with the given id, if present. Caller holds s.mu.
func (s *Store) remove(id string) {
	for i, m := range s.msgs {
		if m.ID == id {
			s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
			return
		}
	}
}

// promote replaces the provisional message with its finalized version at the
// same position. Returns false when the provisional is no longer in the log.
// Caller holds s.mu.
func (s *Store) promote(id string) bool {
	for i, m := range s.msgs {
		if m.ID == id {
			s.msgs[i] = confirmed(m)
			return true
		}
	}
	return false
}

// contextWindow renders the most recent messages as role-prefixed lines so
// the assistant keeps short-term context across requests.
func contextWindow(msgs []Message, n int) string {
	if len(msgs) == 0 {
		return ""
	}
	start := len(msgs) - n
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, n)
	for _, m := range msgs[start:] {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

func historyPath(limit, offset int) string {
	return fmt.Sprintf("%s?limit=%d&offset=%d", api.RouteChatHistory, limit, offset)
}
