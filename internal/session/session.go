package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/benbjohnson/clock"
	"github.com/user/site-cloner/internal/client"
	"github.com/user/site-cloner/internal/preview"
	"github.com/user/site-cloner/pkg/utils"
)

// CopiedResetDelay is how long the copied flag stays set after a copy.
const CopiedResetDelay = 2 * time.Second

var (
	ErrInvalidURL     = errors.New("Please enter a full and valid URL (e.g., https://example.com).")
	ErrNothingToCopy  = errors.New("no clone result to copy")
	errUnknownFailure = &client.TransportError{}
)

type ViewMode string

const (
	ViewPreview ViewMode = "preview"
	ViewCode    ViewMode = "code"
)

// State is a point-in-time copy of a session for rendering.
type State struct {
	Draft    string
	Result   string // generated HTML, empty until a clone succeeds
	ResultID string
	Err      string // user-facing message, empty when there is none
	View     ViewMode
	Device   preview.Device
	Busy     bool
	Copied   bool
}

// Attempt identifies one submission. Only the latest attempt may resolve.
type Attempt struct {
	ID  uint64
	URL string
}

// Cloner is the backend the session submits to.
type Cloner interface {
	Clone(ctx context.Context, url string) (*client.Response, error)
}

// Clipboard receives copied HTML.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Session holds the state of one clone form. It is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	state      State
	attempt    uint64
	copyToken  uint64
	resetTimer *clock.Timer

	cloner    Cloner
	clipboard Clipboard
	clock     clock.Clock
}

type Option func(*Session)

func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithClipboard(c Clipboard) Option {
	return func(s *Session) { s.clipboard = c }
}

func New(cloner Cloner, opts ...Option) *Session {
	s := &Session{
		state: State{
			View:   ViewPreview,
			Device: preview.DeviceDesktop,
		},
		cloner:    cloner,
		clipboard: SystemClipboard{},
		clock:     clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateURL accepts any non-empty string starting with http:// or https://.
func ValidateURL(raw string) error {
	if raw == "" || !utils.HasHTTPScheme(raw) {
		return ErrInvalidURL
	}
	return nil
}

func (s *Session) SetDraft(draft string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Draft = draft
}

// Begin starts a new attempt for url. An invalid url sets the validation error
// and returns ErrInvalidURL. It still supersedes any attempt in flight.
func (s *Session) Begin(url string) (Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt++
	s.state.View = ViewPreview
	s.state.Result, s.state.ResultID = "", ""

	if err := ValidateURL(url); err != nil {
		s.state.Busy = false
		s.state.Err = err.Error()
		return Attempt{}, err
	}

	s.state.Busy = true
	s.state.Err = ""
	return Attempt{ID: s.attempt, URL: url}, nil
}

// Resolve records the outcome of a. It reports false, changing nothing, when a
// newer attempt has started since.
func (s *Session) Resolve(a Attempt, resp *client.Response, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID != s.attempt {
		return false
	}

	s.state.Busy = false
	if err != nil {
		s.state.Err = err.Error()
		if s.state.Err == "" {
			s.state.Err = errUnknownFailure.Error()
		}
		return true
	}
	s.state.Err = ""
	if resp != nil {
		s.state.Result, s.state.ResultID = resp.HTML, resp.ID
	}
	return true
}

// Submit runs a whole attempt synchronously. Busy is cleared even if the
// cloner panics.
func (s *Session) Submit(ctx context.Context, url string) error {
	a, err := s.Begin(url)
	if err != nil {
		return err
	}

	resolved := false
	defer func() {
		if !resolved {
			s.Resolve(a, nil, errUnknownFailure)
		}
	}()

	resp, err := s.Fetch(ctx, a)
	s.Resolve(a, resp, err)
	resolved = true
	return err
}

// Fetch performs the request for a without touching session state. Front ends
// running it off their event loop pass the outcome to Resolve.
func (s *Session) Fetch(ctx context.Context, a Attempt) (*client.Response, error) {
	return s.cloner.Clone(ctx, a.URL)
}

// ToggleView switches between preview and code. Unknown modes are ignored.
func (s *Session) ToggleView(mode ViewMode) {
	if mode != ViewPreview && mode != ViewCode {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View = mode
}

// ToggleDevice selects the preview size. Unknown devices are ignored.
func (s *Session) ToggleDevice(device preview.Device) {
	if device != preview.DeviceDesktop && device != preview.DeviceMobile {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Device = device
}

// Copy writes the current result to the clipboard and sets the copied flag.
// The returned token must be passed to ResetCopied to clear it.
func (s *Session) Copy() (uint64, error) {
	s.mu.Lock()
	html := s.state.Result
	s.mu.Unlock()

	if html == "" {
		return 0, ErrNothingToCopy
	}
	if err := s.clipboard.WriteAll(html); err != nil {
		return 0, err
	}
	return s.MarkCopied(), nil
}

// MarkCopied sets the copied flag. Each call supersedes earlier tokens.
func (s *Session) MarkCopied() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copyToken++
	s.state.Copied = true
	return s.copyToken
}

// ResetCopied clears the copied flag if token is from the latest copy.
func (s *Session) ResetCopied(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.copyToken {
		return false
	}
	s.state.Copied = false
	return true
}

// CopyToClipboard copies the result and clears the copied flag
// CopiedResetDelay later. A later copy replaces the pending reset.
func (s *Session) CopyToClipboard() error {
	token, err := s.Copy()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	s.resetTimer = s.clock.AfterFunc(CopiedResetDelay, func() {
		s.ResetCopied(token)
	})
	return nil
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
