package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/site-cloner/internal/client"
	"github.com/user/site-cloner/internal/preview"
)

type fakeCloner struct {
	mu    sync.Mutex
	calls []string
	resp  *client.Response
	err   error
	block chan struct{}
	panic bool
}

func (f *fakeCloner) Clone(_ context.Context, url string) (*client.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.panic {
		panic("backend exploded")
	}
	return f.resp, f.err
}

func (f *fakeCloner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, text)
	return nil
}

func TestNew_Defaults(t *testing.T) {
	st := New(&fakeCloner{}).Snapshot()
	assert.Equal(t, ViewPreview, st.View)
	assert.Equal(t, preview.DeviceDesktop, st.Device)
	assert.False(t, st.Busy)
	assert.False(t, st.Copied)
	assert.Empty(t, st.Result)
	assert.Empty(t, st.Err)
}

func TestSubmit_InvalidURLMakesNoCall(t *testing.T) {
	inputs := []string{"", "example.com", "ftp://example.com", "htp://x", " https://example.com", "www.example.com", "http:/x"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			cloner := &fakeCloner{resp: &client.Response{HTML: "<h1>ok</h1>"}}
			s := New(cloner)

			err := s.Submit(context.Background(), in)
			require.ErrorIs(t, err, ErrInvalidURL)

			st := s.Snapshot()
			assert.Equal(t, "Please enter a full and valid URL (e.g., https://example.com).", st.Err)
			assert.False(t, st.Busy)
			assert.Equal(t, 0, cloner.callCount())
		})
	}
}

func TestValidateURL(t *testing.T) {
	for _, ok := range []string{"http://a", "https://example.com", "HTTPS://EXAMPLE.COM", "http://"} {
		assert.NoError(t, ValidateURL(ok), ok)
	}
	for _, bad := range []string{"", "http", "https:", "mailto:x@y.z", "//example.com"} {
		assert.ErrorIs(t, ValidateURL(bad), ErrInvalidURL, bad)
	}
}

func TestSubmit_Success(t *testing.T) {
	cloner := &fakeCloner{resp: &client.Response{HTML: "<h1>ok</h1>", ID: "abc"}}
	s := New(cloner)

	require.NoError(t, s.Submit(context.Background(), "https://example.com"))

	st := s.Snapshot()
	assert.Equal(t, "<h1>ok</h1>", st.Result)
	assert.Equal(t, "abc", st.ResultID)
	assert.Empty(t, st.Err)
	assert.False(t, st.Busy)
	assert.Equal(t, []string{"https://example.com"}, cloner.calls)
}

func TestSubmit_ServerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail", &client.ServerError{StatusCode: 500, StatusText: "Internal Server Error", Detail: "boom"}, "boom"},
		{"status text", &client.ServerError{StatusCode: 404, StatusText: "Not Found"}, "An error occurred: Not Found"},
		{"transport", &client.TransportError{Err: errors.New("dial tcp: connection refused")}, "Failed to connect to the backend or other network error: dial tcp: connection refused"},
		{"transport without description", &client.TransportError{}, "An unknown network error occurred."},
		{"blank error", errors.New(""), "An unknown network error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeCloner{err: tt.err})
			err := s.Submit(context.Background(), "https://example.com")
			require.Error(t, err)

			st := s.Snapshot()
			assert.Equal(t, tt.want, st.Err)
			assert.Empty(t, st.Result)
			assert.False(t, st.Busy)
		})
	}
}

func TestSubmit_ResultAndErrorAreExclusive(t *testing.T) {
	cloner := &fakeCloner{resp: &client.Response{HTML: "<p>first</p>"}}
	s := New(cloner)
	require.NoError(t, s.Submit(context.Background(), "https://example.com"))

	cloner.resp, cloner.err = nil, &client.ServerError{StatusCode: 502, Detail: "bad"}
	require.Error(t, s.Submit(context.Background(), "https://example.com"))
	st := s.Snapshot()
	assert.Equal(t, "bad", st.Err)
	assert.Empty(t, st.Result)

	cloner.resp, cloner.err = &client.Response{HTML: "<p>second</p>"}, nil
	require.NoError(t, s.Submit(context.Background(), "https://example.com"))
	st = s.Snapshot()
	assert.Equal(t, "<p>second</p>", st.Result)
	assert.Empty(t, st.Err)

	require.ErrorIs(t, s.Submit(context.Background(), "nope"), ErrInvalidURL)
	st = s.Snapshot()
	assert.NotEmpty(t, st.Err)
	assert.Empty(t, st.Result)
}

func TestSubmit_ResetsViewToPreview(t *testing.T) {
	s := New(&fakeCloner{resp: &client.Response{HTML: "<p>x</p>"}})
	s.ToggleView(ViewCode)
	require.Equal(t, ViewCode, s.Snapshot().View)

	require.NoError(t, s.Submit(context.Background(), "https://example.com"))
	assert.Equal(t, ViewPreview, s.Snapshot().View)
}

func TestSubmit_InvalidURLResetsViewToPreview(t *testing.T) {
	s := New(&fakeCloner{})
	s.ToggleView(ViewCode)

	require.ErrorIs(t, s.Submit(context.Background(), "example.com"), ErrInvalidURL)
	assert.Equal(t, ViewPreview, s.Snapshot().View)
}

func TestBegin_InvalidURLSupersedesInFlightAttempt(t *testing.T) {
	s := New(&fakeCloner{})

	inFlight, err := s.Begin("https://example.com")
	require.NoError(t, err)
	_, err = s.Begin("not-a-url")
	require.ErrorIs(t, err, ErrInvalidURL)

	assert.False(t, s.Resolve(inFlight, &client.Response{HTML: "<h1>ok</h1>"}, nil))

	st := s.Snapshot()
	assert.Equal(t, ErrInvalidURL.Error(), st.Err)
	assert.Empty(t, st.Result)
	assert.False(t, st.Busy)
}

func TestResolve_SuccessClearsError(t *testing.T) {
	s := New(&fakeCloner{})

	a, err := s.Begin("https://example.com")
	require.NoError(t, err)
	s.mu.Lock()
	s.state.Err = "leftover"
	s.mu.Unlock()

	require.True(t, s.Resolve(a, &client.Response{HTML: "<p>x</p>"}, nil))
	st := s.Snapshot()
	assert.Equal(t, "<p>x</p>", st.Result)
	assert.Empty(t, st.Err)
}

func TestSubmit_BusyOnlyWhileInFlight(t *testing.T) {
	cloner := &fakeCloner{resp: &client.Response{HTML: "<p>x</p>"}, block: make(chan struct{})}
	s := New(cloner)

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "https://example.com") }()

	require.Eventually(t, func() bool { return cloner.callCount() == 1 }, time.Second, time.Millisecond)
	assert.True(t, s.Snapshot().Busy)

	close(cloner.block)
	require.NoError(t, <-done)
	assert.False(t, s.Snapshot().Busy)
}

func TestSubmit_PanicClearsBusy(t *testing.T) {
	s := New(&fakeCloner{panic: true})

	assert.Panics(t, func() {
		_ = s.Submit(context.Background(), "https://example.com")
	})

	st := s.Snapshot()
	assert.False(t, st.Busy)
	assert.Equal(t, "An unknown network error occurred.", st.Err)
}

func TestResolve_StaleAttemptIsDropped(t *testing.T) {
	s := New(&fakeCloner{})

	first, err := s.Begin("https://slow.example")
	require.NoError(t, err)
	second, err := s.Begin("https://fast.example")
	require.NoError(t, err)

	assert.True(t, s.Resolve(second, &client.Response{HTML: "<p>fast</p>"}, nil))
	assert.False(t, s.Resolve(first, &client.Response{HTML: "<p>slow</p>"}, nil))

	st := s.Snapshot()
	assert.Equal(t, "<p>fast</p>", st.Result)
	assert.False(t, st.Busy)
}

func TestResolve_StaleAttemptDoesNotClearBusy(t *testing.T) {
	s := New(&fakeCloner{})

	first, _ := s.Begin("https://a.example")
	second, _ := s.Begin("https://b.example")

	assert.False(t, s.Resolve(first, nil, errors.New("late failure")))
	st := s.Snapshot()
	assert.True(t, st.Busy)
	assert.Empty(t, st.Err)

	assert.True(t, s.Resolve(second, &client.Response{HTML: "<p>b</p>"}, nil))
	assert.False(t, s.Snapshot().Busy)
}

func TestToggleViewAndDevice(t *testing.T) {
	s := New(&fakeCloner{})

	s.ToggleView(ViewCode)
	assert.Equal(t, ViewCode, s.Snapshot().View)
	s.ToggleView("bogus")
	assert.Equal(t, ViewCode, s.Snapshot().View)
	s.ToggleView(ViewPreview)
	assert.Equal(t, ViewPreview, s.Snapshot().View)

	s.ToggleDevice(preview.DeviceMobile)
	assert.Equal(t, preview.DeviceMobile, s.Snapshot().Device)
	s.ToggleDevice("tablet")
	assert.Equal(t, preview.DeviceMobile, s.Snapshot().Device)
	s.ToggleDevice(preview.DeviceDesktop)
	assert.Equal(t, preview.DeviceDesktop, s.Snapshot().Device)
}

func TestSetDraft(t *testing.T) {
	s := New(&fakeCloner{})
	s.SetDraft("https://exa")
	assert.Equal(t, "https://exa", s.Snapshot().Draft)
}

func newCopySession(t *testing.T) (*Session, *clock.Mock, *fakeClipboard) {
	t.Helper()
	mock := clock.NewMock()
	cb := &fakeClipboard{}
	s := New(&fakeCloner{resp: &client.Response{HTML: "<h1>copy me</h1>"}}, WithClock(mock), WithClipboard(cb))
	require.NoError(t, s.Submit(context.Background(), "https://example.com"))
	return s, mock, cb
}

func TestCopyToClipboard_ResetsAfterTwoSeconds(t *testing.T) {
	s, mock, cb := newCopySession(t)

	require.NoError(t, s.CopyToClipboard())
	assert.True(t, s.Snapshot().Copied)
	assert.Equal(t, []string{"<h1>copy me</h1>"}, cb.writes)

	mock.Add(CopiedResetDelay - time.Millisecond)
	assert.True(t, s.Snapshot().Copied)

	mock.Add(time.Millisecond)
	assert.Eventually(t, func() bool { return !s.Snapshot().Copied }, time.Second, time.Millisecond)
}

func TestCopyToClipboard_LastCallWins(t *testing.T) {
	s, mock, cb := newCopySession(t)

	require.NoError(t, s.CopyToClipboard())
	mock.Add(time.Second)
	require.NoError(t, s.CopyToClipboard())

	mock.Add(time.Second)
	assert.True(t, s.Snapshot().Copied, "first reset must not fire once replaced")

	mock.Add(CopiedResetDelay - time.Second - time.Millisecond)
	assert.True(t, s.Snapshot().Copied)

	mock.Add(time.Millisecond)
	assert.Eventually(t, func() bool { return !s.Snapshot().Copied }, time.Second, time.Millisecond)
	assert.Len(t, cb.writes, 2)
}

func TestCopyToClipboard_RequiresResult(t *testing.T) {
	cb := &fakeClipboard{}
	s := New(&fakeCloner{}, WithClock(clock.NewMock()), WithClipboard(cb))

	assert.ErrorIs(t, s.CopyToClipboard(), ErrNothingToCopy)
	assert.False(t, s.Snapshot().Copied)
	assert.Empty(t, cb.writes)
}

func TestCopyToClipboard_WriteFailure(t *testing.T) {
	s, _, cb := newCopySession(t)
	cb.err = errors.New("no clipboard utility")

	assert.Error(t, s.CopyToClipboard())
	assert.False(t, s.Snapshot().Copied)
}

func TestResetCopied_StaleToken(t *testing.T) {
	s := New(&fakeCloner{})

	first := s.MarkCopied()
	second := s.MarkCopied()

	assert.False(t, s.ResetCopied(first))
	assert.True(t, s.Snapshot().Copied)
	assert.True(t, s.ResetCopied(second))
	assert.False(t, s.Snapshot().Copied)
}
