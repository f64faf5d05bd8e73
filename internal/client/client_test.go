package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/site-cloner/internal/preview"
)

func TestClone_Success(t *testing.T) {
	var got cloneRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/clone", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"html":"<p>x</p>","id":"abc","url":"https://a.com","cached":false}`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL+"/").Clone(context.Background(), "https://a.com")
	require.NoError(t, err)
	assert.Equal(t, "https://a.com", got.URL)
	assert.Equal(t, "<p>x</p>", resp.HTML)
	assert.Equal(t, "abc", resp.ID)
}

func TestClone_ServerErrorWithDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"boom"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Clone(context.Background(), "https://a.com")
	require.Error(t, err)

	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom", err.Error())
}

func TestClone_ServerErrorWithoutDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"no detail field", `{"error":"nope"}`},
		{"empty detail", `{"detail":""}`},
		{"not json", "<html>Not Found</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).Clone(context.Background(), "https://a.com")
			var se *ServerError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, "An error occurred: Not Found", err.Error())
		})
	}
}

func TestClone_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base).Clone(context.Background(), "https://a.com")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "Failed to connect to the backend or other network error: ")
}

func TestClone_InvalidSuccessBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	defer srv.Close()

	_, err := New(srv.URL).Clone(context.Background(), "https://a.com")
	var te *TransportError
	require.True(t, errors.As(err, &te))
}

func TestClone_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Clone(context.Background(), "https://a.com")
	var te *TransportError
	require.True(t, errors.As(err, &te))
}

func TestTransportError_Messages(t *testing.T) {
	assert.Equal(t, "An unknown network error occurred.", (&TransportError{}).Error())
	assert.Equal(t, "An unknown network error occurred.", (&TransportError{Err: errors.New("")}).Error())
	assert.Equal(t,
		"Failed to connect to the backend or other network error: dial tcp: refused",
		(&TransportError{Err: errors.New("dial tcp: refused")}).Error(),
	)
}

func TestServerError_Messages(t *testing.T) {
	assert.Equal(t, "boom", (&ServerError{StatusCode: 500, StatusText: "Internal Server Error", Detail: "boom"}).Error())
	assert.Equal(t, "An error occurred: Bad Gateway", (&ServerError{StatusCode: 502, StatusText: "Bad Gateway"}).Error())
}

func TestPreviewURL(t *testing.T) {
	c := New("http://localhost:8000/")
	assert.Equal(t, "http://localhost:8000/api/clones/abc/preview?device=mobile", c.PreviewURL("abc", preview.DeviceMobile))
}

func TestNew_DefaultBaseURL(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultBaseURL+"/api/clones/x/preview?device=desktop", c.PreviewURL("x", preview.DeviceDesktop))
}
