package ghost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Credentials{SiteURL: srv.URL + "/", AdminAPIKey: testAPIKey}, 5*time.Second)
}

func assertAuthHeaders(t *testing.T, r *http.Request) {
	t.Helper()
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Ghost ") {
		t.Errorf("expected Ghost auth scheme, got %q", auth)
		return
	}
	kid, _, err := ParseAdminToken(strings.TrimPrefix(auth, "Ghost "), testAPIKey)
	if err != nil {
		t.Errorf("token does not verify: %v", err)
	}
	if kid != "6489a1b2c3d4e5f6a7b8c9d0" {
		t.Errorf("kid = %q", kid)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestClient_CreatePost(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ghost/api/admin/posts/", r.URL.Path)
		assertAuthHeaders(t, r)

		var in struct {
			Posts []map[string]any `json:"posts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if assert.Len(t, in.Posts, 1) {
			p := in.Posts[0]
			assert.Equal(t, "Hello", p["title"])
			assert.Contains(t, p, "feature_image")
			assert.Nil(t, p["feature_image"])
			assert.NotContains(t, p, "published_at")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts":[{"id":"p1","status":"draft","url":"https://x/p/","title":"Hello"},{"id":"p2"}]}`))
	})

	res, err := cli.CreatePost(context.Background(), Post{Title: "Hello", Slug: "hello", Status: "draft", Tags: []Tag{}})
	require.NoError(t, err)
	assert.Equal(t, Result{ID: "p1", Status: "draft", URL: "https://x/p/", Title: "Hello"}, res)
}

func TestClient_UpdatePost(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/ghost/api/admin/posts/abc/", r.URL.Path)
		assert.Equal(t, "html", r.URL.Query().Get("source"))
		assertAuthHeaders(t, r)
		_, _ = w.Write([]byte(`{"posts":[{"id":"abc","status":"published"}]}`))
	})

	res, err := cli.UpdatePost(context.Background(), "abc", Post{Title: "T", HTML: WrapHTML("x")})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.ID)
	assert.Equal(t, "published", res.Status)
}

func TestClient_UpdatePost_EmptyID(t *testing.T) {
	cli := New(Credentials{SiteURL: "http://127.0.0.1:1", AdminAPIKey: testAPIKey}, time.Second)
	_, err := cli.UpdatePost(context.Background(), " ", Post{})
	assert.Error(t, err)
}

func TestClient_EmptyPostsCollection(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"posts":[]}`))
	})
	_, err := cli.CreatePost(context.Background(), Post{Title: "x"})
	assert.Error(t, err)
}

func TestClient_Unauthorized(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"},{"message":"second"}]}`))
	})

	_, err := cli.CreatePost(context.Background(), Post{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "bad key", err.Error())
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		want    error
		message string
	}{
		{http.StatusForbidden, `{"errors":[{"message":"no permission"}]}`, ErrAuthenticationFailed, "no permission"},
		{http.StatusNotFound, ``, ErrNotFound, "Ghost API error (404)"},
		{http.StatusUnprocessableEntity, `{"errors":[{"message":"Validation error"}]}`, ErrRemoteAPI, "Validation error"},
		{http.StatusInternalServerError, `<html>oops</html>`, ErrRemoteAPI, "Ghost API error (500)"},
		{http.StatusBadRequest, `{"errors":[]}`, ErrRemoteAPI, "Ghost API error (400)"},
	}
	for _, tt := range tests {
		cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(tt.body))
		})
		_, err := cli.UpdatePost(context.Background(), "id1", Post{})
		require.Error(t, err)
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		assert.Equal(t, tt.message, err.Error())
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"posts":[{"id":"late"}]}`))
	}))
	defer srv.Close()

	cli := New(Credentials{SiteURL: srv.URL, AdminAPIKey: testAPIKey}, 50*time.Millisecond)
	_, err := cli.CreatePost(context.Background(), Post{Title: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrNetworkUnreachable)
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cli := New(Credentials{SiteURL: url, AdminAPIKey: testAPIKey}, time.Second)
	_, err := cli.CreatePost(context.Background(), Post{Title: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkUnreachable)
	assert.NotErrorIs(t, err, ErrTimeout)

	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Contains(t, err.Error(), url)
}

func TestClient_InvalidKeyFailsBeforeRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	cli := New(Credentials{SiteURL: srv.URL, AdminAPIKey: "onlyid"}, time.Second)
	_, err := cli.CreatePost(context.Background(), Post{})
	assert.ErrorIs(t, err, ErrInvalidCredentialFormat)
	assert.False(t, called)
}

func TestClient_VerifyConnection(t *testing.T) {
	t.Run("incomplete config is false without error", func(t *testing.T) {
		ok, err := New(Credentials{SiteURL: "https://x"}, time.Second).VerifyConnection(context.Background())
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("site endpoint ok", func(t *testing.T) {
		cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/ghost/api/admin/site/", r.URL.Path)
			assert.Equal(t, AcceptVersion, r.Header.Get("Accept-Version"))
			assertAuthHeaders(t, r)
			_, _ = w.Write([]byte(`{"site":{"title":"Blog"}}`))
		})
		ok, err := cli.VerifyConnection(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("non-200 success is false", func(t *testing.T) {
		cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		ok, err := cli.VerifyConnection(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejected key is an error", func(t *testing.T) {
		cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"message":"Invalid token"}]}`))
		})
		ok, err := cli.VerifyConnection(context.Background())
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("malformed key is an error", func(t *testing.T) {
		ok, err := New(Credentials{SiteURL: "https://x", AdminAPIKey: "id:zz"}, time.Second).VerifyConnection(context.Background())
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInvalidSecretEncoding)
	})
}
