package buddy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souravsatyam/gymapp/internal/api"
	"github.com/souravsatyam/gymapp/internal/buddy"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *buddy.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return buddy.NewClient(api.NewClient(server.URL, 5*time.Second, nil))
}

func TestSearch_EscapesPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/search/mel%20vin", r.URL.EscapedPath())
		w.Write([]byte(`[{"id":1,"name":"Melvin","request_sent":true}]`))
	})

	candidates, err := client.Search(context.Background(), "mel vin")

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, buddy.RelationInvited, candidates[0].Relationship())
}

func TestNearby(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/nearby-users", r.URL.Path)
		assert.Equal(t, "12.9716", r.URL.Query().Get("lat"))
		assert.Equal(t, "77.5946", r.URL.Query().Get("long"))
		w.Write([]byte(`[{"id":1,"name":"Melvin"},{"id":2,"name":"Asha","accepted":true}]`))
	})

	candidates, err := client.Nearby(context.Background(), 12.9716, 77.5946)

	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, buddy.RelationNone, candidates[0].Relationship())
	assert.Equal(t, buddy.RelationFriends, candidates[1].Relationship())
}

func TestFriendActions(t *testing.T) {
	var gotPath string
	var gotBody map[string]int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"status":"success"}`))
	})

	require.NoError(t, client.SendRequest(context.Background(), 9))
	assert.Equal(t, "/friends/add", gotPath)
	assert.Equal(t, int64(9), gotBody["userId"])

	require.NoError(t, client.Accept(context.Background(), 3))
	assert.Equal(t, "/friends/accept", gotPath)
	assert.Equal(t, int64(3), gotBody["requestId"])

	require.NoError(t, client.Reject(context.Background(), 4))
	assert.Equal(t, "/friends/reject", gotPath)
	assert.Equal(t, int64(4), gotBody["requestId"])
}
