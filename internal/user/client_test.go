package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souravsatyam/gymapp/internal/api"
	"github.com/souravsatyam/gymapp/internal/user"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *user.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return user.NewClient(api.NewClient(server.URL, 5*time.Second, nil))
}

func TestMe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/get", r.URL.Path)
		w.Write([]byte(`{"loggedInUser":{"id":7,"full_name":"Asha","mobile_number":"9876543210"}}`))
	})

	profile, err := client.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), profile.ID)
	assert.Equal(t, "Asha", profile.FullName)
}

func TestUploadProfileImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/uploadProfileImage", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "me.jpg", header.Filename)

		w.Write([]byte(`{"status":"success","url":"https://cdn.example.com/me.jpg"}`))
	})

	url, err := client.UploadProfileImage(context.Background(), "me.jpg", strings.NewReader("jpegbytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.jpg", url)
}

func TestImages_Paged(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/getImage/7", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"status":"success","images":[{"id":1,"url":"https://cdn.example.com/1.jpg"}]}`))
	})

	images, err := client.Images(context.Background(), 7, 2)

	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://cdn.example.com/1.jpg", images[0].URL)
}
