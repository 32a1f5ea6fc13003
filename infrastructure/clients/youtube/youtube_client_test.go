package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"creator-ops/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewYouTubeClient(context.Background(), "token",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c.(*Client)
}

func TestListChannelVideoIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "UC123", q.Get("channelId"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "date", q.Get("order"))
		assert.Equal(t, "50", q.Get("maxResults"))
		assert.Equal(t, "page-2", q.Get("pageToken"))
		fmt.Fprint(w, `{"nextPageToken":"page-3","items":[{"id":{"kind":"youtube#video","videoId":"v1"}},{"id":{"kind":"youtube#channel"}},{"id":{"videoId":"v2"}}]}`)
	})

	page, err := c.ListChannelVideoIDs(context.Background(), "UC123", "page-2", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, page.IDs)
	assert.Equal(t, "page-3", page.NextPageToken)
}

func TestGetVideos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		assert.ElementsMatch(t, []string{"v1", "v2"}, r.URL.Query()["id"])
		fmt.Fprint(w, `{"items":[
			{"id":"v1","snippet":{"title":"First","description":"D","publishedAt":"2024-01-02T03:04:05Z","tags":["a","b"],
			  "thumbnails":{"default":{"url":"d1"},"high":{"url":"h1"}}},
			 "statistics":{"viewCount":"100","likeCount":"7","commentCount":"3"},"contentDetails":{"duration":"PT4M13S"}},
			{"id":"v2","snippet":{"title":"Second","thumbnails":{"default":{"url":"d2"}}}}
		]}`)
	})

	videos, err := c.GetVideos(context.Background(), []string{"v1", "v2"})
	require.NoError(t, err)
	require.Len(t, videos, 2)

	first := videos[0]
	assert.Equal(t, "v1", first.YouTubeVideoID)
	assert.Equal(t, "h1", first.ThumbnailURL)
	assert.Equal(t, int64(100), first.Views)
	assert.Equal(t, int64(7), first.Likes)
	assert.Equal(t, int64(3), first.CommentsCount)
	assert.Equal(t, "PT4M13S", first.Duration)
	assert.Equal(t, []string{"a", "b"}, first.Tags)
	assert.Equal(t, model.VideoActive, first.Status)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2024, first.PublishedAt.Year())

	assert.Equal(t, "d2", videos[1].ThumbnailURL)
	assert.Nil(t, videos[1].PublishedAt)
}

func TestGetVideos_RejectsOversizedBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	ids := make([]string, 51)
	_, err := c.GetVideos(context.Background(), ids)
	assert.Error(t, err)
}

func TestListTopLevelComments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/commentThreads", r.URL.Path)
		assert.Equal(t, "v1", r.URL.Query().Get("videoId"))
		assert.Equal(t, "100", r.URL.Query().Get("maxResults"))
		fmt.Fprint(w, `{"items":[{"id":"t1","snippet":{"totalReplyCount":2,"topLevelComment":{"id":"c1","snippet":{
			"authorDisplayName":"Ana","authorProfileImageUrl":"avatar","textDisplay":"Great video<br>loved the <b>intro</b> &amp; outro",
			"likeCount":5,"publishedAt":"2024-03-01T10:00:00Z"}}}}]}`)
	})

	comments, err := c.ListTopLevelComments(context.Background(), "v1", 100)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	cm := comments[0]
	assert.Equal(t, "c1", cm.YouTubeCommentID)
	assert.Equal(t, "v1", cm.YouTubeVideoID)
	assert.Equal(t, "Ana", cm.Author)
	assert.Equal(t, "Great video\nloved the intro & outro", cm.Text)
	assert.Equal(t, int64(5), cm.LikeCount)
	assert.Equal(t, int64(2), cm.ReplyCount)
}

func TestListTopLevelComments_Disabled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"The video has disabled comments.","errors":[{"reason":"commentsDisabled","message":"disabled"}]}}`)
	})

	_, err := c.ListTopLevelComments(context.Background(), "v1", 100)
	require.Error(t, err)
	assert.True(t, model.IsCommentsDisabled(err))

	var pe *model.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusForbidden, pe.Status)
	assert.Equal(t, "commentsDisabled", pe.Reason)
	assert.Contains(t, pe.Error(), "The video has disabled comments.")
}

func TestGetMyChannel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/channels", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("mine"))
		fmt.Fprint(w, `{"items":[{"id":"UC1","snippet":{"title":"My Channel","thumbnails":{"default":{"url":"thumb"}}},"statistics":{"subscriberCount":"1234"}}]}`)
	})

	identity, err := c.GetMyChannel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UC1", identity.AccountID)
	assert.Equal(t, "My Channel", identity.DisplayName)
	assert.Equal(t, "thumb", identity.Thumbnail)
	require.NotNil(t, identity.Subscribers)
	assert.Equal(t, int64(1234), *identity.Subscribers)
}

func TestGetMyChannel_NoChannel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	})
	_, err := c.GetMyChannel(context.Background())
	assert.ErrorIs(t, err, ErrNoChannel)
}

func TestCaptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/captions":
			assert.Equal(t, "v1", r.URL.Query().Get("videoId"))
			fmt.Fprint(w, `{"items":[{"id":"cap1","snippet":{"language":"en","trackKind":"ASR"}},{"id":"cap2","snippet":{"language":"de","trackKind":"standard"}}]}`)
		case "/youtube/v3/captions/cap2":
			assert.Equal(t, "srt", r.URL.Query().Get("tfmt"))
			fmt.Fprint(w, "1\n00:00:01,000 --> 00:00:02,000\nHallo\n")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	tracks, err := c.ListCaptionTracks(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.True(t, tracks[0].IsAutoGenerated())
	assert.Equal(t, "de", tracks[1].Language)

	body, err := c.DownloadCaption(context.Background(), "cap2", "srt")
	require.NoError(t, err)
	assert.Contains(t, body, "Hallo")
}
