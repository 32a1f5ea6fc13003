package pubsub_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"creator-ops/domain/model"
	syncpubsub "creator-ops/infrastructure/pubsub"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestSyncPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client, err := pubsub.NewClient(ctx, "creator-ops-test", option.WithGRPCConn(conn))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, syncpubsub.EnsureTopic(ctx, client, "sync-events"))
	require.NoError(t, syncpubsub.EnsureTopic(ctx, client, "sync-events"))

	pub := syncpubsub.NewSyncPublisher(client, "sync-events")
	err = pub.Publish(ctx, &model.SyncEvent{
		UserID: "u1", Provider: model.ProviderYouTube, Step: "complete", Progress: 100, Done: true,
		Counts: map[string]int{"videos": 3}, At: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "u1", msgs[0].Attributes["user_id"])
	require.Equal(t, "youtube", msgs[0].Attributes["provider"])

	var got model.SyncEvent
	require.NoError(t, json.Unmarshal(msgs[0].Data, &got))
	require.Equal(t, 3, got.Counts["videos"])
	require.True(t, got.Done)
}
