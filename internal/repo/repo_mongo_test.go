//go:build container

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"panchayat-portal/internal/core/database"
)

func startMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	uri, err := c.PortEndpoint(ctx, "27017/tcp", "mongodb")
	require.NoError(t, err)
	return uri
}

func TestMongoStores(t *testing.T) {
	uri := startMongo(t)

	runStoreCases(t, func(t *testing.T) *Stores {
		t.Helper()
		st, err := Open(context.Background(), database.Opts{
			Driver:   "mongodb",
			DSN:      uri,
			Database: "portal_" + uuid.NewString()[:8],
		}, true, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close(context.Background()) })
		return st
	})
}
