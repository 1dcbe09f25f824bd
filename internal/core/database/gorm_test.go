package database

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func memDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func TestConnector_MissingDSN(t *testing.T) {
	t.Parallel()

	c := NewConnector(Opts{Driver: "postgres"}, zap.NewNop())
	_, err := c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrMissingDSN)

	// the failure is memoized too
	_, err = c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func TestConnector_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := NewConnector(Opts{Driver: "oracle", DSN: "x"}, zap.NewNop()).Connect(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestConnector_ConcurrentFirstCallersShareHandle(t *testing.T) {
	t.Parallel()

	c := NewConnector(Opts{Driver: "sqlite", DSN: memDSN(), LogLevel: "silent"}, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })

	const n = 16
	handles := make([]*gorm.DB, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := c.Connect(context.Background())
			assert.NoError(t, err)
			handles[i] = db
		}(i)
	}
	wg.Wait()

	require.NotNil(t, handles[0])
	for _, h := range handles[1:] {
		assert.Same(t, handles[0], h)
	}
}

func TestConnector_CloseWithoutConnect(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NewConnector(Opts{}, zap.NewNop()).Close())
}

func TestNewMongo_MissingDSN(t *testing.T) {
	t.Parallel()

	_, err := NewMongoConnector(Opts{Driver: "mongodb"}).Connect(context.Background())
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func TestNormalizeMySQLDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, user, pass, want string
	}{
		{
			name: "native passthrough",
			in:   "root:pw@tcp(127.0.0.1:3306)/portal?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/portal?parseTime=true",
		},
		{
			name: "url with defaults",
			in:   "mysql://root:pw@127.0.0.1:3306/portal",
			want: "root:pw@tcp(127.0.0.1:3306)/portal?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc with overrides",
			in:   "jdbc:mysql://127.0.0.1:3306/portal?useSSL=false&useUnicode=true",
			user: "app", pass: "secret",
			want: "app:secret@tcp(127.0.0.1:3306)/portal?charset=utf8mb4&parseTime=true&tls=false",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "root:****@tcp(h)/db", maskDSN("root:pw@tcp(h)/db"))
	assert.Equal(t, "file:x.db", maskDSN("file:x.db"))
}
