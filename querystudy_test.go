package querystudy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querystudy/connector"
)

func TestConnectRegistersProviders(t *testing.T) {
	assert.Subset(t, connector.Providers(), []string{"postgres", "postgresql", "sqlite", "sqlite3"})
}

func TestConnectSQLite(t *testing.T) {
	s, err := Connect(context.Background(), Config{Driver: "sqlite", Database: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, "sqlite", s.Dialect().Name())
	assert.NoError(t, s.Connection().Health(context.Background()))
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), Config{Driver: "oracle", Host: "db", Port: 1521}, nil)
	assert.ErrorIs(t, err, connector.ErrProviderNotRegistered)
}
