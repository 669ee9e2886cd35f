package fx

import (
	"testing"

	"acd-tierlist/internal/server"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModuleGraph(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("ADMIN_PASSWORD", "secret")

	var srv *server.TierListServer
	app := fx.New(
		Module,
		fx.NopLogger,
		fx.Populate(&srv),
	)
	require.NoError(t, app.Err())
	require.NotNil(t, srv)
}
