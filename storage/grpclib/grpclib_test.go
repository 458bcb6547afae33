package grpclib

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/localfs"
	"lnp-bp.org/rgbiface/storage/testkit"
)

func serve(t *testing.T, strict bool) *Client {
	t.Helper()
	lib, err := localfs.New(t.TempDir())
	require.NoError(t, err)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterLibraryServer(srv, &Server{Library: lib, Strict: strict})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })

	c := NewClient(cc)
	c.Timeout = 2 * time.Second
	return c
}

func TestGRPC_Conformance(t *testing.T) {
	testkit.RunLibraryConformance(t, func(t *testing.T) storage.Library { return serve(t, false) })
}

func TestGRPC_StrictRejectsNonCanonical(t *testing.T) {
	c := serve(t, true)

	_, err := c.Put([]byte("not an interface"))
	require.Error(t, err)

	b := testkit.Canonical(t, fragment.Fungible())
	id, err := c.Put(b)
	require.NoError(t, err)
	assert.Equal(t, fragment.Fungible().ID(), id)
}

func TestGRPC_NotFound(t *testing.T) {
	c := serve(t, false)
	_, err := c.Get(iface.IdOf([]byte("absent")))
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, c.Has(iface.IdOf([]byte("absent"))))
}
