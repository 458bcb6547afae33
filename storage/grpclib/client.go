// Package grpclib serves an interface library over gRPC and provides the
// matching client.
package grpclib

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
)

var logger = log.WithFields(log.Fields{"prefix": "grpclib"})

// Client implements storage.Library over the library service.
type Client struct {
	cc     *grpc.ClientConn
	client LibraryClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ storage.Library = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send and receive limits when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		dialOpts = append(dialOpts, grpc.WithBlock())
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	logger.WithField("target", target).Debug("connected to interface library")
	return NewClient(cc), nil
}

// NewClient wraps an established connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewLibraryClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Put(canonical []byte) (iface.IfaceId, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Put(ctx, wrapperspb.Bytes(canonical))
	if err != nil {
		return iface.IfaceId{}, mapRPC(err)
	}
	id, err := iface.ParseIfaceId(reply.GetValue())
	if err != nil {
		return iface.IfaceId{}, storage.ErrInvalidID
	}
	if id != iface.IdOf(canonical) {
		return iface.IfaceId{}, storage.ErrIDMismatch
	}
	return id, nil
}

func (c *Client) Get(id iface.IfaceId) ([]byte, error) {
	if id.IsZero() {
		return nil, storage.ErrInvalidID
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Get(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, mapRPC(err)
	}
	b := reply.GetValue()
	if err := storage.Verify(id, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Client) Has(id iface.IfaceId) bool {
	if id.IsZero() {
		return false
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Has(ctx, wrapperspb.String(id.String()))
	if err != nil {
		logger.WithError(err).Debug("Has failed")
		return false
	}
	return reply.GetValue()
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
