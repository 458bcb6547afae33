package grpclib

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
)

// Server exposes a storage.Library over the library service.
//
// With Strict set, Put accepts only canonical interface texts.
type Server struct {
	UnimplementedLibraryServer
	Library storage.Library
	Strict  bool
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Library == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing library")
	}
	b := in.GetValue()
	if s.Strict {
		if _, err := iface.Parse(b); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	id, err := s.Library.Put(b)
	if err != nil {
		return nil, mapErr(err)
	}
	if id != iface.IdOf(b) {
		return nil, status.Error(codes.DataLoss, storage.ErrIDMismatch.Error())
	}
	logger.WithField("id", id).Debug("put")
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Library == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing library")
	}
	id, err := iface.ParseIfaceId(in.GetValue())
	if err != nil || id.IsZero() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidID.Error())
	}
	b, err := s.Library.Get(id)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := storage.Verify(id, b); err != nil {
		return nil, status.Error(codes.DataLoss, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.Library == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing library")
	}
	id, err := iface.ParseIfaceId(in.GetValue())
	if err != nil || id.IsZero() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidID.Error())
	}
	return wrapperspb.Bool(s.Library.Has(id)), nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrIDMismatch):
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, storage.ErrImmutable):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		log.WithError(err).Warn("library error")
		return status.Error(codes.Internal, err.Error())
	}
}

// mapRPC turns service statuses back into storage errors.
func mapRPC(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.InvalidArgument:
		if st.Message() == storage.ErrInvalidID.Error() {
			return storage.ErrInvalidID
		}
		return err
	case codes.DataLoss:
		return storage.ErrIDMismatch
	case codes.AlreadyExists:
		return storage.ErrImmutable
	}
	return err
}
