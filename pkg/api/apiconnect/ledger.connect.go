package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "tripsync.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	LedgerServiceGetBalancesProcedure = "/tripsync.v1.LedgerService/GetBalances"
	LedgerServiceMarkPaidProcedure    = "/tripsync.v1.LedgerService/MarkPaid"
)

// LedgerServiceClient is a client for the tripsync.v1.LedgerService service.
type LedgerServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	MarkPaid(context.Context, *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error)
}

// NewLedgerServiceClient constructs a client for the tripsync.v1.LedgerService service.
// The JSON codec is always installed; opts are applied after it.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	readOnly := readOnlyClientOptions(opts)
	return &ledgerServiceClient{
		getBalances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](
			httpClient,
			baseURL+LedgerServiceGetBalancesProcedure, readOnly...,
		),
		markPaid: connect.NewClient[api.MarkPaidRequest, api.MarkPaidResponse](
			httpClient,
			baseURL+LedgerServiceMarkPaidProcedure, opts...,
		),
	}
}

type ledgerServiceClient struct {
	getBalances *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	markPaid    *connect.Client[api.MarkPaidRequest, api.MarkPaidResponse]
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) MarkPaid(ctx context.Context, req *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error) {
	return c.markPaid.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the tripsync.v1.LedgerService service.
type LedgerServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	MarkPaid(context.Context, *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	readOnly := readOnlyHandlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceGetBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, readOnly...))
	mux.Handle(LedgerServiceMarkPaidProcedure, connect.NewUnaryHandler(LedgerServiceMarkPaidProcedure, svc.MarkPaid, opts...))
	return "/tripsync.v1.LedgerService/", mux
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.LedgerService.GetBalances is not implemented"))
}

func (UnimplementedLedgerServiceHandler) MarkPaid(context.Context, *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.LedgerService.MarkPaid is not implemented"))
}
