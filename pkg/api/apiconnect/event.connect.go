package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService service.
const EventServiceName = "tripsync.v1.EventService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	EventServiceCreateEventProcedure        = "/tripsync.v1.EventService/CreateEvent"
	EventServiceUpdateEventProcedure        = "/tripsync.v1.EventService/UpdateEvent"
	EventServiceDeleteEventProcedure        = "/tripsync.v1.EventService/DeleteEvent"
	EventServiceListEventsProcedure         = "/tripsync.v1.EventService/ListEvents"
	EventServiceListConflictGroupsProcedure = "/tripsync.v1.EventService/ListConflictGroups"
	EventServiceCastVoteProcedure           = "/tripsync.v1.EventService/CastVote"
	EventServiceRemoveVoteProcedure         = "/tripsync.v1.EventService/RemoveVote"
)

// EventServiceClient is a client for the tripsync.v1.EventService service.
type EventServiceClient interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	ListConflictGroups(context.Context, *connect.Request[api.ListConflictGroupsRequest]) (*connect.Response[api.ListConflictGroupsResponse], error)
	CastVote(context.Context, *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error)
	RemoveVote(context.Context, *connect.Request[api.RemoveVoteRequest]) (*connect.Response[api.RemoveVoteResponse], error)
}

// NewEventServiceClient constructs a client for the tripsync.v1.EventService service.
// The JSON codec is always installed; opts are applied after it.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	readOnly := readOnlyClientOptions(opts)
	return &eventServiceClient{
		createEvent: connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](
			httpClient,
			baseURL+EventServiceCreateEventProcedure, opts...,
		),
		updateEvent: connect.NewClient[api.UpdateEventRequest, api.UpdateEventResponse](
			httpClient,
			baseURL+EventServiceUpdateEventProcedure, opts...,
		),
		deleteEvent: connect.NewClient[api.DeleteEventRequest, api.DeleteEventResponse](
			httpClient,
			baseURL+EventServiceDeleteEventProcedure, opts...,
		),
		listEvents: connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](
			httpClient,
			baseURL+EventServiceListEventsProcedure, readOnly...,
		),
		listConflictGroups: connect.NewClient[api.ListConflictGroupsRequest, api.ListConflictGroupsResponse](
			httpClient,
			baseURL+EventServiceListConflictGroupsProcedure, readOnly...,
		),
		castVote: connect.NewClient[api.CastVoteRequest, api.CastVoteResponse](
			httpClient,
			baseURL+EventServiceCastVoteProcedure, opts...,
		),
		removeVote: connect.NewClient[api.RemoveVoteRequest, api.RemoveVoteResponse](
			httpClient,
			baseURL+EventServiceRemoveVoteProcedure, opts...,
		),
	}
}

type eventServiceClient struct {
	createEvent        *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	updateEvent        *connect.Client[api.UpdateEventRequest, api.UpdateEventResponse]
	deleteEvent        *connect.Client[api.DeleteEventRequest, api.DeleteEventResponse]
	listEvents         *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
	listConflictGroups *connect.Client[api.ListConflictGroupsRequest, api.ListConflictGroupsResponse]
	castVote           *connect.Client[api.CastVoteRequest, api.CastVoteResponse]
	removeVote         *connect.Client[api.RemoveVoteRequest, api.RemoveVoteResponse]
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	return c.updateEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *eventServiceClient) ListConflictGroups(ctx context.Context, req *connect.Request[api.ListConflictGroupsRequest]) (*connect.Response[api.ListConflictGroupsResponse], error) {
	return c.listConflictGroups.CallUnary(ctx, req)
}

func (c *eventServiceClient) CastVote(ctx context.Context, req *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	return c.castVote.CallUnary(ctx, req)
}

func (c *eventServiceClient) RemoveVote(ctx context.Context, req *connect.Request[api.RemoveVoteRequest]) (*connect.Response[api.RemoveVoteResponse], error) {
	return c.removeVote.CallUnary(ctx, req)
}

// EventServiceHandler is an implementation of the tripsync.v1.EventService service.
type EventServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	ListConflictGroups(context.Context, *connect.Request[api.ListConflictGroupsRequest]) (*connect.Response[api.ListConflictGroupsResponse], error)
	CastVote(context.Context, *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error)
	RemoveVote(context.Context, *connect.Request[api.RemoveVoteRequest]) (*connect.Response[api.RemoveVoteResponse], error)
}

// NewEventServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	readOnly := readOnlyHandlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(EventServiceCreateEventProcedure, connect.NewUnaryHandler(EventServiceCreateEventProcedure, svc.CreateEvent, opts...))
	mux.Handle(EventServiceUpdateEventProcedure, connect.NewUnaryHandler(EventServiceUpdateEventProcedure, svc.UpdateEvent, opts...))
	mux.Handle(EventServiceDeleteEventProcedure, connect.NewUnaryHandler(EventServiceDeleteEventProcedure, svc.DeleteEvent, opts...))
	mux.Handle(EventServiceListEventsProcedure, connect.NewUnaryHandler(EventServiceListEventsProcedure, svc.ListEvents, readOnly...))
	mux.Handle(EventServiceListConflictGroupsProcedure, connect.NewUnaryHandler(EventServiceListConflictGroupsProcedure, svc.ListConflictGroups, readOnly...))
	mux.Handle(EventServiceCastVoteProcedure, connect.NewUnaryHandler(EventServiceCastVoteProcedure, svc.CastVote, opts...))
	mux.Handle(EventServiceRemoveVoteProcedure, connect.NewUnaryHandler(EventServiceRemoveVoteProcedure, svc.RemoveVote, opts...))
	return "/tripsync.v1.EventService/", mux
}

// UnimplementedEventServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEventServiceHandler struct{}

func (UnimplementedEventServiceHandler) CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.EventService.CreateEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.EventService.UpdateEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.EventService.DeleteEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.EventService.ListEvents is not implemented"))
}

func (UnimplementedEventServiceHandler) ListConflictGroups(context.Context, *connect.Request[api.ListConflictGroupsRequest]) (*connect.Response[api.ListConflictGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.EventService.ListConflictGroups is not implemented"))
}

func (UnimplementedEventServiceHandler) CastVote(context.Context, *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.EventService.CastVote is not implemented"))
}

func (UnimplementedEventServiceHandler) RemoveVote(context.Context, *connect.Request[api.RemoveVoteRequest]) (*connect.Response[api.RemoveVoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.EventService.RemoveVote is not implemented"))
}
