package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/pkg/api"
)

// TripServiceName is the fully-qualified name of the TripService service.
const TripServiceName = "tripsync.v1.TripService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	TripServiceCreateProfileProcedure    = "/tripsync.v1.TripService/CreateProfile"
	TripServiceGetProfileProcedure       = "/tripsync.v1.TripService/GetProfile"
	TripServiceCreateTripProcedure       = "/tripsync.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure          = "/tripsync.v1.TripService/GetTrip"
	TripServiceListTripsProcedure        = "/tripsync.v1.TripService/ListTrips"
	TripServiceUpdateTripProcedure       = "/tripsync.v1.TripService/UpdateTrip"
	TripServiceDeleteTripProcedure       = "/tripsync.v1.TripService/DeleteTrip"
	TripServiceListMembersProcedure      = "/tripsync.v1.TripService/ListMembers"
	TripServiceRemoveMemberProcedure     = "/tripsync.v1.TripService/RemoveMember"
	TripServiceInviteProcedure           = "/tripsync.v1.TripService/Invite"
	TripServiceListInvitationsProcedure  = "/tripsync.v1.TripService/ListInvitations"
	TripServiceAcceptInvitationProcedure = "/tripsync.v1.TripService/AcceptInvitation"
	TripServiceRejectInvitationProcedure = "/tripsync.v1.TripService/RejectInvitation"
)

// TripServiceClient is a client for the tripsync.v1.TripService service.
type TripServiceClient interface {
	CreateProfile(context.Context, *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	Invite(context.Context, *connect.Request[api.InviteRequest]) (*connect.Response[api.InviteResponse], error)
	ListInvitations(context.Context, *connect.Request[api.ListInvitationsRequest]) (*connect.Response[api.ListInvitationsResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	RejectInvitation(context.Context, *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error)
}

// NewTripServiceClient constructs a client for the tripsync.v1.TripService service.
// The JSON codec is always installed; opts are applied after it.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	readOnly := readOnlyClientOptions(opts)
	return &tripServiceClient{
		createProfile: connect.NewClient[api.CreateProfileRequest, api.CreateProfileResponse](
			httpClient,
			baseURL+TripServiceCreateProfileProcedure, opts...,
		),
		getProfile: connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](
			httpClient,
			baseURL+TripServiceGetProfileProcedure, readOnly...,
		),
		createTrip: connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](
			httpClient,
			baseURL+TripServiceCreateTripProcedure, opts...,
		),
		getTrip: connect.NewClient[api.GetTripRequest, api.GetTripResponse](
			httpClient,
			baseURL+TripServiceGetTripProcedure, readOnly...,
		),
		listTrips: connect.NewClient[api.ListTripsRequest, api.ListTripsResponse](
			httpClient,
			baseURL+TripServiceListTripsProcedure, readOnly...,
		),
		updateTrip: connect.NewClient[api.UpdateTripRequest, api.UpdateTripResponse](
			httpClient,
			baseURL+TripServiceUpdateTripProcedure, opts...,
		),
		deleteTrip: connect.NewClient[api.DeleteTripRequest, api.DeleteTripResponse](
			httpClient,
			baseURL+TripServiceDeleteTripProcedure, opts...,
		),
		listMembers: connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](
			httpClient,
			baseURL+TripServiceListMembersProcedure, readOnly...,
		),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](
			httpClient,
			baseURL+TripServiceRemoveMemberProcedure, opts...,
		),
		invite: connect.NewClient[api.InviteRequest, api.InviteResponse](
			httpClient,
			baseURL+TripServiceInviteProcedure, opts...,
		),
		listInvitations: connect.NewClient[api.ListInvitationsRequest, api.ListInvitationsResponse](
			httpClient,
			baseURL+TripServiceListInvitationsProcedure, readOnly...,
		),
		acceptInvitation: connect.NewClient[api.AcceptInvitationRequest, api.AcceptInvitationResponse](
			httpClient,
			baseURL+TripServiceAcceptInvitationProcedure, opts...,
		),
		rejectInvitation: connect.NewClient[api.RejectInvitationRequest, api.RejectInvitationResponse](
			httpClient,
			baseURL+TripServiceRejectInvitationProcedure, opts...,
		),
	}
}

type tripServiceClient struct {
	createProfile    *connect.Client[api.CreateProfileRequest, api.CreateProfileResponse]
	getProfile       *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	createTrip       *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip          *connect.Client[api.GetTripRequest, api.GetTripResponse]
	listTrips        *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	updateTrip       *connect.Client[api.UpdateTripRequest, api.UpdateTripResponse]
	deleteTrip       *connect.Client[api.DeleteTripRequest, api.DeleteTripResponse]
	listMembers      *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	removeMember     *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	invite           *connect.Client[api.InviteRequest, api.InviteResponse]
	listInvitations  *connect.Client[api.ListInvitationsRequest, api.ListInvitationsResponse]
	acceptInvitation *connect.Client[api.AcceptInvitationRequest, api.AcceptInvitationResponse]
	rejectInvitation *connect.Client[api.RejectInvitationRequest, api.RejectInvitationResponse]
}

func (c *tripServiceClient) CreateProfile(ctx context.Context, req *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error) {
	return c.createProfile.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return c.updateTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *tripServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *tripServiceClient) Invite(ctx context.Context, req *connect.Request[api.InviteRequest]) (*connect.Response[api.InviteResponse], error) {
	return c.invite.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListInvitations(ctx context.Context, req *connect.Request[api.ListInvitationsRequest]) (*connect.Response[api.ListInvitationsResponse], error) {
	return c.listInvitations.CallUnary(ctx, req)
}

func (c *tripServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

func (c *tripServiceClient) RejectInvitation(ctx context.Context, req *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error) {
	return c.rejectInvitation.CallUnary(ctx, req)
}

// TripServiceHandler is an implementation of the tripsync.v1.TripService service.
type TripServiceHandler interface {
	CreateProfile(context.Context, *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	Invite(context.Context, *connect.Request[api.InviteRequest]) (*connect.Response[api.InviteResponse], error)
	ListInvitations(context.Context, *connect.Request[api.ListInvitationsRequest]) (*connect.Response[api.ListInvitationsResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	RejectInvitation(context.Context, *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	readOnly := readOnlyHandlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(TripServiceCreateProfileProcedure, connect.NewUnaryHandler(TripServiceCreateProfileProcedure, svc.CreateProfile, opts...))
	mux.Handle(TripServiceGetProfileProcedure, connect.NewUnaryHandler(TripServiceGetProfileProcedure, svc.GetProfile, readOnly...))
	mux.Handle(TripServiceCreateTripProcedure, connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...))
	mux.Handle(TripServiceGetTripProcedure, connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, readOnly...))
	mux.Handle(TripServiceListTripsProcedure, connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, readOnly...))
	mux.Handle(TripServiceUpdateTripProcedure, connect.NewUnaryHandler(TripServiceUpdateTripProcedure, svc.UpdateTrip, opts...))
	mux.Handle(TripServiceDeleteTripProcedure, connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts...))
	mux.Handle(TripServiceListMembersProcedure, connect.NewUnaryHandler(TripServiceListMembersProcedure, svc.ListMembers, readOnly...))
	mux.Handle(TripServiceRemoveMemberProcedure, connect.NewUnaryHandler(TripServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(TripServiceInviteProcedure, connect.NewUnaryHandler(TripServiceInviteProcedure, svc.Invite, opts...))
	mux.Handle(TripServiceListInvitationsProcedure, connect.NewUnaryHandler(TripServiceListInvitationsProcedure, svc.ListInvitations, readOnly...))
	mux.Handle(TripServiceAcceptInvitationProcedure, connect.NewUnaryHandler(TripServiceAcceptInvitationProcedure, svc.AcceptInvitation, opts...))
	mux.Handle(TripServiceRejectInvitationProcedure, connect.NewUnaryHandler(TripServiceRejectInvitationProcedure, svc.RejectInvitation, opts...))
	return "/tripsync.v1.TripService/", mux
}

// UnimplementedTripServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTripServiceHandler struct{}

func (UnimplementedTripServiceHandler) CreateProfile(context.Context, *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.CreateProfile is not implemented"))
}

func (UnimplementedTripServiceHandler) GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.GetProfile is not implemented"))
}

func (UnimplementedTripServiceHandler) CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.CreateTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.GetTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.ListTrips is not implemented"))
}

func (UnimplementedTripServiceHandler) UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.UpdateTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.DeleteTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.ListMembers is not implemented"))
}

func (UnimplementedTripServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.RemoveMember is not implemented"))
}

func (UnimplementedTripServiceHandler) Invite(context.Context, *connect.Request[api.InviteRequest]) (*connect.Response[api.InviteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.Invite is not implemented"))
}

func (UnimplementedTripServiceHandler) ListInvitations(context.Context, *connect.Request[api.ListInvitationsRequest]) (*connect.Response[api.ListInvitationsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.ListInvitations is not implemented"))
}

func (UnimplementedTripServiceHandler) AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.AcceptInvitation is not implemented"))
}

func (UnimplementedTripServiceHandler) RejectInvitation(context.Context, *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripsync.v1.TripService.RejectInvitation is not implemented"))
}
