package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// MemberHeader carries the caller's profile ID. The gateway in front of the
// server authenticates callers and sets it; this server trusts it as given.
const MemberHeader = "X-Tripsync-Member"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// MemberIDKey is the context key for storing the calling member ID.
const MemberIDKey contextKey = "member_id"

// GetMemberID extracts the member ID from the context.
// Returns empty string if not found.
func GetMemberID(ctx context.Context) string {
	memberID, _ := ctx.Value(MemberIDKey).(string)
	return memberID
}

// WithMemberID returns a copy of ctx carrying memberID.
func WithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, MemberIDKey, memberID)
}

// Identity returns an interceptor that copies MemberHeader into the request
// context. Requests without the header pass through unchanged.
func Identity() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := strings.TrimSpace(req.Header().Get(MemberHeader)); id != "" {
				ctx = WithMemberID(ctx, id)
			}
			return next(ctx, req)
		}
	}
}
