package middleware

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per peer address.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	idle    time.Duration
}

// NewRateLimiter allows rps sustained calls with bursts of burst per peer.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		idle:    3 * time.Minute,
	}
}

// Run drops idle peers every minute until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.sweep(now)
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for addr, c := range rl.clients {
		if now.Sub(c.seen) > rl.idle {
			delete(rl.clients, addr)
		}
	}
}

func (rl *RateLimiter) get(addr string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[addr]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[addr] = &client{lim: l, seen: time.Now()}
	return l
}

// IsReadOnly reports whether a procedure only reads state: its method
// name starts with Get or List.
func IsReadOnly(procedure string) bool {
	method := procedure[strings.LastIndex(procedure, "/")+1:]
	return strings.HasPrefix(method, "Get") || strings.HasPrefix(method, "List")
}

// Interceptor rejects mutating calls over the peer's budget with
// CodeResourceExhausted. Read-only procedures are never limited.
func (rl *RateLimiter) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if IsReadOnly(req.Spec().Procedure) {
				return next(ctx, req)
			}
			addr := peerHost(req.Peer().Addr)
			if !rl.get(addr).Allow() {
				return nil, connect.NewError(connect.CodeResourceExhausted, errors.New("too many requests"))
			}
			return next(ctx, req)
		}
	}
}

// peerHost strips the port so one host shares a bucket across connections.
func peerHost(addr string) string {
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
