package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/flaskinni/inni/internal/auth"
	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/events"
	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RevocationChecker reports whether a token id has been revoked.
// Satisfied by auth.Blocklist.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// BuzzFeed streams newly recorded ledger entries to connected admin
// panels over a websocket, fed by the redis buzz stream.
type BuzzFeed struct {
	cfg         *config.Config
	identity    *services.IdentityService
	subscriber  events.Subscriber
	revocations RevocationChecker
	log         *zap.Logger
	mu          sync.RWMutex
	conns       map[*websocket.Conn]struct{}
}

func NewBuzzFeed(cfg *config.Config, identity *services.IdentityService, subscriber events.Subscriber, revocations RevocationChecker, log *zap.Logger) *BuzzFeed {
	return &BuzzFeed{
		cfg:         cfg,
		identity:    identity,
		subscriber:  subscriber,
		revocations: revocations,
		log:         log,
		conns:       make(map[*websocket.Conn]struct{}),
	}
}

func (f *BuzzFeed) Start(ctx context.Context) {
	_ = f.subscriber.Subscribe(ctx, events.StreamBuzz, func(event events.Event) {
		f.broadcast(event)
	})
}

func (f *BuzzFeed) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for conn := range f.conns {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// authorize validates the token query parameter the same way the HTTP
// path does: signature, then the revocation blocklist, then the admin
// role. Unlike the soft HTTP middleware, the audit stream fails closed
// when the blocklist cannot be checked.
func (f *BuzzFeed) authorize(ctx context.Context, tokenStr string) error {
	if tokenStr == "" {
		return errors.New("missing token")
	}

	claims, err := auth.ParseJWT(f.cfg.JWTSecret, tokenStr)
	if err != nil {
		return errors.New("invalid token")
	}

	if f.revocations != nil {
		revoked, err := f.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			f.log.Warn("blocklist check failed", zap.Error(err))
			return errors.New("invalid token")
		}
		if revoked {
			return errors.New("invalid token")
		}
	}

	p, err := f.identity.PrincipalFor(ctx, claims.UserID)
	if err != nil || !rbac.RequireAll(p, models.RoleAdmin) {
		return errors.New("not authorized")
	}
	return nil
}

// HandleWS authenticates the connection from its token query parameter
// and requires the admin role; the feed is an admin-panel surface.
func (f *BuzzFeed) HandleWS(conn *websocket.Conn) {
	if err := f.authorize(context.Background(), conn.Query("token")); err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
		conn.Close()
		return
	}

	f.mu.Lock()
	f.conns[conn] = struct{}{}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.conns, conn)
		f.mu.Unlock()
		conn.Close()
	}()

	// Read loop keeps the connection alive and notices closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
