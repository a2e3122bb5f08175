package ctxkeys

import (
	"context"

	"github.com/futurenote/futurenote/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AdminKey     contextKey = "admin"
	ClientIPKey  contextKey = "client_ip"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

// Admin identifies the signed-in administrator for the request.
type Admin struct {
	ID    string
	Email string
	Role  string
}

func AdminFrom(ctx context.Context) *Admin {
	admin, _ := ctx.Value(AdminKey).(*Admin)
	return admin
}

func WithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, AdminKey, admin)
}

// ClientIP is the submitter identifier resolved by the middleware chain.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPKey).(string)
	return ip
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
