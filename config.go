package goShop

import (
	"errors"
	"strings"
)

// Config defines a public type used by goShop APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Storage StorageConfig
	Routes  RoutesConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig names the keys of the persistent mirror. The defaults match
// the wire contract of the deployed storefront ("token", "user", "carrito")
// and must stay distinct from each other.
type StorageConfig struct {
	TokenKey string
	UserKey  string
	CartKey  string
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig defines a public type used by goShop APIs.
//
// RoutesConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoutesConfig struct {
	LoginPath         string
	ForbiddenPath     string
	ReturnURLParam    string
	DefaultResumePath string

	// AdminRole is the role claim value that grants access to admin routes.
	AdminRole string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goShop APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goShop APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			TokenKey: "token",
			UserKey:  "user",
			CartKey:  "carrito",
		},
		Routes: RoutesConfig{
			LoginPath:         "/login",
			ForbiddenPath:     "/acceso-denegado",
			ReturnURLParam:    "returnUrl",
			DefaultResumePath: "/",
			AdminRole:         "admin",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c Config) Validate() error {
	keys := []string{c.Storage.TokenKey, c.Storage.UserKey, c.Storage.CartKey}
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			return errors.New("storage keys must be non-empty")
		}
		if _, dup := seen[key]; dup {
			return errors.New("storage keys must be distinct")
		}
		seen[key] = struct{}{}
	}

	for _, path := range []string{c.Routes.LoginPath, c.Routes.ForbiddenPath, c.Routes.DefaultResumePath} {
		if !strings.HasPrefix(path, "/") {
			return errors.New("route paths must start with /")
		}
	}
	if strings.TrimSpace(c.Routes.ReturnURLParam) == "" {
		return errors.New("return url parameter must be non-empty")
	}
	if strings.TrimSpace(c.Routes.AdminRole) == "" {
		return errors.New("admin role must be non-empty")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}

	return nil
}
