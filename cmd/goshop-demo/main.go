// Command goshop-demo drives an engine through a typical storefront session:
// guarded navigation, login, cart mutations, and a final metrics scrape.
// It runs against a real Redis (REDIS_ADDR or -redis-addr) or an embedded
// miniredis when neither is set.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	goShop "github.com/MrEthical07/goShop"
	"github.com/MrEthical07/goShop/metrics/export/prometheus"
	"github.com/MrEthical07/goShop/storage"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gs", "storage key prefix")
		metricsAddr = flag.String("metrics-addr", "", "serve /metrics on this address after the run (empty: print and exit)")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not load .env")
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var client redis.UniversalClient
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			log.WithError(err).Fatal("failed to start miniredis")
		}
		defer mr.Close()
		addr = mr.Addr()
		log.WithField("addr", addr).Info("using embedded miniredis")
	} else {
		log.WithField("addr", addr).Info("using redis")
	}
	client = redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{addr},
	})
	defer client.Close()

	engine, err := goShop.New().
		WithStorage(storage.NewRedisStore(client, *prefix)).
		WithAuditSink(goShop.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		log.WithError(err).Fatal("engine construction failed")
	}
	defer engine.Close()

	// anonymous visit: the catalog is public, orders are not
	report(log, "catalog", engine.Authorize(ctx, goShop.Route{FullPath: "/productos"}))
	report(log, "orders", engine.Authorize(ctx, goShop.Route{FullPath: "/pedidos", RequiresAuth: true}))

	// simulate the login the redirect asked for by minting a token the way
	// the remote API would
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "demo@tienda.com",
		"rol": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("demo-secret"))
	if err != nil {
		log.WithError(err).Fatal("token mint failed")
	}
	store := storage.NewRedisStore(client, *prefix)
	if err := store.Set(ctx, "token", token); err != nil {
		log.WithError(err).Fatal("token seed failed")
	}
	if err := store.Set(ctx, "user", "demo@tienda.com"); err != nil {
		log.WithError(err).Fatal("user seed failed")
	}

	info := engine.SessionInfo(ctx)
	log.WithFields(logrus.Fields{
		"user": info.User,
		"role": info.Role,
	}).Info("session established")

	report(log, "orders", engine.Authorize(ctx, goShop.Route{FullPath: "/pedidos", RequiresAuth: true}))
	report(log, "admin", engine.Authorize(ctx, goShop.Route{FullPath: "/admin/productos", RequiresAdmin: true}))

	cart := engine.Cart()
	must(log, cart.Add(ctx, goShop.Product{ID: 1, Name: "Café molido", Price: 8.5}, 2))
	must(log, cart.Add(ctx, goShop.Product{ID: 2, Name: "Filtros", Price: 3.0}, 1))
	must(log, cart.Increment(ctx, 2))
	must(log, cart.Decrement(ctx, 1))
	log.WithFields(logrus.Fields{
		"entries": cart.Len(),
		"total":   cart.Total(),
	}).Info("cart state")

	must(log, engine.Logout(ctx))

	exporter := prometheus.NewExporter(engine)
	if *metricsAddr != "" {
		log.WithField("addr", *metricsAddr).Info("serving /metrics")
		http.Handle("/metrics", exporter.Handler())
		log.Fatal(http.ListenAndServe(*metricsAddr, nil))
	}
	os.Stdout.WriteString(exporter.Render())
}

func report(log *logrus.Logger, route string, decision goShop.Decision) {
	fields := logrus.Fields{"route": route}
	switch decision.Kind {
	case goShop.DecisionProceed:
		log.WithFields(fields).Info("proceed")
	case goShop.DecisionRedirectLogin:
		fields["redirect"] = decision.RedirectTo
		log.WithFields(fields).Info("redirect to login")
	case goShop.DecisionRedirectForbidden:
		fields["redirect"] = decision.RedirectTo
		log.WithFields(fields).Info("redirect to forbidden")
	case goShop.DecisionRevokeAndRedirectLogin:
		fields["redirect"] = decision.RedirectTo
		log.WithFields(fields).Warn("session revoked, redirect to login")
	}
}

func must(log *logrus.Logger, err error) {
	if err != nil {
		log.WithError(err).Fatal("cart operation failed")
	}
}
