// Command deinflect-server exposes the deinflection engine as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/deinflect?word=<word>
//	GET  /api/prefixes?text=<text>
//	GET  /api/reasons
//	GET  /healthz
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/fx"
	"golang.org/x/net/netutil"

	"github.com/cognicore/deinflect/internal/source"
	"github.com/cognicore/deinflect/pkg/deinflect"
	"github.com/cognicore/deinflect/pkg/deinflect/config"
)

type flags struct {
	configPath string
	addr       string
}

func main() {
	configPath := flag.String("config", "", "Server config file (YAML)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	fx.New(
		fx.NopLogger,
		fx.Supply(flags{configPath: *configPath, addr: *addr}),
		fx.Provide(
			loadConfig,
			openDeinflector,
			newServer,
		),
		fx.Invoke(serve),
	).Run()
}

func loadConfig(f flags) (*config.ServerConfig, error) {
	cfg := config.DefaultServerConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = config.LoadServerConfig(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	return cfg, cfg.Validate()
}

func openDeinflector(cfg *config.ServerConfig) (*deinflect.Deinflector, error) {
	d, src, err := source.Open(context.Background(), source.Options{
		RulesPath: cfg.RulesPath,
		StorePath: cfg.StorePath,
		Snapshot:  cfg.Snapshot,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d rules from %s", d.Catalog().Len(), src)
	return d, nil
}

func serve(lc fx.Lifecycle, s *server) {
	hs := &http.Server{
		Handler: cors.New(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}).Handler(s.routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", s.cfg.Addr)
			if err != nil {
				return err
			}
			if s.cfg.MaxConns > 0 {
				ln = netutil.LimitListener(ln, s.cfg.MaxConns)
			}
			log.Printf("listening on %s", ln.Addr())
			go func() {
				if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return hs.Shutdown(ctx)
		},
	})
}
