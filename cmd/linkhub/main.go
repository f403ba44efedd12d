package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	shutdown "github.com/klauspost/shutdown2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/net/context"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shaogx/bocadillo"
	"github.com/shaogx/bocadillo/example"
	"github.com/shaogx/bocadillo/example/models"
	"github.com/shaogx/bocadillo/libs"
)

const (
	name          = "linkhub"
	portKey       = "server.port"
	driverKey     = "store.driver"
	sqlitePathKey = "sqlite.path"
)

func main() {
	log := libs.InitLogging()
	rootCmd := &cobra.Command{
		Use:   name,
		Short: "Link shortener built on the bocadillo router",
	}
	rootCmd.AddCommand(serveCommand(log))
	rootCmd.AddCommand(routesCommand(log))
	libs.PreExecuteConfiguration(rootCmd, name, log)
	libs.Execute(rootCmd, log)
}

// newLinks builds the link service from viper config: the store driver, the
// optional redis cache and the hit feed.
func newLinks(log *zap.Logger) (*models.Links, error) {
	var store models.Store

	switch viper.GetString(driverKey) {
	case "mongo":
		client, err := libs.NewMongoFromViper(log)
		if err != nil {
			return nil, errors.Wrap(err, "libs.NewMongoFromViper")
		}
		store = models.NewMongoStore(client.Database(viper.GetString(libs.KeyMongoDb)))

	case "sqlite":
		path := viper.GetString(sqlitePathKey)
		if len(path) == 0 {
			path = "linkhub.db"
		}
		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, errors.Wrap(err, "gorm.Open")
		}
		if store, err = models.NewGormStore(db); err != nil {
			return nil, errors.Wrap(err, "models.NewGormStore")
		}

	default:
		db, err := libs.NewMysqlFromViper(log)
		if err != nil {
			return nil, errors.Wrap(err, "libs.NewMysqlFromViper")
		}
		if store, err = models.NewGormStore(db); err != nil {
			return nil, errors.Wrap(err, "models.NewGormStore")
		}
	}

	if len(viper.GetString(libs.KeyRedisAddr)) != 0 {
		client, err := libs.NewRedisFromViper(log)
		if err != nil {
			return nil, errors.Wrap(err, "libs.NewRedisFromViper")
		}
		return models.NewLinks(log, store, client, models.NewFeed(client, log)), nil
	}

	return models.NewLinks(log, store, nil, nil), nil
}

func serveCommand(zapLogger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start server",
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := newLinks(zapLogger)
			if err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			app, err := bocadillo.New(bocadillo.Config{
				Logger:  zapLogger,
				Metrics: registry,
			})
			if err != nil {
				return errors.Wrap(err, "bocadillo.New")
			}

			if err := example.Register(app, zapLogger, links); err != nil {
				return errors.Wrap(err, "example.Register")
			}

			c := cors.New(cors.Options{
				AllowedOrigins:   []string{"*"},
				AllowCredentials: true,
				AllowedMethods: []string{
					http.MethodPost, http.MethodGet, http.MethodPut, http.MethodDelete,
				},
			})

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			mux.Handle("/", c.Handler(app))

			port := viper.GetString(portKey)
			if len(port) == 0 {
				port = "80"
			}

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%s", port),
				Handler: mux,
			}

			shutdown.OnSignal(0, os.Interrupt, syscall.SIGTERM)
			shutdown.FirstFn(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					zapLogger.Error("server shutdown", zap.Error(err))
				}
			})

			zapLogger.Info(fmt.Sprintf("Server has started with port: %s", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "srv.ListenAndServe")
			}
			shutdown.Wait()
			return nil
		},
	}
}

func routesCommand(zapLogger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			// An in-memory store is enough to materialize the route table.
			db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
			if err != nil {
				return errors.Wrap(err, "gorm.Open")
			}
			store, err := models.NewGormStore(db)
			if err != nil {
				return errors.Wrap(err, "models.NewGormStore")
			}
			links := models.NewLinks(zapLogger, store, nil, nil)

			app, err := bocadillo.New(bocadillo.Config{})
			if err != nil {
				return errors.Wrap(err, "bocadillo.New")
			}
			if err := example.Register(app, zapLogger, links); err != nil {
				return errors.Wrap(err, "example.Register")
			}

			for _, route := range app.Routes() {
				methods := make([]string, 0, 8)
				for _, m := range route.Methods() {
					methods = append(methods, string(m))
				}
				fmt.Printf("%-16s %-40s %s\n", route.Name(), strings.Join(methods, ","), route.Pattern())
			}
			return nil
		},
	}
}
