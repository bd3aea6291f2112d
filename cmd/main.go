package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	s3 "learnhub/aws"
	"learnhub/database"
	"learnhub/internal/cache"
	"learnhub/internal/config"
	"learnhub/internal/handlers"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	httputil "learnhub/internal/utility/http"
	"learnhub/internal/utility/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: %v", err)
	}
	log.Setup(cfg.Env, cfg.Debug, cfg.RollbarToken)
	defer log.Close()
	httputil.Debug = cfg.Debug

	if err = run(cfg); err != nil {
		log.Error("server stopped: %+v", err)
		log.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.DBinstance(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("disconnect mongo: %v", err)
		}
	}()
	db := client.Database(cfg.Mongo.Database)
	if err = database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	var c cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		if err = rdb.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "ping redis")
		}
		c = cache.NewRedis(rdb, cfg.Redis.TTL)
	}

	uploader, uploadDir, err := newUploader(ctx, cfg)
	if err != nil {
		return err
	}

	h := handlers.New(handlers.Deps{
		Collections:    store.NewMongoCollections(db, cfg.Mongo.Timeout),
		Tokens:         utility.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		Uploader:       uploader,
		Mailer:         utility.NewEmailService(cfg.Mail.SendgridKey, "LearnHub", cfg.Mail.From),
		Cache:          c,
		NotifyTo:       cfg.Mail.AdminTo,
		UploadDir:      uploadDir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, client)
		},
	})
	if err = h.BootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server is running on %s (%s)", cfg.Server.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err = <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

// newUploader returns the configured image store and, for local storage,
// the directory served under /uploads.
func newUploader(ctx context.Context, cfg *config.Config) (utility.Uploader, string, error) {
	var store utility.ObjectStore
	switch cfg.Storage.Driver {
	case "s3":
		sess, err := s3.CreateSession(s3.AWSConfig{
			AccessKeyID:     cfg.AWS.AccessKey,
			AccessKeySecret: cfg.AWS.SecretKey,
			Region:          cfg.AWS.Region,
		})
		if err != nil {
			return nil, "", err
		}
		store = s3.NewBucket(sess, cfg.AWS.Bucket)
	case "r2":
		bucket, err := utility.NewR2Bucket(ctx, utility.R2Config{
			Endpoint:  cfg.AWS.Endpoint,
			Bucket:    cfg.AWS.Bucket,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
		})
		if err != nil {
			return nil, "", err
		}
		store = bucket
	default:
		return utility.LocalUploader{Dir: cfg.Storage.LocalDir, PublicBase: cfg.Storage.PublicBase}, cfg.Storage.LocalDir, nil
	}

	// the default public base points at the local file server
	publicBase := cfg.Storage.PublicBase
	if publicBase == "/uploads" {
		publicBase = ""
	}
	return utility.S3Uploader{Store: store, Prefix: "uploads", PublicBase: publicBase}, "", nil
}
