package boot

import (
	"bookings/src/config"
	"bookings/src/db"
	"bookings/src/lib"
	awslib "bookings/src/lib/aws"
	"bookings/src/store"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"
)

// EnsureCredentials downloads the Firebase admin credentials from the
// secrets bucket when the file is not already on disk.
func EnsureCredentials(ctx context.Context, cfg config.Config, client awslib.ObjectGetter) error {
	credentials := cfg.CredentialsFile()
	if _, err := os.Stat(credentials); err == nil {
		log.Printf("[boot] credentials file %s exists\n", credentials)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if cfg.SecretsBucket == "" {
		log.Println("[boot] no S3_SECRETS_BUCKET configured, skipping credentials download")
		return nil
	}
	if client == nil {
		c, err := awslib.GetS3Client(ctx)
		if err != nil {
			return err
		}
		client = c
	}
	log.Println("[boot] credentials file not found. Downloading...")
	return awslib.DownloadObject(ctx, client, cfg.SecretsBucket, config.CREDENTIALS_FILENAME, credentials)
}

// InitStore opens the configured backend. The returned func releases it.
func InitStore(ctx context.Context, cfg config.Config) (store.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.STORE_MEMORY:
		log.Println("[boot] using in-memory store")
		return store.NewMemoryStore(), func() error { return nil }, nil
	case config.STORE_POSTGRES:
		gdb, err := db.GetDb(cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		s := store.NewGormStore(gdb)
		if err := s.Migrate(); err != nil {
			log.Printf("[boot] error migration: %s\n", err.Error())
			return nil, nil, err
		}
		log.Println("[boot] using postgres store")
		return s, db.Close, nil
	case config.STORE_FIRESTORE, "":
		client, err := lib.GetFirestore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Println("[boot] using firestore store")
		return store.NewFirestoreStore(client), lib.CloseFirebase, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// InitServiceCache returns a Redis cache when REDIS_HOST is reachable.
func InitServiceCache(ctx context.Context, cfg config.Config) lib.ServiceCache {
	rdb := lib.GetRedisClient(cfg.RedisHost)
	if rdb == nil {
		return lib.NoopServiceCache{}
	}
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := lib.PingRedis(pctx, rdb); err != nil {
		return lib.NoopServiceCache{}
	}
	log.Printf("[boot] caching service snapshots in redis for %s\n", cfg.ServiceCacheTTL)
	return lib.NewRedisServiceCache(rdb, cfg.ServiceCacheTTL)
}

func InitNotifier(ctx context.Context, cfg config.Config) lib.Notifier {
	if !cfg.NotificationsEnabled {
		return lib.NoopNotifier{}
	}
	fcm, err := lib.GetFirebaseMessaging(ctx, cfg)
	if err != nil {
		log.Printf("[boot] notifications disabled: %s\n", err.Error())
		return lib.NoopNotifier{}
	}
	return lib.NewFCMNotifier(fcm)
}
