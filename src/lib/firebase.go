package lib

import (
	"bookings/src/config"
	"context"
	"log"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	appMu          sync.Mutex
	innerApp       *firebase.App
	innerAuth      *auth.Client
	innerMessaging *messaging.Client
	innerFirestore *firestore.Client
)

func getOpts(cfg config.Config) []option.ClientOption {
	credentials := cfg.CredentialsFile()
	if _, err := os.Stat(credentials); err != nil {
		// fall back to application default credentials
		log.Printf("[firebase] credentials file %s not readable, using default credentials: %s\n", credentials, err.Error())
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentials)}
}

func getApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	if innerApp != nil {
		return innerApp, nil
	}
	var fbcfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbcfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(ctx, fbcfg, getOpts(cfg)...)
	if err != nil {
		log.Printf("[firebase] error initializing app: %s\n", err.Error())
		return nil, err
	}
	innerApp = app
	return app, nil
}

func GetFirebaseAuth(ctx context.Context, cfg config.Config) (*auth.Client, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if innerAuth != nil {
		return innerAuth, nil
	}
	app, err := getApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		log.Printf("[firebase] error initializing Firebase Auth: %s\n", err.Error())
		return nil, err
	}
	innerAuth = client
	return client, nil
}

func GetFirebaseMessaging(ctx context.Context, cfg config.Config) (*messaging.Client, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if innerMessaging != nil {
		return innerMessaging, nil
	}
	app, err := getApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("[firebase] error initializing FCM: %s\n", err.Error())
		return nil, err
	}
	innerMessaging = client
	return client, nil
}

func GetFirestore(ctx context.Context, cfg config.Config) (*firestore.Client, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if innerFirestore != nil {
		return innerFirestore, nil
	}
	app, err := getApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		log.Printf("[firebase] error initializing Firestore: %s\n", err.Error())
		return nil, err
	}
	innerFirestore = client
	return client, nil
}

// CloseFirebase releases the Firestore connection, if one was opened.
func CloseFirebase() error {
	appMu.Lock()
	defer appMu.Unlock()
	if innerFirestore == nil {
		return nil
	}
	err := innerFirestore.Close()
	innerFirestore = nil
	return err
}

// NewFirebaseApp replaces the app instance, e.g. with one pointed at the
// emulators, and drops clients built from the previous one. nil resets it.
func NewFirebaseApp(app *firebase.App) {
	appMu.Lock()
	defer appMu.Unlock()
	innerApp = app
	innerAuth = nil
	innerMessaging = nil
	innerFirestore = nil
}
