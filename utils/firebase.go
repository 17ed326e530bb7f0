package utils

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/housefit/apartment-management-backend/config"
	"google.golang.org/api/option"
)

// NewFCMClient initializes the Firebase Admin SDK and returns a messaging
// client. A nil client with a nil error means push is not configured.
func NewFCMClient(ctx context.Context, cfg *config.Config) (*messaging.Client, error) {
	if cfg.FCMCredentialsPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfg.FCMCredentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found: %s", cfg.FCMCredentialsPath)
	}

	var fbCfg *firebase.Config
	if cfg.FCMProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FCMProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.FCMCredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting FCM client: %w", err)
	}
	return client, nil
}
