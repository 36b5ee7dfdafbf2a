package connect

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"github.com/cloudinary/cloudinary-go/v2"
	pubnub "github.com/pubnub/go/v7"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/farra-app/farra-api/internal/config"
	"github.com/farra-app/farra-api/internal/helpers"
)

// Firebase bundles the Admin SDK clients the rest of the application uses.
type Firebase struct {
	App      *firebase.App
	Database *db.Client
	Auth     *auth.Client
}

// InitFirebase builds the Admin SDK app. Credentials come from a service
// account file, an inline base64 JSON key, or Application Default
// Credentials, in that order of preference.
func InitFirebase(ctx context.Context, cfg *config.Config) (*Firebase, error) {
	var opts []option.ClientOption
	if cfg.GoogleApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleApplicationCredentials))
	} else if cfg.FirebaseServiceAccountJSONBase64 != "" {
		jsonKey, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not valid base64")
		}
		opts = append(opts, option.WithCredentialsJSON(jsonKey))
	}

	conf := &firebase.Config{
		ProjectID:   cfg.FirebaseProjectID,
		DatabaseURL: cfg.FirebaseDatabaseURL,
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %v", err)
	}

	database, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Realtime Database client: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase Auth client: %v", err)
	}

	return &Firebase{App: app, Database: database, Auth: authClient}, nil
}

// AdminVerifier checks ID tokens through the Firebase Admin SDK.
type AdminVerifier struct {
	auth *auth.Client
}

func NewAdminVerifier(authClient *auth.Client) *AdminVerifier {
	return &AdminVerifier{auth: authClient}
}

func (v *AdminVerifier) Verify(ctx context.Context, idToken string) (*helpers.AuthClaims, error) {
	tok, err := v.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}
	return &helpers.AuthClaims{
		UID:     tok.UID,
		Email:   stringClaim(tok.Claims, "email"),
		Name:    stringClaim(tok.Claims, "name"),
		Picture: stringClaim(tok.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// JWKSVerifier validates tokens against Google's public signing keys. It
// needs no service account, only the project ID.
type JWKSVerifier struct {
	projectID string
}

func NewJWKSVerifier(projectID string) *JWKSVerifier {
	return &JWKSVerifier{projectID: projectID}
}

func (v *JWKSVerifier) Verify(_ context.Context, idToken string) (*helpers.AuthClaims, error) {
	return helpers.ValidateToken(v.projectID, idToken)
}

// NewRedisClient creates a Redis client with connection pooling and pings
// it once before handing it out.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		// Fall back to treating the value as a bare address
		opts = &redis.Options{Addr: url}
	}
	opts.PoolSize = 100
	opts.MinIdleConns = 10
	opts.MaxRetries = 3

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	return client, nil
}

// InitPubNub configures the realtime fan-out client.
func InitPubNub(cfg *config.Config) *pubnub.PubNub {
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId("farra-api"))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	return pubnub.NewPubNub(pnConfig)
}

// InitCloudinary connects the CDN used for ticket QR images.
func InitCloudinary(cfg *config.Config) (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %v", err)
	}
	return cld, nil
}
