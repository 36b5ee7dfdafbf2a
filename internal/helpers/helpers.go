package helpers

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const TicketQRFolder = "tickets"

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureCode produces the unique code printed into a ticket's QR:
// the current Unix-millisecond timestamp plus two independent random
// alphanumeric segments, uppercased. Uniqueness is probabilistic here and
// enforced for real by the codeIndex reservation at issuance.
func GenerateSecureCode() string {
	return strings.ToUpper(fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), randAlnum(13), randAlnum(13)))
}

func randAlnum(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// degrade to the first symbol rather than panic mid-sale.
			b[i] = codeAlphabet[0]
			continue
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b)
}

// FirebaseClaims are the claims carried in a Firebase ID token.
type FirebaseClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

const firebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// ValidateToken verifies a Firebase ID token against Google's securetoken
// JWKS. It is the verification path used when no service account is
// configured and the Admin SDK auth client is unavailable.
func ValidateToken(projectID, tokenStr string) (*AuthClaims, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(firebaseJWKSURL, keyfunc.Options{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token signing keys: %v", err)
	}
	defer jwks.EndBackground()

	claims := &FirebaseClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, jwks.Keyfunc,
		jwt.WithAudience(projectID),
		jwt.WithIssuer("https://securetoken.google.com/"+projectID),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid or expired token")
	}

	return &AuthClaims{
		UID:     claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// CloudinaryQRUploader adapts a Cloudinary account to the uploader the
// ticket service expects.
type CloudinaryQRUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryQRUploader(cld *cloudinary.Cloudinary) *CloudinaryQRUploader {
	return &CloudinaryQRUploader{cld: cld}
}

func (u *CloudinaryQRUploader) Upload(ctx context.Context, png []byte, ticketID string) (string, error) {
	return UploadTicketQR(ctx, u.cld, png, ticketID)
}

// UploadTicketQR stores a rendered QR PNG in the CDN and returns its URL.
// Optional: callers skip it when no Cloudinary account is configured.
func UploadTicketQR(ctx context.Context, cld *cloudinary.Cloudinary, png []byte, ticketID string) (string, error) {
	if cld == nil {
		return "", errors.New("cloudinary is not configured")
	}
	res, err := cld.Upload.Upload(ctx, bytes.NewReader(png), uploader.UploadParams{
		Folder:   TicketQRFolder,
		PublicID: ticketID,
		Tags:     []string{"farra-ticket-qr"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload QR image: %v", err)
	}
	return res.SecureURL, nil
}
