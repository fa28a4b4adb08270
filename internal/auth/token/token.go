// Package token mints and verifies the signed access/refresh pair carried in
// session cookies.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/config"
)

var errEmptySecret = errors.New("token: signing secret is empty")

// Identity is the user snapshot embedded in every token.
type Identity struct {
	ID                   snowflake.ID  `json:"id"`
	Email                string        `json:"email"`
	ActiveOrganizationID *snowflake.ID `json:"active_organization_id"`
	FirstName            string        `json:"first_name"`
	LastName             string        `json:"last_name"`
}

type Content struct {
	Data Identity `json:"data"`
}

// Type tells access and refresh tokens apart.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims is shared by access and refresh tokens; Type and expiry differ.
type Claims struct {
	Content Content `json:"content"`
	Type    Type    `json:"typ"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type Options struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
	parser     *jwt.Parser
}

func NewManager(cfg config.Config, clk clock.Clock) (*Manager, error) {
	return New(Options{
		Secret:     cfg.AuthJWTSecret,
		Issuer:     cfg.AuthJWTIssuer,
		AccessTTL:  cfg.AuthAccessTokenTTL,
		RefreshTTL: cfg.AuthRefreshTokenTTL,
	}, clk)
}

func New(opts Options, clk clock.Clock) (*Manager, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errEmptySecret
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 30 * 24 * time.Hour
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(clk.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}

	return &Manager{
		secret:     []byte(opts.Secret),
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		clock:      clk,
		parser:     jwt.NewParser(parserOpts...),
	}, nil
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// CreatePair signs a fresh access and refresh token for identity.
func (m *Manager) CreatePair(identity Identity) (Pair, error) {
	now := m.clock.Now()

	access, accessExp, err := m.sign(identity, TypeAccess, now, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, refreshExp, err := m.sign(identity, TypeRefresh, now, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify returns the embedded claims of a token of type want. Bad signature,
// malformed payload, expiry and a type mismatch all fail with
// apperr.ErrInvalidToken.
func (m *Manager) Verify(raw string, want Type) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperr.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := m.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperr.ErrInvalidToken
	}

	if claims.Type != want {
		return nil, apperr.ErrInvalidToken
	}
	if claims.ID == "" || claims.Content.Data.ID == 0 || claims.Subject != claims.Content.Data.ID.String() {
		return nil, apperr.ErrInvalidToken
	}

	return claims, nil
}

func (m *Manager) sign(identity Identity, typ Type, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	jti, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return "", time.Time{}, err
	}

	claims := Claims{
		Content: Content{Data: identity},
		Type:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   identity.ID.String(),
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
