package service

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity es la identidad resuelta desde un token verificado.
type Identity struct {
	UserID string
	Email  string
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// TokenVerifier valida credenciales emitidas por el proveedor de identidad.
type TokenVerifier interface {
	Verify(tokenString string) (Identity, error)
}

// JWTVerifier verifica firma, expiración e issuer de los tokens del
// proveedor. El identificador sale del claim user_id o, en su defecto, sub.
type JWTVerifier struct {
	secret []byte
	issuer string
}

type identityClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTVerifier crea un verificador con la clave compartida con el proveedor.
// issuer vacío desactiva el chequeo de emisor.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (v *JWTVerifier) Verify(tokenString string) (Identity, error) {
	if len(v.secret) == 0 {
		return Identity{}, ErrTokenInvalid
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Identity{}, ErrTokenInvalid
	}

	var claims identityClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return Identity{}, ErrTokenInvalid
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		userID = strings.TrimSpace(claims.Subject)
	}
	if userID == "" {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{UserID: userID, Email: claims.Email}, nil
}
