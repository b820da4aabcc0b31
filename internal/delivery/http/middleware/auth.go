package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIdentityResolver verifies tokens issued by the auth service. The
// subject claim is the user id.
type JWTIdentityResolver struct {
	secret []byte
}

func NewJWTIdentityResolver(secret string) *JWTIdentityResolver {
	return &JWTIdentityResolver{secret: []byte(secret)}
}

func (r *JWTIdentityResolver) ResolveActor(tokenString string) (*domain.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("token has no subject")
	}
	role := domain.Role(claims.Role)
	if role != domain.RoleAdmin && role != domain.RoleCarrier {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}
	return &domain.Actor{ID: subject, Role: role}, nil
}

// Authenticate проверяет Bearer-токен и кладёт Actor в контекст запроса.
func Authenticate(resolver domain.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		actor, err := resolver.ResolveActor(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the caller set by Authenticate.
func ActorFrom(c *gin.Context) (*domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil, false
	}
	actor, ok := v.(*domain.Actor)
	return actor, ok
}

// SetActor is used by the websocket handler, which authenticates via query string.
func SetActor(c *gin.Context, actor *domain.Actor) {
	c.Set(actorKey, actor)
}
