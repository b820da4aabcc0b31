package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// routePolicies: role, path pattern, method regexp.
var routePolicies = [][]string{
	{"carrier", "/api/v1/auctions", "GET"},
	{"carrier", "/api/v1/auctions/:bidNumber", "GET"},
	{"carrier", "/api/v1/auctions/:bidNumber/bids", "POST"},
	{"carrier", "/api/v1/bids/:bidID", "DELETE"},
	{"carrier", "/api/v1/carrier/*", "^(GET|POST|PATCH|DELETE)$"},

	{"admin", "/api/v1/auctions", "GET"},
	{"admin", "/api/v1/auctions/:bidNumber", "GET"},
	{"admin", "/api/v1/auctions/:bidNumber/bids", "GET"},
	{"admin", "/api/v1/admin/*", "^(GET|POST)$"},
	{"admin", "/api/v1/internal/*", "POST"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to init casbin enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(routePolicies); err != nil {
		return nil, fmt.Errorf("failed to load route policies: %w", err)
	}
	return enforcer, nil
}

// Authorize checks the actor's role against the route policies. Must run after Authenticate.
func Authorize(enforcer *casbin.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "actor not found in context"})
			return
		}

		allowed, err := enforcer.Enforce(string(actor.Role), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			slog.Error("casbin enforce failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		c.Next()
	}
}
