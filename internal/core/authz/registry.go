package authz

import (
	"strings"

	"github.com/guardpost/access-api/internal/core/domain"
)

// Registry is the explicit policy table, built once at startup and read-only
// afterwards — which is why it needs no locking. Route rules key on HTTP
// method plus path pattern; operation rules key on operation name. Anything
// not registered denies.
type Registry struct {
	routes     map[string]Expression
	wildcards  []wildcardRule
	operations map[string]Expression
}

type wildcardRule struct {
	method string
	prefix string
	expr   Expression
}

func NewRegistry() *Registry {
	return &Registry{
		routes:     make(map[string]Expression),
		operations: make(map[string]Expression),
	}
}

// Route registers a required expression for method + path pattern. A pattern
// ending in "/*" matches every path under its prefix; exact patterns win over
// wildcard ones. Returns the registry for chained registration.
func (r *Registry) Route(method, pattern string, expr Expression) *Registry {
	if strings.HasSuffix(pattern, "/*") {
		r.wildcards = append(r.wildcards, wildcardRule{
			method: method,
			prefix: strings.TrimSuffix(pattern, "*"),
			expr:   expr,
		})
		return r
	}
	r.routes[routeKey(method, pattern)] = expr
	return r
}

// Operation registers a required expression for a named operation.
func (r *Registry) Operation(name string, expr Expression) *Registry {
	r.operations[name] = expr
	return r
}

// RouteExpression returns the expression registered for the route, or nil
// when none matches (which Decide turns into a deny).
func (r *Registry) RouteExpression(method, path string) Expression {
	if expr, ok := r.routes[routeKey(method, path)]; ok {
		return expr
	}
	var best Expression
	bestLen := -1
	for _, w := range r.wildcards {
		if w.method == method && strings.HasPrefix(path, w.prefix) && len(w.prefix) > bestLen {
			best, bestLen = w.expr, len(w.prefix)
		}
	}
	return best
}

// OperationExpression returns the expression registered for the operation,
// or nil when the operation is unknown.
func (r *Registry) OperationExpression(name string) Expression {
	return r.operations[name]
}

// DecideRoute evaluates the route-level rule for method + path against the
// granted authorities. Unregistered routes deny.
func (r *Registry) DecideRoute(method, path string, granted domain.Authorities) Decision {
	return Decide(r.RouteExpression(method, path), granted)
}

// DecideOperation evaluates the operation-level rule against the granted
// authorities. Unregistered operations deny, so an operation guard can only
// narrow a route-level allow, never widen it.
func (r *Registry) DecideOperation(name string, granted domain.Authorities) Decision {
	return Decide(r.OperationExpression(name), granted)
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}
