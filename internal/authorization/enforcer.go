package authorization

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
)

//go:embed model.conf
var modelText string

// NewEnforcer builds an in-memory enforcer seeded from the compiled grant
// table. Policies are never persisted or changed after startup.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("scopeMatch", scopeMatchFunc)

	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	var rules [][]string
	for _, role := range scope.Roles() {
		for _, granted := range scope.Grants(role) {
			rules = append(rules, []string{string(role), string(granted)})
		}
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return err
	}
	return nil
}

func scopeMatchFunc(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return false, fmt.Errorf("scopeMatch: expected 2 arguments, got %d", len(args))
	}
	granted, ok := args[0].(string)
	if !ok {
		return false, fmt.Errorf("scopeMatch: granted scope must be a string")
	}
	requested, ok := args[1].(string)
	if !ok {
		return false, fmt.Errorf("scopeMatch: requested scope must be a string")
	}
	return scope.Match(scope.Scope(granted), scope.Scope(requested)), nil
}
