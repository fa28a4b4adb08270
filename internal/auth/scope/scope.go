package scope

import (
	"errors"
	"strings"
)

type Scope string

var ErrInvalidScope = errors.New("invalid_scope")

// Wildcard grants every scope of every module.
const Wildcard Scope = "*"

const wildcardAction = "all"

const (
	UserAll     Scope = "user:all"
	UserCreate  Scope = "user:create"
	UserRead    Scope = "user:read"
	UserUpdate  Scope = "user:update"
	UserDelete  Scope = "user:delete"
	UserComment Scope = "user:comment"

	OrganizationAll    Scope = "organization:all"
	OrganizationCreate Scope = "organization:create"
	OrganizationRead   Scope = "organization:read"
	OrganizationUpdate Scope = "organization:update"
	OrganizationDelete Scope = "organization:delete"

	StaffAll    Scope = "staff:all"
	StaffCreate Scope = "staff:create"
	StaffRead   Scope = "staff:read"
	StaffInvite Scope = "staff:invite"
	StaffUpdate Scope = "staff:update"
	StaffRemove Scope = "staff:remove"

	BlogAll       Scope = "blog:all"
	BlogCreate    Scope = "blog:create"
	BlogRead      Scope = "blog:read"
	BlogUpdate    Scope = "blog:update"
	BlogDelete    Scope = "blog:delete"
	BlogComment   Scope = "blog:comment"
	BlogReview    Scope = "blog:review"
	BlogPublish   Scope = "blog:publish"
	BlogUnpublish Scope = "blog:unpublish"
)

var allScopes = []Scope{
	Wildcard,
	UserAll, UserCreate, UserRead, UserUpdate, UserDelete, UserComment,
	OrganizationAll, OrganizationCreate, OrganizationRead, OrganizationUpdate, OrganizationDelete,
	StaffAll, StaffCreate, StaffRead, StaffInvite, StaffUpdate, StaffRemove,
	BlogAll, BlogCreate, BlogRead, BlogUpdate, BlogDelete, BlogComment, BlogReview, BlogPublish, BlogUnpublish,
}

var validScopes = func() map[Scope]struct{} {
	lookup := make(map[Scope]struct{}, len(allScopes))
	for _, s := range allScopes {
		lookup[s] = struct{}{}
	}
	return lookup
}()

// Module returns the text before the first colon.
func (s Scope) Module() string {
	module, _, _ := strings.Cut(string(s), ":")
	return module
}

// ModuleWildcard returns "<module>:all" for s.
func (s Scope) ModuleWildcard() Scope {
	return Scope(s.Module() + ":" + wildcardAction)
}

func (s Scope) String() string {
	return string(s)
}

// All lists every known scope, wildcards included.
func All() []string {
	values := make([]string, len(allScopes))
	for i, s := range allScopes {
		values[i] = string(s)
	}
	return values
}

func IsValid(value string) bool {
	_, ok := validScopes[Scope(value)]
	return ok
}

func Parse(value string) (Scope, error) {
	if !IsValid(value) {
		return "", ErrInvalidScope
	}
	return Scope(value), nil
}

// Match reports whether a single granted scope satisfies requested.
// Only three forms match: the exact scope, its module wildcard, or "*".
func Match(granted, requested Scope) bool {
	if granted == "" || requested == "" {
		return false
	}
	switch granted {
	case Wildcard, requested:
		return true
	}
	return granted == requested.ModuleWildcard()
}

// Has reports whether any of granted satisfies requested.
func Has(granted []Scope, requested Scope) bool {
	for _, g := range granted {
		if Match(g, requested) {
			return true
		}
	}
	return false
}
