package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const (
	// RoleAsker may submit questions and read schema and history.
	RoleAsker = "asker"
	// RoleViewer may read the schema and conversation history only.
	RoleViewer = "viewer"
	// RoleAdmin implies every other role.
	RoleAdmin = "admin"
)

type Identity struct {
	UserID string
	Roles  []string
}

func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role) || slices.Contains(i.Roles, RoleAdmin)
}

func (i Identity) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if i.HasRole(role) {
			return true
		}
	}
	return false
}

type APIKeyValidator interface {
	Validate(ctx context.Context, apiKey string) (Identity, bool)
}

// StaticAPIKeyValidator resolves keys configured as a comma-separated list of
// key:user:role|role entries.
type StaticAPIKeyValidator struct {
	keys map[string]Identity
}

func NewStaticAPIKeyValidator(spec string) (*StaticAPIKeyValidator, error) {
	validator := &StaticAPIKeyValidator{keys: map[string]Identity{}}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return validator, nil
	}

	for _, entry := range strings.Split(spec, ",") {
		key, identity, err := parseStaticKeyEntry(entry)
		if err != nil {
			return nil, err
		}
		if _, exists := validator.keys[key]; exists {
			return nil, fmt.Errorf("duplicate static key for user %q", identity.UserID)
		}
		validator.keys[key] = identity
	}
	return validator, nil
}

func parseStaticKeyEntry(entry string) (string, Identity, error) {
	key, rest, ok := strings.Cut(strings.TrimSpace(entry), ":")
	user, roleList, ok2 := strings.Cut(rest, ":")
	if !ok || !ok2 || strings.Contains(roleList, ":") {
		return "", Identity{}, fmt.Errorf("invalid static key entry %q: expected key:user:role|role", entry)
	}
	key = strings.TrimSpace(key)
	user = strings.TrimSpace(user)
	if key == "" || user == "" {
		return "", Identity{}, fmt.Errorf("invalid static key entry %q: empty key/user", entry)
	}

	roles := make([]string, 0, 2)
	for _, role := range strings.Split(roleList, "|") {
		if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		return "", Identity{}, fmt.Errorf("invalid static key entry %q: at least one role is required", entry)
	}
	slices.Sort(roles)
	return key, Identity{UserID: user, Roles: slices.Compact(roles)}, nil
}

func (v *StaticAPIKeyValidator) Validate(_ context.Context, apiKey string) (Identity, bool) {
	identity, ok := v.keys[apiKey]
	return identity, ok
}
