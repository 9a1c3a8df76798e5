package model

import "strings"

// ScopeShared is the document scope visible to every user.
const ScopeShared = "shared"

const userScopePrefix = "user:"

// UserScope returns the document scope private to user.
func UserScope(user string) string {
	return userScopePrefix + user
}

// UserFromScope is the inverse of UserScope.
func UserFromScope(scope string) (string, bool) {
	return strings.CutPrefix(scope, userScopePrefix)
}
