package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"

	"todoboard/internal/core/domain"
)

// DefaultPassword is the plaintext behind every factory user's hash.
const DefaultPassword = "12345678"

func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if !hasKey(customData, "PasswordHash") {
		hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)

		customData = append(customData, map[string]any{
			"PasswordHash": string(hash),
		})
	}

	if !hasKey(customData, "TokenVersion") {
		customData = append(customData, map[string]any{
			"TokenVersion": 1,
		})
	}

	return instance.Build(customData...)
}

func NewTodo[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if !hasKey(customData, "Status") {
		customData = append(customData, map[string]any{
			"Status": domain.TodoStatusPending,
		})
	}

	return instance.Build(customData...)
}

func hasKey(customData []map[string]any, key string) bool {
	for _, data := range customData {
		if _, exists := data[key]; exists {
			return true
		}
	}

	return false
}
