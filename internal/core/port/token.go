package port

import "todoboard/internal/core/domain"

// TokenService issues and verifies the signed bearer credentials. Both
// operations are stateless given the signing secret.
type TokenService interface {
	Issue(payload domain.TokenPayload) (string, error)
	Verify(token string) (domain.TokenPayload, error)
}
