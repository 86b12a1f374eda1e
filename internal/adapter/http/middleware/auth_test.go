package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoboard/internal/adapter/database"
	"todoboard/internal/adapter/database/repository"
	"todoboard/internal/adapter/token"
	"todoboard/internal/core/domain"
	"todoboard/internal/core/port"
	"todoboard/pkg/test"
	"todoboard/pkg/test/factory"
)

type AuthGatewaySuite struct {
	suite.Suite
	DB     *database.DB
	Users  port.UserRepository
	Tokens port.TokenService
	Router *gin.Engine
	User   domain.User
}

func (s *AuthGatewaySuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.DB = test.InitTestDB()
	s.Users = repository.NewUserRepository(s.DB)
	s.Tokens = token.NewJWTService("test-secret")

	user, err := s.Users.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Email": "gate@example.com",
	}))

	s.Require().NoError(err)
	s.User = user

	s.Router = gin.New()
	s.Router.GET("/protected", AuthGateway(s.Users, s.Tokens), func(c *gin.Context) {
		payload, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": payload.ID})
	})
}

func (s *AuthGatewaySuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestAuthGatewaySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthGatewaySuite))
}

func (s *AuthGatewaySuite) request(authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/protected", nil)

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *AuthGatewaySuite) message(rr *httptest.ResponseRecorder) string {
	data := gin.H{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	message, _ := data["message"].(string)

	return message
}

func (s *AuthGatewaySuite) issue() string {
	tokenString, err := s.Tokens.Issue(domain.TokenPayload{
		ID:           s.User.ID,
		Email:        s.User.Email,
		TokenVersion: s.User.TokenVersion,
	})

	s.Require().NoError(err)

	return tokenString
}

func (s *AuthGatewaySuite) TestMissingHeader() {
	rr := s.request("")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(s.message(rr)).To(Equal("Missing Token"))
}

func (s *AuthGatewaySuite) TestMalformedScheme() {
	for _, header := range []string{
		"Bearer",
		"Bearer ",
		"bearer " + s.issue(),
		"Basic abc123",
		"Bearer one two",
	} {
		rr := s.request(header)

		Expect(rr.Code).To(Equal(http.StatusUnauthorized), "header %q", header)
		Expect(s.message(rr)).To(Equal("Invalid Token Format"), "header %q", header)
	}
}

func (s *AuthGatewaySuite) TestInvalidToken() {
	rr := s.request("Bearer not-a-real-token")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(s.message(rr)).To(Equal("Access Denied"))
}

func (s *AuthGatewaySuite) TestTokenForMissingUser() {
	tokenString, err := s.Tokens.Issue(domain.TokenPayload{ID: 999, Email: "ghost@example.com", TokenVersion: 1})
	s.Require().NoError(err)

	rr := s.request("Bearer " + tokenString)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(s.message(rr)).To(Equal("Access Denied"))
}

func (s *AuthGatewaySuite) TestStaleTokenVersion() {
	stale := s.issue()

	err := s.Users.UpdateTokenVersion(context.Background(), s.User.ID, s.User.TokenVersion+1)
	s.Require().NoError(err)

	rr := s.request("Bearer " + stale)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(s.message(rr)).To(Equal("Access Denied"))
}

func (s *AuthGatewaySuite) TestValidTokenPasses() {
	rr := s.request("Bearer " + s.issue())

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := gin.H{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data["id"]).To(BeNumerically("==", s.User.ID))
}
