package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoboard/internal/adapter/database"
	"todoboard/internal/adapter/database/repository"
	"todoboard/internal/core/domain"
	"todoboard/internal/core/model/request"
	"todoboard/internal/core/port"
	"todoboard/internal/core/util"
	"todoboard/pkg/test"
	"todoboard/pkg/test/factory"
)

type TodoServiceSuite struct {
	suite.Suite
	DB      *database.DB
	Todos   port.TodoRepository
	Users   port.UserRepository
	Service *TodoService
	Owner   domain.User
	Payload domain.TokenPayload
}

func (s *TodoServiceSuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.Todos = repository.NewTodoRepository(s.DB)
	s.Users = repository.NewUserRepository(s.DB)
	s.Service = NewTodoService(s.Todos, s.Users, util.NewCursorCodec("test-secret"))

	owner, err := s.Users.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Email": "owner@example.com",
	}))

	s.Require().NoError(err)
	s.Owner = owner
	s.Payload = domain.TokenPayload{
		ID:           owner.ID,
		Email:        owner.Email,
		TokenVersion: owner.TokenVersion,
	}
}

func (s *TodoServiceSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTodoServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoServiceSuite))
}

func appMessage(err error) string {
	var appErr *domain.AppError

	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return ""
}

func (s *TodoServiceSuite) TestCreateBindsOwner() {
	created, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
		Title:       "Buy milk",
		Description: "2%",
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(created.CreatedBy).To(Equal(s.Owner.ID))
	Expect(created.Status).To(Equal("pending"))
}

func (s *TodoServiceSuite) TestCreateRejectsMismatchedPath() {
	_, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID+1, &request.CreateTodoRequest{
		Title:       "Sneaky",
		Description: "wrong path segment",
	})

	Expect(appMessage(err)).To(Equal("Unauthorized"))
}

func (s *TodoServiceSuite) TestCreateRejectsInvalidStatus() {
	_, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
		Title:       "Bad status",
		Description: "desc",
		Status:      "archived",
	})

	Expect(appMessage(err)).To(Equal("invalid status: archived"))
}

func (s *TodoServiceSuite) TestGetByIDMissing() {
	_, err := s.Service.GetByID(context.Background(), s.Payload, s.Owner.ID, 999)

	Expect(appMessage(err)).To(Equal("todo not found"))
}

func (s *TodoServiceSuite) TestRoundTrip() {
	created, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
		Title:       "Buy milk",
		Description: "2%",
		Status:      "pending",
	})

	Expect(err).ToNot(HaveOccurred())

	fetched, err := s.Service.GetByID(context.Background(), s.Payload, s.Owner.ID, created.ID)

	Expect(err).ToNot(HaveOccurred())
	Expect(fetched.Title).To(Equal("Buy milk"))
	Expect(fetched.Description).To(Equal("2%"))
	Expect(fetched.Status).To(Equal("pending"))
}

func (s *TodoServiceSuite) TestListAllEmpty() {
	_, err := s.Service.ListAll(context.Background(), s.Payload, s.Owner.ID, request.ListTodosOptions{})

	Expect(appMessage(err)).To(Equal("No todos found"))
}

func (s *TodoServiceSuite) TestListAllNewestFirst() {
	for _, title := range []string{"first", "second", "third"} {
		_, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
			Title:       title,
			Description: "desc",
		})
		s.Require().NoError(err)
	}

	list, err := s.Service.ListAll(context.Background(), s.Payload, s.Owner.ID, request.ListTodosOptions{})

	Expect(err).ToNot(HaveOccurred())
	Expect(list.Size).To(Equal(3))
	Expect(list.Data[0].Title).To(Equal("third"))
	Expect(list.Data[2].Title).To(Equal("first"))
}

func (s *TodoServiceSuite) TestListAllPaginates() {
	for i := 0; i < 5; i++ {
		_, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
			Title:       "item",
			Description: "desc",
		})
		s.Require().NoError(err)
	}

	page, err := s.Service.ListAll(context.Background(), s.Payload, s.Owner.ID, request.ListTodosOptions{Limit: 3})

	Expect(err).ToNot(HaveOccurred())
	Expect(page.Size).To(Equal(3))
	Expect(page.Pagination).ToNot(BeNil())
	Expect(page.Pagination.HasNext).To(BeTrue())
	Expect(page.Pagination.NextCursor).ToNot(BeEmpty())

	rest, err := s.Service.ListAll(context.Background(), s.Payload, s.Owner.ID, request.ListTodosOptions{
		Limit:  3,
		Cursor: page.Pagination.NextCursor,
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(rest.Size).To(Equal(2))
	Expect(rest.Pagination.HasNext).To(BeFalse())
}

func (s *TodoServiceSuite) TestListAllRejectsForgedCursor() {
	_, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
		Title:       "item",
		Description: "desc",
	})
	s.Require().NoError(err)

	_, err = s.Service.ListAll(context.Background(), s.Payload, s.Owner.ID, request.ListTodosOptions{
		Limit:  3,
		Cursor: "forged.cursor",
	})

	Expect(appMessage(err)).To(Equal("invalid cursor signature"))
}

func (s *TodoServiceSuite) TestUpdatePartialMerge() {
	created, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
		Title:       "Buy milk",
		Description: "2%",
	})
	s.Require().NoError(err)

	status := "done"
	updated, err := s.Service.Update(context.Background(), s.Payload, s.Owner.ID, created.ID, &request.UpdateTodoRequest{
		Status: &status,
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.Status).To(Equal("done"))
	Expect(updated.Title).To(Equal("Buy milk"))
	Expect(updated.Description).To(Equal("2%"))
}

func (s *TodoServiceSuite) TestUpdateAllowsAnyStatusTransition() {
	created, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
		Title:       "board card",
		Description: "drag me",
		Status:      "done",
	})
	s.Require().NoError(err)

	status := "pending"
	updated, err := s.Service.Update(context.Background(), s.Payload, s.Owner.ID, created.ID, &request.UpdateTodoRequest{
		Status: &status,
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.Status).To(Equal("pending"))
}

func (s *TodoServiceSuite) TestUpdateMissing() {
	title := "nothing"
	_, err := s.Service.Update(context.Background(), s.Payload, s.Owner.ID, 999, &request.UpdateTodoRequest{
		Title: &title,
	})

	Expect(appMessage(err)).To(Equal("Todo not found"))
}

func (s *TodoServiceSuite) TestDelete() {
	created, err := s.Service.Create(context.Background(), s.Payload, s.Owner.ID, &request.CreateTodoRequest{
		Title:       "temp",
		Description: "desc",
	})
	s.Require().NoError(err)

	err = s.Service.Delete(context.Background(), s.Payload, s.Owner.ID, created.ID)
	Expect(err).ToNot(HaveOccurred())

	_, err = s.Service.GetByID(context.Background(), s.Payload, s.Owner.ID, created.ID)
	Expect(appMessage(err)).To(Equal("todo not found"))
}

func (s *TodoServiceSuite) TestDeleteMissing() {
	err := s.Service.Delete(context.Background(), s.Payload, s.Owner.ID, 999)

	Expect(appMessage(err)).To(Equal("Todo Not Found"))
}

func (s *TodoServiceSuite) TestVanishedUserFailsAuthorize() {
	payload := domain.TokenPayload{ID: 999, Email: "ghost@example.com", TokenVersion: 1}

	_, err := s.Service.ListAll(context.Background(), payload, 999, request.ListTodosOptions{})

	Expect(appMessage(err)).To(Equal("User not found"))
}
