package repository

import (
	"context"
	"database/sql"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoboard/internal/adapter/database"
	"todoboard/internal/core/domain"
	"todoboard/internal/core/port"
	"todoboard/pkg/test"
	"todoboard/pkg/test/factory"
)

type TodoRepositorySuite struct {
	suite.Suite
	DB    *database.DB
	Repo  port.TodoRepository
	Owner domain.User
}

func (s *TodoRepositorySuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.Repo = NewTodoRepository(s.DB)

	users := NewUserRepository(s.DB)

	owner, err := users.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Email": "owner@example.com",
	}))

	s.Require().NoError(err)
	s.Owner = owner
}

func (s *TodoRepositorySuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTodoRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoRepositorySuite))
}

func (s *TodoRepositorySuite) create(overrides map[string]any) domain.Todo {
	data := map[string]any{
		"CreatedBy": s.Owner.ID,
	}

	for key, value := range overrides {
		data[key] = value
	}

	todo, err := s.Repo.Create(context.Background(), factory.NewTodo[domain.Todo](data))
	s.Require().NoError(err)

	return todo
}

func (s *TodoRepositorySuite) TestCreateAndGetByID() {
	todo := s.create(map[string]any{
		"Title":       "Buy milk",
		"Description": "2%",
	})

	Expect(todo.ID).To(BeNumerically(">", 0))
	Expect(todo.Status).To(Equal(domain.TodoStatusPending))
	Expect(todo.CreatedBy).To(Equal(s.Owner.ID))

	found, err := s.Repo.GetByID(context.Background(), todo.ID)

	Expect(err).ToNot(HaveOccurred())
	Expect(found.Title).To(Equal("Buy milk"))
	Expect(found.Description).To(Equal("2%"))
}

func (s *TodoRepositorySuite) TestGetAllOrdersNewestFirst() {
	first := s.create(map[string]any{"Title": "first"})
	second := s.create(map[string]any{"Title": "second"})

	todos, err := s.Repo.GetAll(context.Background())

	Expect(err).ToNot(HaveOccurred())
	Expect(todos).To(HaveLen(2))
	Expect(todos[0].ID).To(Equal(second.ID))
	Expect(todos[1].ID).To(Equal(first.ID))
}

func (s *TodoRepositorySuite) TestGetAllWithCursor() {
	var ids []int

	for i := 0; i < 5; i++ {
		todo := s.create(nil)
		ids = append(ids, todo.ID)
	}

	page, hasNext, err := s.Repo.GetAllWithCursor(context.Background(), 2, 0)

	Expect(err).ToNot(HaveOccurred())
	Expect(page).To(HaveLen(2))
	Expect(hasNext).To(BeTrue())
	Expect(page[0].ID).To(Equal(ids[4]))
	Expect(page[1].ID).To(Equal(ids[3]))

	page, hasNext, err = s.Repo.GetAllWithCursor(context.Background(), 3, page[1].ID)

	Expect(err).ToNot(HaveOccurred())
	Expect(page).To(HaveLen(3))
	Expect(hasNext).To(BeFalse())
	Expect(page[2].ID).To(Equal(ids[0]))
}

func (s *TodoRepositorySuite) TestUpdate() {
	todo := s.create(map[string]any{
		"Title":  "before",
		"Status": domain.TodoStatusPending,
	})

	todo.Title = "after"
	todo.Status = domain.TodoStatusDone

	updated, err := s.Repo.Update(context.Background(), todo)

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.Title).To(Equal("after"))
	Expect(updated.Status).To(Equal(domain.TodoStatusDone))
}

func (s *TodoRepositorySuite) TestUpdateMissing() {
	missing := factory.NewTodo[domain.Todo](map[string]any{
		"ID":        999,
		"CreatedBy": s.Owner.ID,
	})

	_, err := s.Repo.Update(context.Background(), missing)

	Expect(err).To(MatchError(sql.ErrNoRows))
}

func (s *TodoRepositorySuite) TestDelete() {
	todo := s.create(nil)

	err := s.Repo.Delete(context.Background(), todo.ID)
	Expect(err).ToNot(HaveOccurred())

	_, err = s.Repo.GetByID(context.Background(), todo.ID)
	Expect(err).To(MatchError(sql.ErrNoRows))
}

func (s *TodoRepositorySuite) TestDeleteMissing() {
	err := s.Repo.Delete(context.Background(), 999)

	Expect(err).To(MatchError(sql.ErrNoRows))
}
