package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	"github.com/tableforge/tableforge/internal/repositories/session"
	"github.com/tableforge/tableforge/internal/testutils"
)

type RedisSessionTestSuite struct {
	suite.Suite
	repo    session.Repository
	ctx     context.Context
	cleanup func()
}

func (s *RedisSessionTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	repo, err := session.NewRedisRepository(&session.Config{
		Client: client,
		Clock:  clock.NewFixed(time.Unix(1700000000, 0)),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisSessionTestSuite) TearDownTest() {
	s.cleanup()
}

func TestRedisSessionSuite(t *testing.T) {
	suite.Run(t, new(RedisSessionTestSuite))
}

func (s *RedisSessionTestSuite) newSession(id, name string) *entities.Session {
	return &entities.Session{
		ID:         id,
		Name:       name,
		MaxPlayers: 6,
		IsActive:   true,
		OwnerID:    "user_1",
		State: entities.GameState{
			Status:    entities.StatusWaiting,
			TurnOrder: []string{},
		},
		WorldSeed:   42,
		WorldWidth:  20,
		WorldHeight: 20,
	}
}

func (s *RedisSessionTestSuite) TestNewRedisRepositoryValidation() {
	_, err := session.NewRedisRepository(nil)
	s.Require().Error(err)

	_, err = session.NewRedisRepository(&session.Config{})
	s.Require().Error(err)
}

func (s *RedisSessionTestSuite) TestCreateAndGet() {
	// Arrange
	created, err := s.repo.Create(s.ctx, session.CreateInput{
		Session: s.newSession("sess_1", "The Lost Mines"),
	})
	s.Require().NoError(err)
	s.Assert().Equal(int64(1700000000), created.Session.CreatedAt)

	// Act
	got, err := s.repo.Get(s.ctx, session.GetInput{ID: "sess_1"})

	// Assert
	s.Require().NoError(err)
	s.Assert().Equal("The Lost Mines", got.Session.Name)
	s.Assert().Equal(int64(42), got.Session.WorldSeed)
	s.Assert().Equal(entities.StatusWaiting, got.Session.State.Status)
}

func (s *RedisSessionTestSuite) TestDuplicateNameRejected() {
	_, err := s.repo.Create(s.ctx, session.CreateInput{
		Session: s.newSession("sess_1", "The Lost Mines"),
	})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, session.CreateInput{
		Session: s.newSession("sess_2", "The Lost Mines"),
	})
	s.Require().Error(err)
	s.Assert().True(errors.IsAlreadyExists(err))
}

func (s *RedisSessionTestSuite) TestGetByName() {
	_, err := s.repo.Create(s.ctx, session.CreateInput{
		Session: s.newSession("sess_1", "The Lost Mines"),
	})
	s.Require().NoError(err)

	got, err := s.repo.GetByName(s.ctx, session.GetByNameInput{Name: "The Lost Mines"})
	s.Require().NoError(err)
	s.Assert().Equal("sess_1", got.Session.ID)

	_, err = s.repo.GetByName(s.ctx, session.GetByNameInput{Name: "Nowhere"})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RedisSessionTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, session.GetInput{ID: "sess_missing"})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RedisSessionTestSuite) TestUpdate() {
	created, err := s.repo.Create(s.ctx, session.CreateInput{
		Session: s.newSession("sess_1", "The Lost Mines"),
	})
	s.Require().NoError(err)

	created.Session.State.Status = entities.StatusActive
	created.Session.State.Round = 3

	_, err = s.repo.Update(s.ctx, session.UpdateInput{Session: created.Session})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, session.GetInput{ID: "sess_1"})
	s.Require().NoError(err)
	s.Assert().Equal(entities.StatusActive, got.Session.State.Status)
	s.Assert().Equal(int32(3), got.Session.State.Round)
}

func (s *RedisSessionTestSuite) TestUpdateMissing() {
	_, err := s.repo.Update(s.ctx, session.UpdateInput{
		Session: s.newSession("sess_ghost", "Ghost"),
	})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RedisSessionTestSuite) TestDeleteReleasesName() {
	_, err := s.repo.Create(s.ctx, session.CreateInput{
		Session: s.newSession("sess_1", "The Lost Mines"),
	})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, session.DeleteInput{ID: "sess_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, session.GetInput{ID: "sess_1"})
	s.Assert().True(errors.IsNotFound(err))

	// The name is free again
	_, err = s.repo.Create(s.ctx, session.CreateInput{
		Session: s.newSession("sess_2", "The Lost Mines"),
	})
	s.Require().NoError(err)
}
