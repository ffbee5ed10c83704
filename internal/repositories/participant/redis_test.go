package participant_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	"github.com/tableforge/tableforge/internal/repositories/participant"
	"github.com/tableforge/tableforge/internal/testutils"
)

type RedisParticipantTestSuite struct {
	suite.Suite
	repo    participant.Repository
	ctx     context.Context
	cleanup func()
}

func (s *RedisParticipantTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	repo, err := participant.NewRedisRepository(&participant.Config{
		Client: client,
		Clock:  clock.NewFixed(time.Unix(1700000000, 0)),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisParticipantTestSuite) TearDownTest() {
	s.cleanup()
}

func TestRedisParticipantSuite(t *testing.T) {
	suite.Run(t, new(RedisParticipantTestSuite))
}

func (s *RedisParticipantTestSuite) newParticipant(id, name string) *entities.Participant {
	return &entities.Participant{
		ID:        id,
		UserID:    "user_" + id,
		Name:      name,
		SessionID: "sess_1",
		IsOnline:  true,
	}
}

func (s *RedisParticipantTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, participant.CreateInput{
		Participant: s.newParticipant("part_1", "Alice"),
	})
	s.Require().NoError(err)
	s.Assert().Equal(int64(1700000000), created.Participant.LastSeen)

	got, err := s.repo.Get(s.ctx, participant.GetInput{ID: "part_1"})
	s.Require().NoError(err)
	s.Assert().Equal("Alice", got.Participant.Name)
	s.Assert().True(got.Participant.IsOnline)
}

func (s *RedisParticipantTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, participant.GetInput{ID: "part_ghost"})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RedisParticipantTestSuite) TestListBySession() {
	for _, p := range []*entities.Participant{
		s.newParticipant("part_1", "Alice"),
		s.newParticipant("part_2", "Bob"),
	} {
		_, err := s.repo.Create(s.ctx, participant.CreateInput{Participant: p})
		s.Require().NoError(err)
	}

	other := s.newParticipant("part_3", "Eve")
	other.SessionID = "sess_2"
	_, err := s.repo.Create(s.ctx, participant.CreateInput{Participant: other})
	s.Require().NoError(err)

	listed, err := s.repo.ListBySession(s.ctx, participant.ListBySessionInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.Require().Len(listed.Participants, 2)
	s.Assert().Equal("part_1", listed.Participants[0].ID)
	s.Assert().Equal("part_2", listed.Participants[1].ID)
}

func (s *RedisParticipantTestSuite) TestUpdate() {
	created, err := s.repo.Create(s.ctx, participant.CreateInput{
		Participant: s.newParticipant("part_1", "Alice"),
	})
	s.Require().NoError(err)

	created.Participant.IsOnline = false
	_, err = s.repo.Update(s.ctx, participant.UpdateInput{Participant: created.Participant})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, participant.GetInput{ID: "part_1"})
	s.Require().NoError(err)
	s.Assert().False(got.Participant.IsOnline)
}

func (s *RedisParticipantTestSuite) TestDeleteRemovesRosterEntry() {
	_, err := s.repo.Create(s.ctx, participant.CreateInput{
		Participant: s.newParticipant("part_1", "Alice"),
	})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, participant.DeleteInput{ID: "part_1"})
	s.Require().NoError(err)

	listed, err := s.repo.ListBySession(s.ctx, participant.ListBySessionInput{SessionID: "sess_1"})
	s.Require().NoError(err)
	s.Assert().Empty(listed.Participants)
}
