package occupants

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/repositories"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
	ctx        context.Context
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedis(s.mockClient)
	s.ctx = context.Background()
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) TestUpsert() {
	occ := entities.Occupant{UserID: "alice", Username: "Alice", Position: entities.Position{X: 10, Y: 4}}
	occData, err := json.Marshal(occ)
	s.Require().NoError(err)
	locData, err := json.Marshal(entities.Location{RoomID: "lobby", Position: occ.Position})
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectHSet("room:lobby:occupants", "alice", string(occData)).SetVal(1)
	s.mock.ExpectSet("user:alice:location", string(locData), 0).SetVal("OK")
	s.mock.ExpectIncr("room:lobby:seq").SetVal(5)
	s.mock.ExpectTxPipelineExec()

	seq, err := s.repo.Upsert(s.ctx, "lobby", occ)
	s.NoError(err)
	s.Equal(int64(5), seq)
}

func (s *RedisRepoTestSuite) TestUpsert_DependencyError() {
	occ := entities.Occupant{UserID: "alice"}
	occData, err := json.Marshal(occ)
	s.Require().NoError(err)
	locData, err := json.Marshal(entities.Location{RoomID: "lobby"})
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectHSet("room:lobby:occupants", "alice", string(occData)).SetVal(1)
	s.mock.ExpectSet("user:alice:location", string(locData), 0).SetVal("OK")
	s.mock.ExpectIncr("room:lobby:seq").SetVal(5)
	s.mock.ExpectTxPipelineExec().SetErr(errors.New("redis error"))

	_, err = s.repo.Upsert(s.ctx, "lobby", occ)
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestUpsert_InputValidation() {
	_, err := s.repo.Upsert(s.ctx, "", entities.Occupant{UserID: "alice"})
	s.Error(err)
	_, err = s.repo.Upsert(s.ctx, "lobby", entities.Occupant{})
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestClearKeepsLocation() {
	last := entities.Position{X: 6, Y: 4}
	locData, err := json.Marshal(entities.Location{RoomID: "lobby", Position: last})
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectHDel("room:lobby:occupants", "alice").SetVal(1)
	s.mock.ExpectSet("user:alice:location", string(locData), 0).SetVal("OK")
	s.mock.ExpectIncr("room:lobby:seq").SetVal(6)
	s.mock.ExpectTxPipelineExec()

	seq, err := s.repo.Clear(s.ctx, "lobby", "alice", last)
	s.NoError(err)
	s.Equal(int64(6), seq)
}

func (s *RedisRepoTestSuite) TestList() {
	occ := entities.Occupant{UserID: "bob", Position: entities.Position{X: 1, Y: 1}}
	data, err := json.Marshal(occ)
	s.Require().NoError(err)

	s.mock.ExpectHGetAll("room:lobby:occupants").SetVal(map[string]string{"bob": string(data)})

	got, err := s.repo.List(s.ctx, "lobby")
	s.NoError(err)
	s.Equal([]entities.Occupant{occ}, got)
}

func (s *RedisRepoTestSuite) TestGetLastLocation() {
	loc := entities.Location{RoomID: "garden", Position: entities.Position{X: 2, Y: 3}}
	data, err := json.Marshal(loc)
	s.Require().NoError(err)

	s.mock.ExpectGet("user:alice:location").SetVal(string(data))

	got, err := s.repo.GetLastLocation(s.ctx, "alice")
	s.NoError(err)
	s.Equal(&loc, got)
}

func (s *RedisRepoTestSuite) TestGetLastLocation_NotFound() {
	s.mock.ExpectGet("user:carol:location").RedisNil()

	_, err := s.repo.GetLastLocation(s.ctx, "carol")
	s.ErrorIs(err, repositories.ErrNotFound)
}
