package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/roomserver/internal/entities"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
	ctx        context.Context
	msg        *entities.ChatMessage
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient, Retention: 100})
	s.ctx = context.Background()
	s.msg = &entities.ChatMessage{
		ID:       "msg-1",
		RoomID:   "lobby",
		UserID:   "alice",
		Username: "Alice",
		Body:     "hello",
		SentAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) TestCreate() {
	data, err := json.Marshal(s.msg)
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectRPush("room:lobby:chat", string(data)).SetVal(1)
	s.mock.ExpectLTrim("room:lobby:chat", -100, -1).SetVal("OK")
	s.mock.ExpectIncr("room:lobby:seq").SetVal(21)
	s.mock.ExpectTxPipelineExec()

	seq, err := s.repo.Create(s.ctx, s.msg)
	s.NoError(err)
	s.Equal(int64(21), seq)
}

func (s *RedisRepoTestSuite) TestCreate_DependencyError() {
	data, err := json.Marshal(s.msg)
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectRPush("room:lobby:chat", string(data)).SetVal(1)
	s.mock.ExpectLTrim("room:lobby:chat", -100, -1).SetVal("OK")
	s.mock.ExpectIncr("room:lobby:seq").SetVal(21)
	s.mock.ExpectTxPipelineExec().SetErr(errors.New("redis error"))

	_, err = s.repo.Create(s.ctx, s.msg)
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestListRecent() {
	data, err := json.Marshal(s.msg)
	s.Require().NoError(err)

	s.mock.ExpectLRange("room:lobby:chat", -50, -1).SetVal([]string{string(data)})

	got, err := s.repo.ListRecent(s.ctx, "lobby", 50)
	s.NoError(err)
	s.Require().Len(got, 1)
	s.Equal("hello", got[0].Body)
}

func (s *RedisRepoTestSuite) TestListRecent_ZeroLimit() {
	got, err := s.repo.ListRecent(s.ctx, "lobby", 0)
	s.NoError(err)
	s.Empty(got)
}
