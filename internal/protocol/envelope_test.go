package protocol_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/KirkDiggler/roomserver/internal/entities"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Move(t *testing.T) {
	env, req, err := protocol.Decode([]byte(`{"op":"move","seq":7,"ts":1,"data":{"x":10,"y":4}}`))
	require.NoError(t, err)

	assert.Equal(t, protocol.OpMove, env.Op)
	assert.Equal(t, int64(7), env.Seq)

	move, ok := req.(*protocol.Move)
	require.True(t, ok)
	assert.Equal(t, entities.Position{X: 10, Y: 4}, move.Target())
}

func TestDecode_PingWithoutData(t *testing.T) {
	_, req, err := protocol.Decode([]byte(`{"op":"ping","seq":1}`))
	require.NoError(t, err)
	assert.IsType(t, &protocol.Ping{}, req)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		protocol  bool
		target    error
		expectSeq int64
	}{
		{name: "not json", raw: `hello`, protocol: true, target: protocol.ErrMalformed},
		{name: "array body", raw: `[1,2,3]`, protocol: true, target: protocol.ErrMalformed},
		{name: "missing op", raw: `{"seq":3}`, protocol: true, target: protocol.ErrMalformed, expectSeq: 3},
		{name: "negative seq", raw: `{"op":"ping","seq":-1}`, protocol: true, target: protocol.ErrMalformed, expectSeq: -1},
		{name: "unknown op", raw: `{"op":"teleport","seq":4}`, protocol: true, target: protocol.ErrUnknownOp, expectSeq: 4},
		{name: "move missing y", raw: `{"op":"move","seq":5,"data":{"x":1}}`, target: protocol.ErrInvalidPayload, expectSeq: 5},
		{name: "move wrong type", raw: `{"op":"move","seq":6,"data":{"x":"a","y":1}}`, target: protocol.ErrInvalidPayload, expectSeq: 6},
		{name: "empty chat", raw: `{"op":"chat:send","seq":8,"data":{"body":"   "}}`, target: protocol.ErrInvalidPayload, expectSeq: 8},
		{name: "empty token", raw: `{"op":"auth","seq":9,"data":{}}`, target: protocol.ErrInvalidPayload, expectSeq: 9},
		{name: "empty item id", raw: `{"op":"item:pickup","seq":10,"data":{"itemId":""}}`, target: protocol.ErrInvalidPayload, expectSeq: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, req, err := protocol.Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, req)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.protocol, protocol.IsProtocolError(err))
			assert.Equal(t, tt.expectSeq, env.Seq)
		})
	}
}

func TestChatSend_TrimsAndLimits(t *testing.T) {
	req := &protocol.ChatSend{Body: "  hello  "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "hello", req.Body)

	long := make([]rune, protocol.MaxChatBodyRunes+1)
	for i := range long {
		long[i] = 'é'
	}
	assert.Error(t, (&protocol.ChatSend{Body: string(long)}).Validate())
}

func TestAffordanceSet_RejectsUnknownKind(t *testing.T) {
	x, y := 1, 2
	assert.Error(t, (&protocol.AffordanceSet{X: &x, Y: &y, Kind: "dance"}).Validate())
	assert.NoError(t, (&protocol.AffordanceSet{X: &x, Y: &y, Kind: "sit"}).Validate())
}

func TestEncode_Push(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	raw, err := protocol.Encode(protocol.OpOccupantLeft, 0, at, protocol.OccupantLeft{UserID: "u1", X: 3, Y: 4, RoomSeq: 12})
	require.NoError(t, err)

	var env protocol.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, protocol.OpOccupantLeft, env.Op)
	assert.Equal(t, int64(0), env.Seq)
	assert.Equal(t, int64(1700000000123), env.Ts)
	assert.JSONEq(t, `{"userId":"u1","x":3,"y":4,"roomSeq":12}`, string(env.Data))
}

func TestViewList_NeverNil(t *testing.T) {
	views := protocol.ViewList[entities.RoomItem](nil, protocol.ViewItem)
	require.NotNil(t, views)

	raw, err := json.Marshal(views)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
