package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(MsgPlayCard, PlayCardPayload{CardID: "abc"})
	data, err := Encode(msg)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgPlayCard, decoded.Type)

	var payload PlayCardPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, "abc", payload.CardID)
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	// Valid JSON but no type.
	_, err = Decode([]byte(`{"payload":{}}`))
	assert.Error(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(ErrCodeNotYourTurn)
	assert.Equal(t, MsgError, msg.Type)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, ErrCodeNotYourTurn, payload.Code)
	assert.Equal(t, ErrorMessages[ErrCodeNotYourTurn], payload.Message)
}
