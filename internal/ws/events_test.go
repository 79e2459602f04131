package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"event":"send-message","data":{"chat_id":"c1"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventSendMessage, env.Event)
}

func TestParseEnvelopeRejectsMalformedJSON(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{not json`))
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}

func TestParseEnvelopeRejectsMissingEventName(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"data":{}}`))
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "missing event name", perr.Reason)
}

func TestDecodeIdentity(t *testing.T) {
	payload, err := decodeIdentity(json.RawMessage(`{"user_id":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", payload.UserID)

	_, err = decodeIdentity(json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestDecodeSendValidatesRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"missing chat id", `{"temp_id":"t1","sender_id":"a","text":"hi"}`, "missing chat_id"},
		{"missing sender id", `{"temp_id":"t1","chat_id":"c1","text":"hi"}`, "missing sender_id"},
		{"missing text", `{"temp_id":"t1","chat_id":"c1","sender_id":"a"}`, "missing text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := decodeSend(json.RawMessage(tt.raw))
			var perr *ProtocolError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.want, perr.Reason)
			assert.Equal(t, "t1", payload.TempID, "temp id must survive validation failure")
		})
	}
}

func TestDecodeSendAcceptsOptionalFile(t *testing.T) {
	payload, err := decodeSend(json.RawMessage(`{"chat_id":"c1","sender_id":"a","text":"hi","file_url":"u"}`))
	require.NoError(t, err)
	assert.Equal(t, "u", payload.FileURL)

	payload, err = decodeSend(json.RawMessage(`{"chat_id":"c1","sender_id":"a","text":"hi"}`))
	require.NoError(t, err)
	assert.Empty(t, payload.FileURL)
	assert.Empty(t, payload.TempID)
}

func TestDecodeRead(t *testing.T) {
	payload, err := decodeRead(json.RawMessage(`{"chat_id":"c1","user_id":"bob"}`))
	require.NoError(t, err)
	assert.Equal(t, "c1", payload.ChatID)
	assert.Equal(t, "bob", payload.UserID)

	_, err = decodeRead(json.RawMessage(`{"user_id":"bob"}`))
	assert.Error(t, err)
	_, err = decodeRead(json.RawMessage(`{"chat_id":"c1"}`))
	assert.Error(t, err)
}
