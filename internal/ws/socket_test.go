package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
)

type socketFixture struct {
	handler  *SocketHandler
	hub      *Hub
	messages *mocks.MessageStoreMock
	chats    *mocks.ChatRepositoryMock
	store    *mocks.PresenceStoreMock
	contacts *mocks.ContactRepositoryMock
}

func newSocketFixture() *socketFixture {
	hub := NewHub()
	messages := new(mocks.MessageStoreMock)
	chats := new(mocks.ChatRepositoryMock)
	store := new(mocks.PresenceStoreMock)
	contacts := new(mocks.ContactRepositoryMock)

	pipeline := NewPipeline(hub, messages, chats)
	broadcaster := NewBroadcaster(hub, store, contacts)
	receipts := NewReadReceipts(hub, messages)
	handler := NewSocketHandler(hub, pipeline, broadcaster, receipts, nil)

	return &socketFixture{handler: handler, hub: hub, messages: messages, chats: chats, store: store, contacts: contacts}
}

func (f *socketFixture) connect(userID, connID string) (*fakeConn, ConnInfo) {
	conn := &fakeConn{}
	f.hub.Registry().Register(connID, conn)
	return conn, ConnInfo{ConnID: connID, UserID: userID, ConnectedAt: time.Now()}
}

func TestDispatchRejectsMalformedFrame(t *testing.T) {
	f := newSocketFixture()
	conn, info := f.connect("alice", "a1")

	f.handler.dispatch(context.Background(), info, []byte(`{broken`))

	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventError, events[0].Event)
}

func TestDispatchUserConnectedBindsSession(t *testing.T) {
	f := newSocketFixture()
	_, info := f.connect("alice", "a1")

	f.handler.dispatch(context.Background(), info, []byte(`{"event":"user-connected","data":{"user_id":"alice"}}`))

	assert.True(t, f.hub.Sessions().IsOnline("alice"))
}

func TestDispatchRejectsIdentityMismatch(t *testing.T) {
	f := newSocketFixture()
	conn, info := f.connect("alice", "a1")

	f.handler.dispatch(context.Background(), info, []byte(`{"event":"user-connected","data":{"user_id":"mallory"}}`))

	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventError, events[0].Event)
	assert.False(t, f.hub.Sessions().IsOnline("mallory"))
	assert.False(t, f.hub.Sessions().IsOnline("alice"))
}

func TestDispatchUserOnlineBindsAndAnnounces(t *testing.T) {
	f := newSocketFixture()
	conn, info := f.connect("alice", "a1")

	f.store.On("SetOnline", mock.Anything, "alice", true).Return(nil).Once()
	f.contacts.On("ContactsOf", mock.Anything, "alice").Return([]string{}, nil).Once()

	f.handler.dispatch(context.Background(), info, []byte(`{"event":"user-online","data":{"user_id":"alice"}}`))

	assert.True(t, f.hub.Sessions().IsOnline("alice"))
	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventStatusUpdate, events[0].Event)
	f.store.AssertExpectations(t)
}

func TestDispatchSendMessageValidationErrorCarriesTempID(t *testing.T) {
	f := newSocketFixture()
	conn, info := f.connect("alice", "a1")

	f.handler.dispatch(context.Background(), info, []byte(`{"event":"send-message","data":{"temp_id":"t9","chat_id":"c1","sender_id":"alice"}}`))

	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventMessageError, events[0].Event)
	assert.Equal(t, "t9", events[0].TempID)
	f.messages.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchMarkReadValidationError(t *testing.T) {
	f := newSocketFixture()
	conn, info := f.connect("alice", "a1")

	f.handler.dispatch(context.Background(), info, []byte(`{"event":"mark-read","data":{"chat_id":"c1"}}`))

	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventMarkReadError, events[0].Event)
}

func TestDispatchUnknownEvent(t *testing.T) {
	f := newSocketFixture()
	conn, info := f.connect("alice", "a1")

	f.handler.dispatch(context.Background(), info, []byte(`{"event":"made-up","data":{}}`))

	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventError, events[0].Event)
}

func TestTeardownKeepsUserOnlineWhileOtherConnectionsRemain(t *testing.T) {
	f := newSocketFixture()
	_, info1 := f.connect("alice", "a1")
	f.connect("alice", "a2")
	f.connect("alice", "a3")
	f.hub.Sessions().Bind("alice", "a1")
	f.hub.Sessions().Bind("alice", "a2")
	f.hub.Sessions().Bind("alice", "a3")

	f.handler.teardown(context.Background(), info1, "going away")

	assert.True(t, f.hub.Sessions().IsOnline("alice"))
	assert.Len(t, f.hub.Sessions().ConnectionsOf("alice"), 2)
	f.store.AssertNotCalled(t, "SetOnline", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeardownLastConnectionAnnouncesOffline(t *testing.T) {
	f := newSocketFixture()
	_, info := f.connect("alice", "a1")
	f.hub.Sessions().Bind("alice", "a1")

	f.store.On("SetLastSeen", mock.Anything, "alice").Return(time.Now(), nil).Once()
	f.store.On("SetOnline", mock.Anything, "alice", false).Return(nil).Once()
	f.contacts.On("ContactsOf", mock.Anything, "alice").Return([]string{}, nil).Once()

	f.handler.teardown(context.Background(), info, "going away")

	assert.False(t, f.hub.Sessions().IsOnline("alice"))
	if _, ok := f.hub.Registry().Lookup("a1"); ok {
		t.Fatalf("expected connection to be unregistered")
	}
	f.store.AssertExpectations(t)
}
