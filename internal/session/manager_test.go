package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aether-ai/aether/internal/provider"
	"github.com/aether-ai/aether/internal/tool"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	reg := provider.NewRegistry()
	reg.Register(&scripted{})
	return NewManager("gateway/test-model", reg, tool.NewDispatcher())
}

func TestGetCreatesActorOnFirstContact(t *testing.T) {
	m := newTestManager(t)

	actor := m.Get("session-1")
	require.NotNil(t, actor)
	assert.Equal(t, "session-1", actor.ID())

	snap := actor.Snapshot()
	assert.Empty(t, snap.Messages)
	assert.False(t, snap.IsProcessing)
	assert.Equal(t, "gateway/test-model", snap.Model)
	assert.Nil(t, snap.CanvasContent)
	assert.Empty(t, snap.Files)

	// same identifier resolves to the same actor
	assert.Same(t, actor, m.Get("session-1"))
	assert.Len(t, m.List(), 1)
}

func TestCreateWithExplicitTitle(t *testing.T) {
	m := newTestManager(t)

	info := m.Create(CreateOptions{Title: "My Research"})
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "My Research", info.Title)

	infos := m.List()
	require.Len(t, infos, 1)
	assert.Equal(t, info.ID, infos[0].ID)
}

func TestCreateDerivesTitleFromFirstMessage(t *testing.T) {
	m := newTestManager(t)

	info := m.Create(CreateOptions{FirstMessage: "How   do I write\n a goroutine?"})
	assert.True(t, strings.HasPrefix(info.Title, "How do I write a goroutine?"))

	long := strings.Repeat("word ", 30)
	info = m.Create(CreateOptions{FirstMessage: long})
	assert.Contains(t, info.Title, "...")
}

func TestCreateWithPinnedSessionID(t *testing.T) {
	m := newTestManager(t)

	info := m.Create(CreateOptions{SessionID: "pinned-id", Title: "Pinned"})
	assert.Equal(t, "pinned-id", info.ID)
	assert.Equal(t, "pinned-id", m.Get("pinned-id").ID())
	assert.Len(t, m.List(), 1)
}

func TestDeleteRemovesSession(t *testing.T) {
	m := newTestManager(t)
	info := m.Create(CreateOptions{Title: "doomed"})

	require.True(t, m.Delete(info.ID))
	assert.False(t, m.Delete(info.ID))
	assert.Empty(t, m.List())
}

func TestRename(t *testing.T) {
	m := newTestManager(t)
	info := m.Create(CreateOptions{Title: "old"})

	require.True(t, m.Rename(info.ID, "new"))
	assert.Equal(t, "new", m.List()[0].Title)

	assert.False(t, m.Rename("nope", "x"))
}

func TestDeleteAll(t *testing.T) {
	m := newTestManager(t)
	m.Create(CreateOptions{Title: "a"})
	m.Create(CreateOptions{Title: "b"})
	m.Get("c")

	assert.Equal(t, 3, m.DeleteAll())
	assert.Empty(t, m.List())
}
