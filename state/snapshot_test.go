package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"raffler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	fs := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	giveaways, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, giveaways)
}

func TestFileStoreLoadEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	giveaways, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Empty(t, giveaways)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	giveaways := []*models.Giveaway{
		{
			ID:           42,
			Title:        "Nitro",
			MessageID:    "msg-1",
			ChannelID:    "chan-1",
			GuildID:      "guild-1",
			Symbol:       "🎉",
			Deadline:     &deadline,
			WinnerCount:  2,
			Participants: []string{"u1", "u2", "u3"},
		},
		{
			ID:           7,
			Title:        "Manual only",
			MessageID:    "msg-2",
			ChannelID:    "chan-1",
			GuildID:      "guild-1",
			Symbol:       "👍",
			WinnerCount:  1,
			Participants: []string{"u9"},
		},
	}

	fs := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, fs.Save(giveaways))

	loaded, err := fs.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	require.NotNil(t, loaded[0].Deadline)
	assert.True(t, loaded[0].Deadline.Equal(deadline))
	loaded[0].Deadline = &deadline
	assert.Equal(t, giveaways[0], loaded[0])

	assert.Nil(t, loaded[1].Deadline)
	assert.Equal(t, giveaways[1], loaded[1])
}

func TestFileStoreSaveReplacesPrevious(t *testing.T) {
	t.Parallel()

	fs := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, fs.Save([]*models.Giveaway{{ID: 1, Title: "first", WinnerCount: 1}}))
	require.NoError(t, fs.Save(nil))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
