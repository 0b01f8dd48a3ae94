package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liscraper/pkg/linkedin"
)

func sampleResult() *linkedin.FeedScrapeResult {
	return &linkedin.FeedScrapeResult{
		CompanyName: "acme",
		Timestamp:   "20250101_120000",
		SourceURL:   "https://www.linkedin.com/company/acme/posts",
		Posts: []linkedin.PostRecord{
			{
				PostText:    "Grüße aus München — 新製品のお知らせ",
				Likes:       "12",
				Comments:    "3",
				Shares:      "1",
				ImageURLs:   []string{"https://cdn.example.com/a.jpg?x=1&y=2"},
				VideoURLs:   []string{},
				TopComments: []linkedin.CommentRecord{{CommentText: "Congrats!", Likes: "2"}},
			},
		},
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	result := sampleResult()
	require.NoError(t, manager.Save(result, "acme_posts_20250101_120000.json"))

	data, err := os.ReadFile(manager.Path("acme_posts_20250101_120000.json"))
	require.NoError(t, err)

	// Non-ASCII content and URL characters must survive unescaped
	assert.Contains(t, string(data), "Grüße aus München")
	assert.Contains(t, string(data), "新製品のお知らせ")
	assert.Contains(t, string(data), "a.jpg?x=1&y=2")
	assert.False(t, strings.Contains(string(data), `\u0026`))

	var reloaded linkedin.FeedScrapeResult
	require.NoError(t, json.Unmarshal(data, &reloaded))
	assert.Equal(t, *result, reloaded)
}

func TestSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, manager.Save(sampleResult(), "out.json"))

	// No leftover temporary file
	_, err = os.Stat(filepath.Join(dir, "out.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	_, err := NewManager(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, manager.Save(sampleResult(), "a.json"))
	require.NoError(t, manager.Save(sampleResult(), "b.json"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	names, err := manager.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.json", "b.json"}, names)
}
