package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMarkdownTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "Part-2-humanoid-robotics/ros2-basics.md", "---\ntitle: \"ROS 2 Basics\"\nsidebar_position: 2\n---\n\n## Nodes\n\nA node is a process.\n")
	writeFile(t, root, "Part-1-introduction/overview.mdx", "# Overview\n\nPhysical AI is embodied.\n")
	writeFile(t, root, "intro.md", "Welcome.")
	writeFile(t, root, "Part-1-introduction/notes.txt", "ignored")
	writeFile(t, root, ".drafts/secret.md", "# hidden")

	lib, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, 3, lib.Len())

	idx, ok := lib.IndexOf("/docs/Part-2-humanoid-robotics/ros2-basics")
	require.True(t, ok)
	page, ok := lib.At(idx)
	require.True(t, ok)
	assert.Equal(t, "docs/Part-2-humanoid-robotics/ros2-basics.md", page.ContentID)
	assert.Equal(t, "ROS 2 Basics", page.Title)
	assert.Equal(t, "Part 2 · Humanoid Robotics", page.Part)
	assert.Equal(t, "## Nodes\n\nA node is a process.", page.Body)

	idx, ok = lib.IndexOf("/docs/Part-1-introduction/overview")
	require.True(t, ok)
	page, _ = lib.At(idx)
	assert.Equal(t, "Overview", page.Title)

	idx, ok = lib.IndexOf("/docs/intro")
	require.True(t, ok)
	page, _ = lib.At(idx)
	assert.Equal(t, "intro", page.Title)
	assert.Empty(t, page.Part)

	_, ok = lib.IndexOf("/docs/.drafts/secret")
	assert.False(t, ok)
}

func TestLoadRejectsMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = Load(file)
	assert.Error(t, err)
}

func TestPagesAreRouteOrdered(t *testing.T) {
	t.Parallel()

	lib := NewLibrary([]Page{{Route: "/docs/b"}, {Route: "/docs/a"}})
	pages := lib.Pages()
	require.Len(t, pages, 2)
	assert.Equal(t, "/docs/a", pages[0].Route)
	_, ok := lib.At(5)
	assert.False(t, ok)

	var empty *Library
	assert.Zero(t, empty.Len())
}

func TestPartLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Part 3 · Ros2", PartLabel("Part-3-ros2/nodes.md"))
	assert.Equal(t, "Part 6", PartLabel("part-6/capstone.md"))
	assert.Equal(t, "Appendix Tools", PartLabel("appendix-tools/list.md"))
	assert.Equal(t, "", PartLabel("top.md"))
}
