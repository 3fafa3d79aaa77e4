package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

func newTestFS(t *testing.T) (*LocalFS, string) {
	t.Helper()

	root := t.TempDir()
	fsys, err := New(root)
	require.NoError(t, err)
	return fsys, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew(t *testing.T) {
	t.Run("RejectsMissingRoot", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "does-not-exist"))
		assert.Error(t, err)
	})

	t.Run("RejectsFileRoot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, path, "not a directory")

		_, err := New(path)
		assert.ErrorIs(t, err, vfs.ErrNotDirectory)
	})

	t.Run("RootHandleIsZero", func(t *testing.T) {
		fsys, _ := newTestFS(t)
		assert.Equal(t, vfs.Handle(0), fsys.Root())
	})
}

func TestLookup(t *testing.T) {
	t.Run("FindsExistingFile", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "report.txt"), "hello")

		h, err := fsys.Lookup(fsys.Root(), "report.txt")
		require.NoError(t, err)
		assert.NotEqual(t, fsys.Root(), h)
	})

	t.Run("MissingNameReturnsNotFound", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		_, err := fsys.Lookup(fsys.Root(), "missing.txt")
		assert.ErrorIs(t, err, vfs.ErrNotFound)
	})

	t.Run("UnknownParentReturnsNotFound", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		_, err := fsys.Lookup(vfs.Handle(999), "anything")
		assert.ErrorIs(t, err, vfs.ErrNotFound)
	})

	t.Run("RepeatedLookupReturnsSameHandle", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "stable.txt"), "x")

		first, err := fsys.Lookup(fsys.Root(), "stable.txt")
		require.NoError(t, err)
		second, err := fsys.Lookup(fsys.Root(), "stable.txt")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("DotDotResolvesToParent", func(t *testing.T) {
		fsys, root := newTestFS(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

		sub, err := fsys.Lookup(fsys.Root(), "sub")
		require.NoError(t, err)

		back, err := fsys.Lookup(sub, "..")
		require.NoError(t, err)
		assert.Equal(t, fsys.Root(), back)
	})

	t.Run("NameCannotLeaveExportRoot", func(t *testing.T) {
		fsys, root := newTestFS(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

		sub, err := fsys.Lookup(fsys.Root(), "sub")
		require.NoError(t, err)

		_, err = fsys.Lookup(fsys.Root(), "..")
		assert.ErrorIs(t, err, vfs.ErrNotFound)

		_, err = fsys.Lookup(sub, "../..")
		assert.ErrorIs(t, err, vfs.ErrNotFound)

		_, err = fsys.Lookup(fsys.Root(), "sub/../../etc")
		assert.ErrorIs(t, err, vfs.ErrNotFound)
	})
}

func TestGetAttr(t *testing.T) {
	t.Run("RegularFile", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "data.bin"), "12345")

		h, err := fsys.Lookup(fsys.Root(), "data.bin")
		require.NoError(t, err)

		stat, err := fsys.GetAttr(h)
		require.NoError(t, err)
		assert.Equal(t, vfs.FileTypeRegular, stat.Type())
		assert.Equal(t, uint64(5), stat.Size)
		assert.Equal(t, uint32(placeholderNlink), stat.Nlink)
		assert.Equal(t, uint32(placeholderUID), stat.UID)
		assert.Equal(t, uint64(placeholderDev), stat.Dev)
	})

	t.Run("Directory", func(t *testing.T) {
		fsys, root := newTestFS(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

		h, err := fsys.Lookup(fsys.Root(), "sub")
		require.NoError(t, err)

		stat, err := fsys.GetAttr(h)
		require.NoError(t, err)
		assert.Equal(t, vfs.FileTypeDirectory, stat.Type())
	})

	t.Run("Symlink", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "target"), "t")
		require.NoError(t, os.Symlink("target", filepath.Join(root, "alias")))

		h, err := fsys.Lookup(fsys.Root(), "alias")
		require.NoError(t, err)

		stat, err := fsys.GetAttr(h)
		require.NoError(t, err)
		assert.Equal(t, vfs.FileTypeSymlink, stat.Type())
	})

	t.Run("CtimeMirrorsMtime", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "f"), "x")

		h, err := fsys.Lookup(fsys.Root(), "f")
		require.NoError(t, err)

		stat, err := fsys.GetAttr(h)
		require.NoError(t, err)
		assert.Equal(t, stat.Mtime, stat.Ctime)
		assert.Equal(t, uint64(stat.Mtime.UnixMilli()), stat.Generation)
	})
}

func TestReadLink(t *testing.T) {
	fsys, root := newTestFS(t)
	writeFile(t, filepath.Join(root, "real"), "x")
	require.NoError(t, os.Symlink("real", filepath.Join(root, "link")))

	h, err := fsys.Lookup(fsys.Root(), "link")
	require.NoError(t, err)

	target, err := fsys.ReadLink(h)
	require.NoError(t, err)
	assert.Equal(t, "real", target)
}

func TestReadDir(t *testing.T) {
	t.Run("ListsAllChildren", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "a.txt"), "a")
		writeFile(t, filepath.Join(root, "b.txt"), "b")
		require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))

		entries, err := fsys.ReadDir(fsys.Root())
		require.NoError(t, err)
		require.Len(t, entries, 3)

		names := make(map[string]vfs.FileType, len(entries))
		for _, e := range entries {
			require.NotNil(t, e.Stat)
			names[e.Name] = e.Stat.Type()
		}
		assert.Equal(t, vfs.FileTypeRegular, names["a.txt"])
		assert.Equal(t, vfs.FileTypeRegular, names["b.txt"])
		assert.Equal(t, vfs.FileTypeDirectory, names["dir"])
	})

	t.Run("EntriesCarryStableHandles", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "x.txt"), "x")

		entries, err := fsys.ReadDir(fsys.Root())
		require.NoError(t, err)
		require.Len(t, entries, 1)

		viaLookup, err := fsys.Lookup(fsys.Root(), "x.txt")
		require.NoError(t, err)
		assert.Equal(t, viaLookup, entries[0].Handle)
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		entries, err := fsys.ReadDir(fsys.Root())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestParentOf(t *testing.T) {
	t.Run("RootHasNoParent", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		_, err := fsys.ParentOf(fsys.Root())
		assert.ErrorIs(t, err, vfs.ErrNotFound)
	})

	t.Run("ChildReportsItsDirectory", func(t *testing.T) {
		fsys, root := newTestFS(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
		writeFile(t, filepath.Join(root, "sub", "leaf.txt"), "x")

		sub, err := fsys.Lookup(fsys.Root(), "sub")
		require.NoError(t, err)
		leaf, err := fsys.Lookup(sub, "leaf.txt")
		require.NoError(t, err)

		parent, err := fsys.ParentOf(leaf)
		require.NoError(t, err)
		assert.Equal(t, sub, parent)

		grandparent, err := fsys.ParentOf(sub)
		require.NoError(t, err)
		assert.Equal(t, fsys.Root(), grandparent)
	})
}

func TestCreate(t *testing.T) {
	t.Run("CreatesRegularFile", func(t *testing.T) {
		fsys, root := newTestFS(t)

		h, err := fsys.Create(fsys.Root(), vfs.FileTypeRegular, "fresh.txt", 0, 0, 0o644)
		require.NoError(t, err)

		// The new object is immediately visible and identity stable.
		viaLookup, err := fsys.Lookup(fsys.Root(), "fresh.txt")
		require.NoError(t, err)
		assert.Equal(t, h, viaLookup)

		_, err = os.Stat(filepath.Join(root, "fresh.txt"))
		assert.NoError(t, err)
	})

	t.Run("ExistingNameFails", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "taken.txt"), "x")

		_, err := fsys.Create(fsys.Root(), vfs.FileTypeRegular, "taken.txt", 0, 0, 0o644)
		assert.Error(t, err)
	})

	t.Run("NonRegularTypeIsDeclined", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		_, err := fsys.Create(fsys.Root(), vfs.FileTypeDirectory, "d", 0, 0, 0o755)
		assert.ErrorIs(t, err, vfs.ErrNotSupported)
	})
}

func TestRemove(t *testing.T) {
	t.Run("RemovesFile", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeFile(t, filepath.Join(root, "gone.txt"), "x")

		h, err := fsys.Lookup(fsys.Root(), "gone.txt")
		require.NoError(t, err)

		require.NoError(t, fsys.Remove(fsys.Root(), "gone.txt"))

		// The handle survives removal; attribute reads now fail at use time.
		_, err = fsys.GetAttr(h)
		assert.ErrorIs(t, err, vfs.ErrNotFound)
	})

	t.Run("MissingNameReturnsNotFound", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		err := fsys.Remove(fsys.Root(), "never-existed")
		assert.ErrorIs(t, err, vfs.ErrNotFound)
	})
}

func TestSetAttr(t *testing.T) {
	fsys, root := newTestFS(t)
	writeFile(t, filepath.Join(root, "f"), "content")

	h, err := fsys.Lookup(fsys.Root(), "f")
	require.NoError(t, err)

	// The call succeeds but persists nothing.
	require.NoError(t, fsys.SetAttr(h, &vfs.Stat{Mode: 0o600}))

	stat, err := fsys.GetAttr(h)
	require.NoError(t, err)
	assert.Equal(t, uint32(0o644), stat.Mode&vfs.ModePermMask)
}

func TestAccess(t *testing.T) {
	fsys, _ := newTestFS(t)

	granted, err := fsys.Access(fsys.Root(), 0x3F)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3F), granted)
}

func TestStatFS(t *testing.T) {
	fsys, _ := newTestFS(t)

	stat, err := fsys.StatFS()
	require.NoError(t, err)
	assert.Greater(t, stat.TotalBytes, uint64(0))
	assert.LessOrEqual(t, stat.UsedBytes, stat.TotalBytes)
	assert.Equal(t, uint64(0), stat.TotalFiles)
	assert.Equal(t, uint64(0), stat.UsedFiles)
}

func TestUnsupportedOperations(t *testing.T) {
	fsys, _ := newTestFS(t)
	root := fsys.Root()

	_, err := fsys.Mkdir(root, "d", 0, 0, 0o755)
	assert.ErrorIs(t, err, vfs.ErrNotSupported)

	_, err = fsys.Symlink(root, "l", "target", 0, 0, 0o777)
	assert.ErrorIs(t, err, vfs.ErrNotSupported)

	_, err = fsys.Link(root, root, "hard")
	assert.ErrorIs(t, err, vfs.ErrNotSupported)

	err = fsys.Rename(root, "a", root, "b")
	assert.ErrorIs(t, err, vfs.ErrNotSupported)

	_, err = fsys.Read(root, make([]byte, 16), 0)
	assert.ErrorIs(t, err, vfs.ErrNotSupported)

	_, err = fsys.Write(root, []byte("data"), 0)
	assert.ErrorIs(t, err, vfs.ErrNotSupported)
}

func TestAclSurface(t *testing.T) {
	fsys, _ := newTestFS(t)

	acl, err := fsys.GetAcl(fsys.Root())
	require.NoError(t, err)
	assert.Empty(t, acl)

	assert.NoError(t, fsys.SetAcl(fsys.Root(), []vfs.ACE{{}}))

	layout, err := fsys.HasIOLayout(fsys.Root())
	require.NoError(t, err)
	assert.False(t, layout)
}

func TestAclCheckableNeverDecides(t *testing.T) {
	fsys, _ := newTestFS(t)

	checker := fsys.GetAclCheckable()
	require.NotNil(t, checker)

	for _, mask := range []uint32{0, 0x3F, ^uint32(0)} {
		result, err := checker.CheckAcl(fsys.Root(), mask)
		require.NoError(t, err)
		assert.Equal(t, vfs.AclCheckUndefined, result)
	}
}

func TestHardLinksAreDistinctIdentities(t *testing.T) {
	fsys, root := newTestFS(t)
	writeFile(t, filepath.Join(root, "original"), "shared")
	require.NoError(t, os.Link(filepath.Join(root, "original"), filepath.Join(root, "alias")))

	orig, err := fsys.Lookup(fsys.Root(), "original")
	require.NoError(t, err)
	alias, err := fsys.Lookup(fsys.Root(), "alias")
	require.NoError(t, err)

	// Two paths to the same storage object get two handles but share a
	// file ID derived from the (device, inode) key.
	assert.NotEqual(t, orig, alias)

	origStat, err := fsys.GetAttr(orig)
	require.NoError(t, err)
	aliasStat, err := fsys.GetAttr(alias)
	require.NoError(t, err)
	assert.Equal(t, origStat.FileID, aliasStat.FileID)
}
