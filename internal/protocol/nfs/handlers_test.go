package nfs

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshightower/simple-nfs/pkg/vfs"
	"github.com/jameshightower/simple-nfs/pkg/vfs/localfs"
)

func newTestFS(t *testing.T) (*localfs.LocalFS, string) {
	t.Helper()

	root := t.TempDir()
	fsys, err := localfs.New(root)
	require.NoError(t, err)
	return fsys, root
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func encodeHandleArg(h vfs.Handle) []byte {
	var buf bytes.Buffer
	writeOpaque(&buf, h.Bytes())
	return buf.Bytes()
}

func encodeDirOpArg(dir vfs.Handle, name string) []byte {
	var buf bytes.Buffer
	writeOpaque(&buf, dir.Bytes())
	writeString(&buf, name)
	return buf.Bytes()
}

func TestGetAttrHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}

	t.Run("ReturnsAttributes", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "f.txt"), "12345")

		h, err := fsys.Lookup(fsys.Root(), "f.txt")
		require.NoError(t, err)

		resp, err := handler.GetAttr(fsys, &GetAttrRequest{Handle: h})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3OK), resp.Status)
		require.NotNil(t, resp.Attr)
		assert.Equal(t, uint32(NF3Reg), resp.Attr.Type)
		assert.Equal(t, uint64(5), resp.Attr.Size)
	})

	t.Run("UnknownHandleReturnsNoEnt", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		resp, err := handler.GetAttr(fsys, &GetAttrRequest{Handle: vfs.Handle(999)})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNoEnt), resp.Status)
	})

	t.Run("DecodeRoundTrip", func(t *testing.T) {
		req, err := DecodeGetAttrRequest(encodeHandleArg(vfs.Handle(7)))
		require.NoError(t, err)
		assert.Equal(t, vfs.Handle(7), req.Handle)
	})

	t.Run("DecodeRejectsTruncatedHandle", func(t *testing.T) {
		_, err := DecodeGetAttrRequest([]byte{0, 0, 0, 4, 0, 0})
		assert.Error(t, err)
	})
}

func TestLookupHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}

	t.Run("FindsChild", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "report.pdf"), "x")

		resp, err := handler.Lookup(fsys, &LookupRequest{
			DirHandle: fsys.Root(),
			Filename:  "report.pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3OK), resp.Status)
		assert.NotEqual(t, fsys.Root(), resp.Handle)
		require.NotNil(t, resp.Attr)
		assert.Equal(t, uint32(NF3Reg), resp.Attr.Type)
		require.NotNil(t, resp.DirAttr)
		assert.Equal(t, uint32(NF3Dir), resp.DirAttr.Type)
	})

	t.Run("MissingChildReturnsNoEnt", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		resp, err := handler.Lookup(fsys, &LookupRequest{
			DirHandle: fsys.Root(),
			Filename:  "missing",
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNoEnt), resp.Status)
		assert.NotNil(t, resp.DirAttr)
	})

	t.Run("NonDirectoryParentReturnsNotDir", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "plain.txt"), "x")

		file, err := fsys.Lookup(fsys.Root(), "plain.txt")
		require.NoError(t, err)

		resp, err := handler.Lookup(fsys, &LookupRequest{
			DirHandle: file,
			Filename:  "child",
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotDir), resp.Status)
	})

	t.Run("DecodeRoundTrip", func(t *testing.T) {
		req, err := DecodeLookupRequest(encodeDirOpArg(vfs.Handle(3), "file name.txt"))
		require.NoError(t, err)
		assert.Equal(t, vfs.Handle(3), req.DirHandle)
		assert.Equal(t, "file name.txt", req.Filename)
	})
}

func TestAccessHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}
	fsys, _ := newTestFS(t)

	requested := uint32(AccessRead | AccessLookup | AccessModify)
	resp, err := handler.Access(fsys, &AccessRequest{
		Handle: fsys.Root(),
		Access: requested,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(NFS3OK), resp.Status)
	assert.Equal(t, requested, resp.Access)
}

func TestReadLinkHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}

	t.Run("ReadsTarget", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "real"), "x")
		require.NoError(t, os.Symlink("real", filepath.Join(root, "link")))

		h, err := fsys.Lookup(fsys.Root(), "link")
		require.NoError(t, err)

		resp, err := handler.ReadLink(fsys, &ReadLinkRequest{Handle: h})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3OK), resp.Status)
		assert.Equal(t, "real", resp.Target)
	})

	t.Run("NonSymlinkReturnsInval", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		resp, err := handler.ReadLink(fsys, &ReadLinkRequest{Handle: fsys.Root()})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrInval), resp.Status)
	})
}

func TestCreateHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}

	t.Run("CreatesFile", func(t *testing.T) {
		fsys, root := newTestFS(t)

		resp, err := handler.Create(fsys, &CreateRequest{
			DirHandle: fsys.Root(),
			Filename:  "new.txt",
			Mode:      createUnchecked,
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3OK), resp.Status)
		require.NotNil(t, resp.Attr)
		assert.Equal(t, uint32(NF3Reg), resp.Attr.Type)

		_, statErr := os.Stat(filepath.Join(root, "new.txt"))
		assert.NoError(t, statErr)
	})

	t.Run("ExclusiveModeReturnsNotSupp", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		resp, err := handler.Create(fsys, &CreateRequest{
			DirHandle: fsys.Root(),
			Filename:  "x",
			Mode:      createExclusive,
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotSupp), resp.Status)
	})

	t.Run("ExistingNameReturnsExist", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "taken"), "x")

		resp, err := handler.Create(fsys, &CreateRequest{
			DirHandle: fsys.Root(),
			Filename:  "taken",
			Mode:      createGuarded,
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrExist), resp.Status)
	})
}

func TestRemoveHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}

	t.Run("RemovesFile", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "victim"), "x")

		resp, err := handler.Remove(fsys, &RemoveRequest{
			DirHandle: fsys.Root(),
			Filename:  "victim",
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3OK), resp.Status)

		_, statErr := os.Stat(filepath.Join(root, "victim"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("MissingNameReturnsNoEnt", func(t *testing.T) {
		fsys, _ := newTestFS(t)

		resp, err := handler.Remove(fsys, &RemoveRequest{
			DirHandle: fsys.Root(),
			Filename:  "ghost",
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNoEnt), resp.Status)
	})
}

func TestReadDirHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}

	t.Run("ListsEntries", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "one"), "1")
		writeTestFile(t, filepath.Join(root, "two"), "2")

		resp, err := handler.ReadDir(fsys, &ReadDirRequest{
			DirHandle: fsys.Root(),
			Count:     4096,
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3OK), resp.Status)
		assert.True(t, resp.EOF)
		require.Len(t, resp.Entries, 2)

		names := []string{resp.Entries[0].Name, resp.Entries[1].Name}
		assert.ElementsMatch(t, []string{"one", "two"}, names)
	})

	t.Run("CookieResumesListing", func(t *testing.T) {
		fsys, root := newTestFS(t)
		for _, name := range []string{"a", "b", "c", "d"} {
			writeTestFile(t, filepath.Join(root, name), name)
		}

		full, err := handler.ReadDir(fsys, &ReadDirRequest{
			DirHandle: fsys.Root(),
			Count:     4096,
		})
		require.NoError(t, err)
		require.Len(t, full.Entries, 4)

		rest, err := handler.ReadDir(fsys, &ReadDirRequest{
			DirHandle: fsys.Root(),
			Cookie:    full.Entries[1].Cookie,
			Count:     4096,
		})
		require.NoError(t, err)
		require.Len(t, rest.Entries, 2)
		assert.Equal(t, full.Entries[2].Name, rest.Entries[0].Name)
		assert.Equal(t, full.Entries[3].Name, rest.Entries[1].Name)
	})

	t.Run("CountLimitClearsEOF", func(t *testing.T) {
		fsys, root := newTestFS(t)
		for _, name := range []string{"aaaa", "bbbb", "cccc"} {
			writeTestFile(t, filepath.Join(root, name), name)
		}

		resp, err := handler.ReadDir(fsys, &ReadDirRequest{
			DirHandle: fsys.Root(),
			Count:     40,
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3OK), resp.Status)
		assert.False(t, resp.EOF)
		assert.NotEmpty(t, resp.Entries)
		assert.Less(t, len(resp.Entries), 3)
	})

	t.Run("NonDirectoryReturnsNotDir", func(t *testing.T) {
		fsys, root := newTestFS(t)
		writeTestFile(t, filepath.Join(root, "f"), "x")

		file, err := fsys.Lookup(fsys.Root(), "f")
		require.NoError(t, err)

		resp, err := handler.ReadDir(fsys, &ReadDirRequest{DirHandle: file})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotDir), resp.Status)
	})
}

func TestReadDirPlusHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}

	fsys, root := newTestFS(t)
	writeTestFile(t, filepath.Join(root, "doc.txt"), "contents")

	resp, err := handler.ReadDirPlus(fsys, &ReadDirPlusRequest{
		DirHandle: fsys.Root(),
		DirCount:  1024,
		MaxCount:  4096,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(NFS3OK), resp.Status)
	assert.True(t, resp.EOF)
	require.Len(t, resp.Entries, 1)

	entry := resp.Entries[0]
	assert.Equal(t, "doc.txt", entry.Name)
	require.NotNil(t, entry.Attr)
	assert.Equal(t, uint64(8), entry.Attr.Size)

	// The embedded handle matches what LOOKUP would return.
	viaLookup, err := fsys.Lookup(fsys.Root(), "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, viaLookup, entry.Handle)
}

func TestFsStatHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}
	fsys, _ := newTestFS(t)

	resp, err := handler.FsStat(fsys, &FsStatRequest{Handle: fsys.Root()})
	require.NoError(t, err)
	assert.Equal(t, uint32(NFS3OK), resp.Status)
	assert.Greater(t, resp.TotalBytes, uint64(0))
	assert.LessOrEqual(t, resp.FreeBytes, resp.TotalBytes)
	assert.Equal(t, uint64(0), resp.TotalFiles)
}

func TestFsInfoHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}
	fsys, _ := newTestFS(t)

	resp, err := handler.FsInfo(fsys, &FsInfoRequest{Handle: fsys.Root()})
	require.NoError(t, err)
	assert.Equal(t, uint32(NFS3OK), resp.Status)
	assert.Equal(t, uint32(65536), resp.RtMax)
	assert.NotZero(t, resp.Properties&FSFHomogeneous)
}

func TestPathConfHandler(t *testing.T) {
	handler := &DefaultNFSHandler{}
	fsys, _ := newTestFS(t)

	resp, err := handler.PathConf(fsys, &PathConfRequest{Handle: fsys.Root()})
	require.NoError(t, err)
	assert.Equal(t, uint32(NFS3OK), resp.Status)
	assert.Equal(t, uint32(255), resp.NameMax)
	assert.True(t, resp.NoTrunc)
}

func TestUnsupportedProcedures(t *testing.T) {
	handler := &DefaultNFSHandler{}
	fsys, _ := newTestFS(t)

	arg := encodeHandleArg(fsys.Root())

	t.Run("Read", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(arg)
		writeUint64(&buf, 0)    // offset
		writeUint32(&buf, 1024) // count

		resp, err := handler.Read(fsys, buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotSupp), resp.Status)
		assert.NotNil(t, resp.Attr)
	})

	t.Run("Write", func(t *testing.T) {
		resp, err := handler.Write(fsys, arg)
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotSupp), resp.Status)
	})

	t.Run("Mkdir", func(t *testing.T) {
		resp, err := handler.Mkdir(fsys, encodeDirOpArg(fsys.Root(), "sub"))
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotSupp), resp.Status)
	})

	t.Run("Rename", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(encodeDirOpArg(fsys.Root(), "from"))
		buf.Write(encodeDirOpArg(fsys.Root(), "to"))

		resp, err := handler.Rename(fsys, buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotSupp), resp.Status)
	})

	t.Run("Link", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(arg)
		buf.Write(encodeDirOpArg(fsys.Root(), "alias"))

		resp, err := handler.Link(fsys, buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotSupp), resp.Status)
	})

	t.Run("Commit", func(t *testing.T) {
		resp, err := handler.Commit(fsys, arg)
		require.NoError(t, err)
		assert.Equal(t, uint32(NFS3ErrNotSupp), resp.Status)
	})
}

func TestGetAttrResponseEncoding(t *testing.T) {
	t.Run("ErrorOmitsAttributes", func(t *testing.T) {
		resp := &GetAttrResponse{Status: NFS3ErrNoEnt}

		data, err := resp.Encode()
		require.NoError(t, err)
		require.Len(t, data, 4)
		assert.Equal(t, uint32(NFS3ErrNoEnt), binary.BigEndian.Uint32(data))
	})

	t.Run("SuccessCarriesFattr3", func(t *testing.T) {
		resp := &GetAttrResponse{
			Status: NFS3OK,
			Attr:   &FileAttr{Type: NF3Reg, Mode: 0o644, Size: 10},
		}

		data, err := resp.Encode()
		require.NoError(t, err)
		// 4 status + 84 fattr3
		assert.Len(t, data, 88)
		assert.Equal(t, uint32(NF3Reg), binary.BigEndian.Uint32(data[4:8]))
	})
}
