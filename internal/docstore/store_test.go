package docstore

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewStore(t.TempDir(), logger)
	require.NoError(t, err)
	return store
}

func TestProvisionCreatesSkeleton(t *testing.T) {
	store := newStore(t)
	const code = "GAN-IM-25/11/001"

	require.NoError(t, store.Provision(code))
	for _, sub := range Subfolders {
		path := filepath.Join(store.root, "GAN-IM-25", "11", "001", sub)
		info, err := os.Stat(path)
		require.NoError(t, err, sub)
		require.True(t, info.IsDir())
	}

	// second provision is a no-op
	require.NoError(t, store.Provision(code))
}

func TestProvisionRejectsTraversal(t *testing.T) {
	store := newStore(t)

	require.ErrorIs(t, store.Provision("../outside"), httpx.ErrValidation)
	require.ErrorIs(t, store.Provision("GAN-IM-25/../../etc"), httpx.ErrValidation)
	require.ErrorIs(t, store.Provision(""), httpx.ErrValidation)
}

func TestSaveFileValidatesSubfolder(t *testing.T) {
	store := newStore(t)

	_, err := store.SaveFile("GAN-IM-25/11/001", "Contrabando", "x.txt", strings.NewReader("x"))
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSaveAndListFiles(t *testing.T) {
	store := newStore(t)
	const code = "GAN-IM-25/11/001"

	older, err := store.SaveFile(code, "BLs", "draft-bl.pdf", strings.NewReader("draft"))
	require.NoError(t, err)
	require.Equal(t, "GAN-IM-25/11/001/BLs/draft-bl.pdf", older)

	// newer file must list first
	abs := filepath.Join(store.root, filepath.FromSlash(older))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(abs, past, past))
	_, err = store.SaveFile(code, "BLs", "final-bl.pdf", strings.NewReader("final"))
	require.NoError(t, err)

	files, err := store.ListFiles(code)
	require.NoError(t, err)
	require.Len(t, files["BLs"], 2)
	require.Equal(t, "final-bl.pdf", files["BLs"][0].Name)
	require.Equal(t, "draft-bl.pdf", files["BLs"][1].Name)
	require.Empty(t, files["Facturas"])
}

func TestSaveFileStripsDirectories(t *testing.T) {
	store := newStore(t)

	path, err := store.SaveFile("GAN-IM-25/11/001", "Otros", "../../evil.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, "GAN-IM-25/11/001/Otros/evil.txt", path)
}

func TestFindNewestPDFWidensSearch(t *testing.T) {
	store := newStore(t).WithClock(func() time.Time {
		return time.Date(2025, time.November, 14, 10, 0, 0, 0, time.UTC)
	})
	const code = "GAN-IM-25/11/001"

	_, err := store.SavePDF(code, "interno", strings.NewReader("pdf"))
	require.NoError(t, err)

	// exact kind match
	path, err := store.FindNewestPDF(code, "interno")
	require.NoError(t, err)
	require.Contains(t, filepath.Base(path), "GAN-IM-25_11_001_interno")

	// unknown kind widens to the code
	path, err = store.FindNewestPDF(code, "cliente")
	require.NoError(t, err)
	require.Contains(t, filepath.Base(path), "GAN-IM-25_11_001")

	// foreign file name still matches the any-pdf pass
	_, err = store.SaveFile(code, PDFFolder, "scan.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	_, err = store.FindNewestPDF("GAN-IM-25/11/001", "interno")
	require.NoError(t, err)
}

func TestFindNewestPDFMissing(t *testing.T) {
	store := newStore(t)

	_, err := store.FindNewestPDF("GAN-IM-25/11/001", "interno")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestFindNewestPDFPrefersFreshest(t *testing.T) {
	store := newStore(t)
	const code = "GAN-IM-25/11/001"

	oldRel, err := store.SaveFile(code, PDFFolder, "GAN-IM-25_11_001_interno_old.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	abs := filepath.Join(store.root, filepath.FromSlash(oldRel))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(abs, past, past))

	_, err = store.SaveFile(code, PDFFolder, "GAN-IM-25_11_001_interno_new.pdf", strings.NewReader("b"))
	require.NoError(t, err)

	path, err := store.FindNewestPDF(code, "interno")
	require.NoError(t, err)
	require.Equal(t, "GAN-IM-25_11_001_interno_new.pdf", filepath.Base(path))
}
