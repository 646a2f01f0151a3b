package docstore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

// Subfolders is the fixed skeleton every operation folder gets. The
// names are shared with the desktop file explorer the team uses, so
// they stay in Spanish.
var Subfolders = []string{"Cotizaciones", "Documentos", "BLs", "Facturas", "Otros"}

// PDFFolder is where generated quotation PDFs land.
const PDFFolder = "Cotizaciones"

// FileInfo describes one stored file.
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// Store manages per-code document folders under a base directory.
// Codes carry slashes, which map to nested directories on disk.
type Store struct {
	root   string
	logger *slog.Logger
	now    func() time.Time
}

func NewStore(root string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: create root %s: %w", root, err)
	}
	return &Store{root: root, logger: logger, now: time.Now}, nil
}

// WithClock overrides the store clock. Tests only.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// folderPath maps a code to its directory, rejecting codes that would
// escape the root.
func (s *Store) folderPath(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty code: %w", httpx.ErrValidation)
	}
	for _, part := range strings.Split(code, "/") {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("invalid code %q: %w", code, httpx.ErrValidation)
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(code)), nil
}

// ValidSubfolder reports whether name is part of the folder skeleton.
func ValidSubfolder(name string) bool {
	for _, s := range Subfolders {
		if s == name {
			return true
		}
	}
	return false
}

// Provision creates the folder skeleton for a code. Idempotent.
func (s *Store) Provision(code string) error {
	base, err := s.folderPath(code)
	if err != nil {
		return err
	}
	for _, sub := range Subfolders {
		if err := os.MkdirAll(filepath.Join(base, sub), 0o755); err != nil {
			return fmt.Errorf("docstore: provision %s: %w", code, err)
		}
	}
	s.logger.Info("document folder provisioned", slog.String("code", code))
	return nil
}

// SaveFile stores a file in one of the code's subfolders and returns
// its path relative to the root.
func (s *Store) SaveFile(code, subfolder, filename string, r io.Reader) (string, error) {
	if !ValidSubfolder(subfolder) {
		return "", fmt.Errorf("invalid subfolder %q: %w", subfolder, httpx.ErrValidation)
	}
	base, err := s.folderPath(code)
	if err != nil {
		return "", err
	}
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %w", httpx.ErrValidation)
	}

	dir := filepath.Join(base, subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("docstore: create %s: %w", dir, err)
	}

	dest := filepath.Join(dir, filename)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("docstore: create file %s: %w", dest, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("docstore: write %s: %w", dest, err)
	}

	rel, err := filepath.Rel(s.root, dest)
	if err != nil {
		rel = dest
	}
	s.logger.Info("file stored", slog.String("code", code), slog.String("file", rel))
	return filepath.ToSlash(rel), nil
}

// SavePDF stores a generated quotation PDF under the Cotizaciones
// subfolder, named so the widening search can find it later.
func (s *Store) SavePDF(code, kind string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.pdf",
		strings.ReplaceAll(code, "/", "_"), kind, s.now().Format("20060102_150405"))
	return s.SaveFile(code, PDFFolder, name, r)
}

// ListFiles returns the files in each subfolder of a code, newest
// first. Missing subfolders list as empty.
func (s *Store) ListFiles(code string) (map[string][]FileInfo, error) {
	base, err := s.folderPath(code)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]FileInfo, len(Subfolders))
	for _, sub := range Subfolders {
		files, err := s.listDir(filepath.Join(base, sub))
		if err != nil {
			return nil, err
		}
		out[sub] = files
	}
	return out, nil
}

func (s *Store) listDir(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("docstore: read %s: %w", dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(s.root, filepath.Join(dir, e.Name()))
		if err != nil {
			rel = e.Name()
		}
		files = append(files, FileInfo{
			Name:    e.Name(),
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ModTime.After(files[j].ModTime) })
	return files, nil
}

// FindNewestPDF locates the freshest PDF for a code, widening the match
// until something turns up: code and kind in the name, then just the
// code, then any PDF in the folder.
func (s *Store) FindNewestPDF(code, kind string) (string, error) {
	base, err := s.folderPath(code)
	if err != nil {
		return "", err
	}

	all, err := s.listDir(filepath.Join(base, PDFFolder))
	if err != nil {
		return "", err
	}
	var pdfs []FileInfo
	for _, f := range all {
		if strings.EqualFold(filepath.Ext(f.Name), ".pdf") {
			pdfs = append(pdfs, f)
		}
	}
	if len(pdfs) == 0 {
		return "", fmt.Errorf("no pdf for %s: %w", code, httpx.ErrNotFound)
	}

	codeKey := strings.ToLower(strings.ReplaceAll(code, "/", "_"))
	kindKey := strings.ToLower(kind)
	match := func(f FileInfo, keys ...string) bool {
		name := strings.ToLower(f.Name)
		for _, k := range keys {
			if !strings.Contains(name, k) {
				return false
			}
		}
		return true
	}

	for _, keys := range [][]string{{codeKey, kindKey}, {codeKey}, nil} {
		for _, f := range pdfs {
			if match(f, keys...) {
				return filepath.Join(s.root, filepath.FromSlash(f.Path)), nil
			}
		}
	}
	return "", fmt.Errorf("no pdf for %s: %w", code, httpx.ErrNotFound)
}
