package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Store guarda archivos subidos en disco local.
// El nombre es el timestamp en milisegundos + extensión original,
// como el esquema histórico; el registro solo guarda ese nombre.
type Store struct {
	dir string

	mu   sync.Mutex
	last int64
	seq  int
	now  func() time.Time
}

func NewStore(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save escribe el contenido y devuelve el nombre de archivo asignado.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	name := s.nextName(filepath.Ext(originalName))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}

// nextName evita colisiones cuando dos subidas caen en el mismo milisegundo.
func (s *Store) nextName(ext string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms == s.last {
		s.seq++
	} else {
		s.last = ms
		s.seq = 0
	}
	if s.seq == 0 {
		return fmt.Sprintf("%d%s", ms, ext)
	}
	return fmt.Sprintf("%d-%d%s", ms, s.seq, ext)
}
