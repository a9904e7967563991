// Package archive persists finished session transcripts. Each session is
// written as a markdown document whose YAML frontmatter carries the session
// identifier, timestamps and the merged result, with the raw transcript as
// the body.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("archive: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("archive: malformed frontmatter")
)

// Record captures the metadata stored inside an archived session document.
type Record struct {
	SessionID   string
	CreatedAt   time.Time
	FirstCount  int
	SecondCount int
	Result      string
}

func (r Record) withDefaults(now time.Time) Record {
	clone := r
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now.UTC()
	} else {
		clone.CreatedAt = clone.CreatedAt.UTC()
	}
	return clone
}

// Store manages archived session documents under a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for record timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = clock
	}
}

// NewStore builds a store rooted at dir. The directory is created lazily on
// the first Save.
func NewStore(dir string, opts ...StoreOption) *Store {
	store := &Store{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Save writes the record and transcript body as <dir>/<session id>.md and
// returns the path written.
func (s *Store) Save(rec Record, body []byte) (string, error) {
	if rec.SessionID == "" {
		return "", fmt.Errorf("archive: record missing session id")
	}
	prepared := rec.withDefaults(s.now())
	content, err := Encode(prepared, body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: ensure dir: %w", err)
	}
	path := filepath.Join(s.dir, prepared.SessionID+".md")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("archive: write %s: %w", path, err)
	}
	return path, nil
}

// Load reads an archived session document back into its record and body.
func (s *Store) Load(path string) (Record, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, nil, fmt.Errorf("archive: read %s: %w", path, err)
	}
	return Decode(data)
}

// List returns the paths of all archived sessions in name order. A store
// directory that does not exist yet yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("archive: list %s: %w", s.dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Encode renders a record + body with YAML fences.
func Encode(rec Record, body []byte) ([]byte, error) {
	if rec.SessionID == "" {
		return nil, fmt.Errorf("archive: record missing session id")
	}
	envelope := cascadeEnvelope{}
	envelope.fromRecord(rec)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("archive: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode extracts the record and body from a document that starts with
// `---` YAML fences.
func Decode(content []byte) (Record, []byte, error) {
	if len(content) == 0 {
		return Record{}, nil, ErrMissingFrontMatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Record{}, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return Record{}, nil, ErrMalformedFrontMatter
	}
	var envelope cascadeEnvelope
	if err := yaml.Unmarshal(parts[0], &envelope); err != nil {
		return Record{}, nil, fmt.Errorf("archive: parse frontmatter: %w", err)
	}
	rec, err := envelope.toRecord()
	if err != nil {
		return Record{}, nil, err
	}
	// The blank line Encode leaves after the closing fence belongs to the
	// fence layout, not the body.
	body := bytes.TrimPrefix(parts[1], []byte("\n"))
	return rec, body, nil
}

type cascadeEnvelope struct {
	Cascade cascadeRecord `yaml:"cascade"`
}

type cascadeRecord struct {
	Session     string `yaml:"session"`
	Created     string `yaml:"created"`
	FirstCount  int    `yaml:"first_count"`
	SecondCount int    `yaml:"second_count"`
	Result      string `yaml:"result"`
}

func (e *cascadeEnvelope) fromRecord(rec Record) {
	e.Cascade.Session = rec.SessionID
	e.Cascade.Created = rec.CreatedAt.UTC().Format(timeLayout)
	e.Cascade.FirstCount = rec.FirstCount
	e.Cascade.SecondCount = rec.SecondCount
	e.Cascade.Result = rec.Result
}

func (e cascadeEnvelope) toRecord() (Record, error) {
	if e.Cascade.Session == "" {
		return Record{}, ErrMalformedFrontMatter
	}
	created, err := parseTime(e.Cascade.Created)
	if err != nil {
		return Record{}, fmt.Errorf("archive: parse created timestamp: %w", err)
	}
	return Record{
		SessionID:   e.Cascade.Session,
		CreatedAt:   created,
		FirstCount:  e.Cascade.FirstCount,
		SecondCount: e.Cascade.SecondCount,
		Result:      e.Cascade.Result,
	}, nil
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func parseTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("archive: empty created timestamp")
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
