package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrLoadFailure = errors.New("load failure")
)

// Per-subject directory names.
const (
	quizzesDir    = "quizzes"
	materialsDir  = "materials"
	audioDir      = "audio-materials"
	flashcardsDir = "flashcards"
)

const (
	untitled        = "Brak tytułu"
	defaultCategory = "Ogólny"
)

var audioFormats = []string{".mp3", ".wav", ".ogg", ".m4a"}

// ContentIndex reads study content from <root>/<subject>/<kind>/.
// It holds no state besides the root, every call sees the files as they
// are at call time.
type ContentIndex struct {
	root string
}

func NewContentIndex(root string) *ContentIndex {
	return &ContentIndex{root: root}
}

func (ci *ContentIndex) Root() string { return ci.root }

// Subjects lists the subject directories in Polish collation order.
func (ci *ContentIndex) Subjects() ([]string, error) {
	entries, err := os.ReadDir(ci.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: read content root: %v", ErrLoadFailure, err)
	}
	subjects := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), e.IsDir() && !strings.HasPrefix(e.Name(), ".")
	})
	collate.New(language.Polish).SortStrings(subjects)
	return subjects, nil
}

// ---- quizzes ----

func (ci *ContentIndex) ListQuizzes(subject string) ([]QuizMetadata, error) {
	files, err := ci.listFiles(subject, quizzesDir, ".json")
	if err != nil {
		return nil, err
	}
	out := make([]QuizMetadata, 0, len(files))
	for _, f := range files {
		var q Quiz
		if err := readJSON(f.path, &q); err != nil {
			slog.Warn("skipping quiz", "subject", subject, "file", f.name, "err", err)
			continue
		}
		out = append(out, QuizMetadata{
			ID:            strings.TrimSuffix(f.name, ".json"),
			Filename:      f.name,
			Title:         lo.Ternary(q.Title != "", q.Title, untitled),
			Description:   q.Description,
			QuestionCount: len(q.Questions),
			CreatedAt:     f.modTime,
		})
	}
	return out, nil
}

func (ci *ContentIndex) LoadQuiz(subject, id string) (*Quiz, error) {
	path, err := ci.itemPath(subject, quizzesDir, id+".json")
	if err != nil {
		return nil, fmt.Errorf("quiz %q: %w", id, err)
	}
	var q Quiz
	if err := readJSON(path, &q); err != nil {
		return nil, fmt.Errorf("quiz %q in %q: %w", id, subject, err)
	}
	if err := validateQuiz(&q); err != nil {
		return nil, fmt.Errorf("quiz %q in %q: %w: %v", id, subject, ErrLoadFailure, err)
	}
	return &q, nil
}

func validateQuiz(q *Quiz) error {
	for i, qq := range q.Questions {
		if qq.CorrectAnswer < 0 || qq.CorrectAnswer >= len(qq.Options) {
			return fmt.Errorf("question %d: correctAnswer %d out of range (%d options)", i, qq.CorrectAnswer, len(qq.Options))
		}
	}
	return nil
}

// ---- materials ----

func (ci *ContentIndex) ListMaterials(subject string) ([]Material, error) {
	files, err := ci.listFiles(subject, materialsDir, ".txt")
	if err != nil {
		return nil, err
	}
	out := lo.Map(files, func(f contentFile, _ int) Material {
		id := strings.TrimSuffix(f.name, ".txt")
		return Material{
			ID:        id,
			Filename:  f.name,
			Title:     titleFromName(id),
			Subject:   subject,
			Size:      f.size,
			CreatedAt: f.modTime,
			URL:       itemURL(materialsDir, id, subject),
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (ci *ContentIndex) LoadMaterial(subject, id string) (*MaterialContent, error) {
	name := id + ".txt"
	path, err := ci.itemPath(subject, materialsDir, name)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", id, err)
	}
	info, err := statFile(path)
	if err != nil {
		return nil, fmt.Errorf("material %q in %q: %w", id, subject, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("material %q in %q: %w: %v", id, subject, ErrLoadFailure, err)
	}
	return &MaterialContent{
		ID:        id,
		Filename:  name,
		Title:     titleFromName(id),
		Content:   string(raw),
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// ---- audio ----

func (ci *ContentIndex) ListAudio(subject string) ([]AudioMaterial, error) {
	files, err := ci.listFiles(subject, audioDir, audioFormats...)
	if err != nil {
		return nil, err
	}
	out := lo.Map(files, func(f contentFile, _ int) AudioMaterial {
		return audioFromFile(subject, f)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// AudioInfo returns the metadata of one audio file. The id is the file name
// including its extension.
func (ci *ContentIndex) AudioInfo(subject, id string) (*AudioMaterial, error) {
	path, err := ci.AudioPath(subject, id)
	if err != nil {
		return nil, err
	}
	info, err := statFile(path)
	if err != nil {
		return nil, fmt.Errorf("audio %q in %q: %w", id, subject, err)
	}
	a := audioFromFile(subject, contentFile{name: id, path: path, size: info.Size(), modTime: info.ModTime()})
	return &a, nil
}

func (ci *ContentIndex) AudioPath(subject, id string) (string, error) {
	if !hasExt(id, audioFormats) {
		return "", fmt.Errorf("audio %q: %w", id, ErrNotFound)
	}
	path, err := ci.itemPath(subject, audioDir, id)
	if err != nil {
		return "", fmt.Errorf("audio %q: %w", id, err)
	}
	if _, err := statFile(path); err != nil {
		return "", fmt.Errorf("audio %q in %q: %w", id, subject, err)
	}
	return path, nil
}

func audioFromFile(subject string, f contentFile) AudioMaterial {
	ext := filepath.Ext(f.name)
	return AudioMaterial{
		ID:        f.name,
		Filename:  f.name,
		Title:     titleFromName(strings.TrimSuffix(f.name, ext)),
		Subject:   subject,
		Format:    strings.ToLower(strings.TrimPrefix(ext, ".")),
		Size:      f.size,
		CreatedAt: f.modTime,
		URL:       itemURL(audioDir, f.name, subject),
	}
}

// ---- flashcards ----

func (ci *ContentIndex) ListFlashcards(subject string) ([]FlashcardMetadata, error) {
	files, err := ci.listFiles(subject, flashcardsDir, ".json")
	if err != nil {
		return nil, err
	}
	out := make([]FlashcardMetadata, 0, len(files))
	for _, f := range files {
		var set FlashcardSet
		if err := readJSON(f.path, &set); err != nil {
			slog.Warn("skipping flashcard set", "subject", subject, "file", f.name, "err", err)
			continue
		}
		out = append(out, FlashcardMetadata{
			ID:          strings.TrimSuffix(f.name, ".json"),
			Filename:    f.name,
			Title:       lo.Ternary(set.Title != "", set.Title, untitled),
			Description: set.Description,
			Category:    lo.Ternary(set.Category != "", set.Category, defaultCategory),
			CardCount:   len(set.Cards),
			CreatedAt:   f.modTime,
		})
	}
	col := collate.New(language.Polish)
	sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i].Category, out[j].Category) < 0 })
	return out, nil
}

func (ci *ContentIndex) LoadFlashcardSet(subject, id string) (*FlashcardSet, error) {
	path, err := ci.itemPath(subject, flashcardsDir, id+".json")
	if err != nil {
		return nil, fmt.Errorf("flashcard set %q: %w", id, err)
	}
	var set FlashcardSet
	if err := readJSON(path, &set); err != nil {
		return nil, fmt.Errorf("flashcard set %q in %q: %w", id, subject, err)
	}
	return &set, nil
}

// ---- search ----

// filterByTitle keeps the items whose title fuzzily contains query.
func filterByTitle[T any](items []T, query string, title func(T) string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	return lo.Filter(items, func(it T, _ int) bool {
		return fuzzy.MatchFold(query, title(it))
	})
}

// ---- file helpers ----

type contentFile struct {
	name    string
	path    string
	size    int64
	modTime time.Time
}

// listFiles returns the regular files with one of exts in <subject>/<kind>.
// A missing directory is an empty listing.
func (ci *ContentIndex) listFiles(subject, kind string, exts ...string) ([]contentFile, error) {
	if !validName(subject) {
		return []contentFile{}, nil
	}
	dir := filepath.Join(ci.root, subject, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []contentFile{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoadFailure, dir, err)
	}
	out := make([]contentFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !hasExt(e.Name(), exts) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			slog.Warn("stat content file", "dir", dir, "file", e.Name(), "err", err)
			continue
		}
		out = append(out, contentFile{
			name:    e.Name(),
			path:    filepath.Join(dir, e.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return out, nil
}

// itemPath resolves one file, refusing names that could leave the kind dir.
func (ci *ContentIndex) itemPath(subject, kind, name string) (string, error) {
	if !validName(subject) || !validName(name) {
		return "", ErrNotFound
	}
	return filepath.Join(ci.root, subject, kind, name), nil
}

func validName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..") && !strings.ContainsRune(s, 0)
}

func statFile(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}
	return info, nil
}

func readJSON(path string, v any) error {
	if _, err := statFile(path); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrLoadFailure, filepath.Base(path), err)
	}
	return nil
}

// hasExt matches exts exactly, except audio extensions which ignore case.
func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	if lo.Contains(exts, ext) {
		return true
	}
	lower := strings.ToLower(ext)
	return lo.Contains(audioFormats, lower) && lo.Contains(exts, lower)
}

// titleFromName turns "intro-to_go" into "intro to go".
func titleFromName(id string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(id)
}

// itemURL is the API path serving one item; route names match the kind
// directories except for quizzes.
func itemURL(kind, id, subject string) string {
	if kind == quizzesDir {
		kind = "quiz"
	}
	return "/api/v1/" + kind + "/" + url.PathEscape(id) + "?subject=" + url.QueryEscape(subject)
}
