package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
)

var ErrDuplicateSize = errors.New("duplicate size name")

// FileThemeRepositoryConfig configures the YAML theme size declarations.
type FileThemeRepositoryConfig struct {
	// Path of the YAML file; empty means the theme declares no sizes
	Path string `env:"PATH" default:""`

	// Watch reloads the file whenever it changes on disk
	Watch bool `env:"WATCH" default:"true"`
}

type themeFile struct {
	Sizes []domain.ThemeSize `yaml:"sizes"`
}

// FileThemeRepository reads theme sizes from a YAML file:
//
//	sizes:
//	  - name: post-thumbnail
//	    width: 1200
//	    height: 675
//	    crop: true
//	  - name: hero
//	    height: 600
//
// Keys left out of an entry are not declared by the theme.
type FileThemeRepository struct {
	path    string
	sizes   atomic.Pointer[[]domain.ThemeSize]
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	log     logging.Logger
}

var _ Repository = (*FileThemeRepository)(nil)

// NewFileThemeRepository loads the file and, if configured, starts watching it.
func NewFileThemeRepository(ctx context.Context, cfg FileThemeRepositoryConfig) (*FileThemeRepository, error) {
	repo := &FileThemeRepository{
		path: cfg.Path,
		done: make(chan struct{}),
		log: logging.GetLogger("repo.theme.file_theme_repository").With(
			logging.Group("theme", "path", cfg.Path),
		),
	}

	empty := []domain.ThemeSize{}
	repo.sizes.Store(&empty)

	if cfg.Path == "" {
		return repo, nil
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("load theme sizes: %w", err)
	}

	if cfg.Watch {
		if err := repo.watch(ctx); err != nil {
			return nil, fmt.Errorf("watch theme sizes: %w", err)
		}
	}

	return repo, nil
}

// Sizes implements Repository.Sizes.
func (r *FileThemeRepository) Sizes(context.Context) ([]domain.ThemeSize, error) {
	return append([]domain.ThemeSize(nil), *r.sizes.Load()...), nil
}

// Close implements Repository.Close by stopping the watcher.
func (r *FileThemeRepository) Close() error {
	if r.watcher == nil {
		return nil
	}

	close(r.done)

	err := r.watcher.Close()
	r.wg.Wait()

	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

func (r *FileThemeRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	sizes, err := ParseSizes(data)
	if err != nil {
		return err
	}

	r.sizes.Store(&sizes)

	return nil
}

// ParseSizes decodes YAML theme size declarations.
func ParseSizes(data []byte) ([]domain.ThemeSize, error) {
	var file themeFile

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	seen := make(map[string]bool, len(file.Sizes))

	for _, size := range file.Sizes {
		if seen[size.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSize, size.Name)
		}

		seen[size.Name] = true
	}

	if file.Sizes == nil {
		file.Sizes = []domain.ThemeSize{}
	}

	return file.Sizes, nil
}

// watch observes the parent directory, since editors and deploy tools
// usually replace the file rather than write it in place.
func (r *FileThemeRepository) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()

		return fmt.Errorf("add watch: %w", err)
	}

	r.watcher = watcher
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		target := filepath.Clean(r.path)

		for {
			select {
			case <-r.done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != target ||
					!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				if err := r.load(); err != nil {
					r.log.WarnContext(ctx, "theme sizes reload failed, keeping previous sizes", "error", err)

					continue
				}

				r.log.InfoContext(ctx, "theme sizes reloaded", "count", len(*r.sizes.Load()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				r.log.ErrorContext(ctx, "theme watcher error", "error", err)
			}
		}
	}()

	return nil
}
