package mail

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
)

//go:embed templates/*.html
var builtin embed.FS

var ErrTemplateNotFound = errors.New("mail template not found")

// Templates resolves mail templates by id. A file named <id>.html in the
// configured directory takes precedence over the built-in one.
type Templates struct {
	dir string
	log *zap.Logger

	mu       sync.RWMutex
	defaults map[string]any
}

func NewTemplates(cfg *config.Config, logger *zap.Logger) *Templates {
	return &Templates{
		dir:      cfg.MailTemplateDir,
		log:      logger,
		defaults: make(map[string]any),
	}
}

// Register records the default render data for a template id.
func (t *Templates) Register(id string, defaults any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaults[id] = defaults
}

func (t *Templates) Defaults(id string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.defaults[id]
	return v, ok
}

// Read returns the template source for id.
func (t *Templates) Read(id string) (string, error) {
	if t.dir != "" {
		data, err := os.ReadFile(filepath.Join(t.dir, id+".html"))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.log.Warn("mail template unreadable, using built-in", zap.String("id", id), zap.Error(err))
		}
	}
	data, err := builtin.ReadFile("templates/" + id + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return string(data), nil
}

func (t *Templates) Compile(id string) (*template.Template, error) {
	src, err := t.Read(id)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(id).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse mail template %s: %w", id, err)
	}
	return tpl, nil
}
