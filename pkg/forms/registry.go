package forms

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownForm is returned when a form id is not registered.
var ErrUnknownForm = errors.New("forms: unknown form")

// Registry holds compiled forms keyed by id.
type Registry struct {
	forms map[string]*Form
	order []string
}

// LoadFS reads every .yaml/.yml file in fsys, compiles it with opts and
// registers the result. Duplicate ids are an error.
func LoadFS(fsys fs.FS, opts ...CompileOption) (*Registry, error) {
	reg := &Registry{forms: make(map[string]*Form)}
	if fsys == nil {
		return reg, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
		default:
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("forms: read %s: %w", path, err)
		}
		def, err := ParseDefinition(data)
		if err != nil {
			return fmt.Errorf("%w (file %s)", err, path)
		}
		form, err := Compile(def, opts...)
		if err != nil {
			return err
		}
		return reg.Register(form)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Default loads the built-in property and room forms.
func Default(opts ...CompileOption) (*Registry, error) {
	return LoadFS(DefinitionsFS(), opts...)
}

// Register adds form, rejecting duplicate ids.
func (r *Registry) Register(form *Form) error {
	if form == nil {
		return errors.New("forms: register nil form")
	}
	if r.forms == nil {
		r.forms = make(map[string]*Form)
	}
	if _, exists := r.forms[form.ID()]; exists {
		return fmt.Errorf("forms: duplicate form %q", form.ID())
	}
	r.forms[form.ID()] = form
	r.order = append(r.order, form.ID())
	sort.Strings(r.order)
	return nil
}

// Form returns the form registered under id.
func (r *Registry) Form(id string) (*Form, error) {
	if r != nil {
		if form, ok := r.forms[strings.TrimSpace(id)]; ok {
			return form, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownForm, id)
}

// IDs lists registered form ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}
