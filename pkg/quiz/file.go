package quiz

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/quizsync/pkg/core"
)

// Definition is the on-disk form of a quiz.
//
//	question: "Which one is [image-1]?"
//	icon: "💡"
//	images: [diagram.png]
//	options:
//	  - text: A
//	    correct: true
//	  - text: B
//	    image: b.png
type Definition struct {
	Question string             `yaml:"question"`
	Icon     string             `yaml:"icon"`
	Images   []string           `yaml:"images"`
	Options  []DefinitionOption `yaml:"options"`
}

// DefinitionOption is one option of a Definition.
type DefinitionOption struct {
	Text    string `yaml:"text"`
	Image   string `yaml:"image,omitempty"`
	Correct bool   `yaml:"correct,omitempty"`
}

// LoadFile reads a YAML definition. Image paths are resolved relative to
// the file's directory.
func LoadFile(p string) (Session, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read quiz file: %w", err)
	}
	dir := filepath.Dir(p)
	return Parse(data, func(name string) ([]byte, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return os.ReadFile(name)
	})
}

// Parse decodes a YAML definition, loading images through readImage.
func Parse(data []byte, readImage func(name string) ([]byte, error)) (Session, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Session{}, fmt.Errorf("failed to parse quiz file: %w", err)
	}
	return def.Session(readImage)
}

// Session converts the definition into form state.
func (d Definition) Session(readImage func(name string) ([]byte, error)) (Session, error) {
	if len(d.Options) > MaxOptions {
		return Session{}, core.Invalid("options", fmt.Sprintf("at most %d options are allowed", MaxOptions))
	}

	load := func(name string) (Image, error) {
		if baseName(name) == "" {
			return Image{}, core.Invalid("image", "path must not be empty")
		}
		data, err := readImage(name)
		if err != nil {
			return Image{}, fmt.Errorf("failed to read image %s: %w", name, err)
		}
		return Image{Name: filepath.Base(name), Data: data}, nil
	}

	s := NewSession().WithQuestion(d.Question).WithIcon(d.Icon)

	var imgs []Image
	for _, name := range d.Images {
		img, err := load(name)
		if err != nil {
			return Session{}, err
		}
		imgs = append(imgs, img)
	}
	s, _ = s.AddQuestionImages(imgs...)

	for len(s.options) < len(d.Options) {
		s.options = append(s.options, Option{})
	}

	correct := -1
	for i, opt := range d.Options {
		s.options[i].Text = opt.Text
		if opt.Image != "" {
			img, err := load(opt.Image)
			if err != nil {
				return Session{}, err
			}
			s.options[i].Image = &img
		}
		if opt.Correct {
			if correct >= 0 {
				return Session{}, core.Invalid("options", "only one option can be correct")
			}
			correct = i
		}
	}
	if correct >= 0 {
		var err error
		if s, err = s.ToggleCorrect(correct); err != nil {
			return Session{}, err
		}
	}
	return s, nil
}
