package quiz

import (
	"strings"

	"github.com/aretw0/quizsync/pkg/core"
)

// BoundImage is a placeholder token resolved to its destination path.
type BoundImage struct {
	Token string
	Path  string
}

// OptionInput is an option as it enters the template.
type OptionInput struct {
	Text      string
	Correct   bool
	ImagePath string
}

// Input is everything Assemble needs.
type Input struct {
	Question string
	Images   []BoundImage
	Options  []OptionInput
	Icon     string
}

// Validate checks the input in a fixed order and returns the first failure:
// blank question, fewer than two labeled options, blank icon.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Question) == "" {
		return core.Invalid("question", "must not be empty")
	}

	labeled := 0
	for _, opt := range in.Options {
		if strings.TrimSpace(opt.Text) != "" {
			labeled++
		}
	}
	if labeled < MinOptions {
		return core.Invalid("options", "at least two options need text")
	}

	if strings.TrimSpace(in.Icon) == "" {
		return core.Invalid("icon", "must not be empty")
	}
	return nil
}

// Assemble renders the quiz block. It performs no I/O.
//
// Each bound image token is replaced by its path everywhere in the question.
// Tokens without a binding, and bindings whose token does not appear, are
// left alone.
func Assemble(in Input) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	question := in.Question
	for _, img := range in.Images {
		question = strings.ReplaceAll(question, img.Token, img.Path)
	}

	out := fields{
		{Key: "type", Value: quoted("quiz")},
		{Key: "question", Value: quoted(question)},
	}

	if len(in.Images) > 0 {
		paths := make(pairs, 0, len(in.Images))
		for _, img := range in.Images {
			paths = append(paths, pair{Key: img.Token, Value: img.Path})
		}
		out = append(out, field{Key: "imagePaths", Value: paths})
	}

	var opts objects
	for _, opt := range in.Options {
		if strings.TrimSpace(opt.Text) == "" {
			continue
		}
		entry := fields{
			{Key: "text", Value: quoted(opt.Text)},
			{Key: "correct", Value: boolean(opt.Correct)},
		}
		if opt.ImagePath != "" {
			entry = append(entry, field{Key: "imageUrl", Value: quoted(opt.ImagePath)})
		}
		opts = append(opts, entry)
	}
	out = append(out,
		field{Key: "options", Value: opts},
		field{Key: "icon", Value: quoted(in.Icon)},
	)

	return render(out), nil
}
