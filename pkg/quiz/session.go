// Package quiz turns form state into the textual quiz block consumed by the
// game's level files.
//
// Session is an immutable value: every edit returns a new Session and leaves
// the receiver untouched, so handlers can pass state through without shared
// globals.
package quiz

import (
	"fmt"

	"github.com/aretw0/quizsync/pkg/core"
)

// Bounds on the number of answer options.
const (
	MinOptions = 2
	MaxOptions = 10
)

// Image is an image file picked by the user. Data is forwarded byte-for-byte.
type Image struct {
	Name string
	Data []byte
}

// Option is one answer option.
type Option struct {
	Text    string
	Image   *Image
	Correct bool
}

// QuestionImage binds a placeholder token such as "[image-2]" to an image.
type QuestionImage struct {
	Token string
	Image Image
}

// Session holds the form state.
type Session struct {
	question  string
	icon      string
	images    []QuestionImage
	options   []Option
	lastImage int
}

// NewSession returns an empty form with the minimum number of options.
func NewSession() Session {
	return Session{options: make([]Option, MinOptions)}
}

func (s Session) clone() Session {
	out := s
	out.images = append([]QuestionImage(nil), s.images...)
	out.options = append([]Option(nil), s.options...)
	return out
}

// Question returns the question text.
func (s Session) Question() string { return s.question }

// Icon returns the icon text.
func (s Session) Icon() string { return s.icon }

// Options returns a copy of the options.
func (s Session) Options() []Option {
	return append([]Option(nil), s.options...)
}

// Images returns a copy of the question images, in insertion order.
func (s Session) Images() []QuestionImage {
	return append([]QuestionImage(nil), s.images...)
}

// WithQuestion sets the question text.
func (s Session) WithQuestion(q string) Session {
	out := s.clone()
	out.question = q
	return out
}

// WithIcon sets the icon (usually an emoji).
func (s Session) WithIcon(icon string) Session {
	out := s.clone()
	out.icon = icon
	return out
}

func (s Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.options) {
		return core.Invalid("option", fmt.Sprintf("index %d out of range [0,%d)", i, len(s.options)))
	}
	return nil
}

// AddOption appends an empty option.
func (s Session) AddOption() (Session, error) {
	if len(s.options) >= MaxOptions {
		return s, core.Invalid("options", fmt.Sprintf("at most %d options are allowed", MaxOptions))
	}
	out := s.clone()
	out.options = append(out.options, Option{})
	return out, nil
}

// RemoveOption deletes the option at i.
func (s Session) RemoveOption(i int) (Session, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	if len(s.options) <= MinOptions {
		return s, core.Invalid("options", fmt.Sprintf("at least %d options are required", MinOptions))
	}
	out := s.clone()
	out.options = append(out.options[:i], out.options[i+1:]...)
	return out, nil
}

// SetOptionText sets the label of option i.
func (s Session) SetOptionText(i int, text string) (Session, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	out := s.clone()
	out.options[i].Text = text
	return out, nil
}

// SetOptionImage attaches img to option i. A nil image clears it.
func (s Session) SetOptionImage(i int, img *Image) (Session, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	out := s.clone()
	out.options[i].Image = img
	return out, nil
}

// ToggleCorrect marks option i as the correct answer and clears every other.
func (s Session) ToggleCorrect(i int) (Session, error) {
	if err := s.checkIndex(i); err != nil {
		return s, err
	}
	out := s.clone()
	for j := range out.options {
		out.options[j].Correct = j == i
	}
	return out, nil
}

// AddQuestionImages registers images and returns the placeholder tokens
// assigned to them. Numbers grow monotonically and are never reused, even
// after RemoveQuestionImage, so tokens already typed into the question keep
// pointing at the same image.
func (s Session) AddQuestionImages(imgs ...Image) (Session, []string) {
	out := s.clone()
	tokens := make([]string, 0, len(imgs))
	for _, img := range imgs {
		out.lastImage++
		token := fmt.Sprintf("[image-%d]", out.lastImage)
		out.images = append(out.images, QuestionImage{Token: token, Image: img})
		tokens = append(tokens, token)
	}
	return out, tokens
}

// RemoveQuestionImage drops the image bound to token. Remaining tokens keep their numbers.
func (s Session) RemoveQuestionImage(token string) (Session, bool) {
	for i, img := range s.images {
		if img.Token == token {
			out := s.clone()
			out.images = append(out.images[:i], out.images[i+1:]...)
			return out, true
		}
	}
	return s, false
}
