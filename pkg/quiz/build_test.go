package quiz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quizsync/pkg/core"
)

var stamp = time.UnixMilli(1700000000000)

func TestUniqueFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"photo.png", "photo-1700000000000.png"},
		{"archive.tar.gz", "archive.tar-1700000000000.gz"},
		{"README", "README-1700000000000"},
		{`C:\Users\me\pic.jpg`, "pic-1700000000000.jpg"},
		{"dir/pic.jpg", "pic-1700000000000.jpg"},
		{"", "image-1700000000000"},
		{"  ", "image-1700000000000"},
		{"..", "image-1700000000000"},
		{"assets/", "assets-1700000000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UniqueFilename(tt.name, stamp), tt.name)
	}
}

func TestNamer_Collisions(t *testing.T) {
	n := newNamer(stamp)
	assert.Equal(t, "a-1700000000000.png", n.name("a.png"))
	assert.Equal(t, "a-1700000000001.png", n.name("a.png"))
	assert.Equal(t, "b-1700000000000.png", n.name("b.png"))
	assert.Equal(t, "a-1700000000002.png", n.name("a.png"))
}

func buildSession(t *testing.T) Session {
	t.Helper()
	s, tokens := NewSession().
		WithQuestion("Look: ").
		WithIcon("💡").
		AddQuestionImages(Image{Name: "pic.png", Data: []byte("q1")}, Image{Name: "pic.png", Data: []byte("q2")})
	s = s.WithQuestion("Look: " + strings.Join(tokens, " "))

	var err error
	s, err = s.AddOption()
	require.NoError(t, err)
	s, err = s.SetOptionText(0, "first")
	require.NoError(t, err)
	s, err = s.SetOptionImage(0, &Image{Name: "opt.png", Data: []byte("o0")})
	require.NoError(t, err)
	s, err = s.SetOptionText(1, "second")
	require.NoError(t, err)
	// Option 2 has an image but no text.
	s, err = s.SetOptionImage(2, &Image{Name: "skip.png", Data: []byte("o2")})
	require.NoError(t, err)
	s, err = s.ToggleCorrect(1)
	require.NoError(t, err)
	return s
}

func TestSession_Build(t *testing.T) {
	b, err := buildSession(t).Build("assets", stamp)
	require.NoError(t, err)

	require.Len(t, b.Uploads, 3)
	assert.Equal(t, "questionImage-image-1", b.Uploads[0].ID)
	assert.Equal(t, "questionImage-image-2", b.Uploads[1].ID)
	assert.Equal(t, "option0", b.Uploads[2].ID)
	assert.Equal(t, []byte("q2"), b.Uploads[1].Payload)

	for _, u := range b.Uploads {
		assert.Equal(t, "assets", u.Directory)
		assert.Contains(t, b.Text, u.Path(), "text must reference %s", u.Path())
	}
	assert.NotEqual(t, b.Uploads[0].Filename, b.Uploads[1].Filename)
	assert.Contains(t, b.Text, "question: 'Look: assets/pic-1700000000000.png assets/pic-1700000000001.png'")
	assert.NotContains(t, b.Text, "skip")
}

func TestSession_BuildInvalid(t *testing.T) {
	b, err := NewSession().WithQuestion("q").Build("assets", stamp)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Empty(t, b.Uploads)
}

func TestSession_BuildBlankImageName(t *testing.T) {
	s := buildSession(t)
	s, _ = s.AddQuestionImages(Image{Name: "", Data: []byte("q3")})
	b, err := s.Build("assets", stamp)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Empty(t, b.Text)

	s = buildSession(t)
	s, err = s.SetOptionImage(1, &Image{Name: " ", Data: []byte("o1")})
	require.NoError(t, err)
	_, err = s.Build("assets", stamp)
	assert.ErrorIs(t, err, core.ErrValidation)

	// An unnamed image on an option without text is never uploaded.
	s = buildSession(t)
	s, err = s.SetOptionImage(2, &Image{Data: []byte("o2")})
	require.NoError(t, err)
	_, err = s.Build("assets", stamp)
	assert.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diagram.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("bbb"), 0o644))
	def := `question: "Which one is [image-1]?"
icon: "💡"
images: [diagram.png]
options:
  - text: A
  - text: B
    image: b.png
    correct: true
  - text: C
`
	p := filepath.Join(dir, "quiz.yaml")
	require.NoError(t, os.WriteFile(p, []byte(def), 0o644))

	s, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "💡", s.Icon())
	require.Len(t, s.Images(), 1)
	assert.Equal(t, "[image-1]", s.Images()[0].Token)
	assert.Equal(t, []byte("png"), s.Images()[0].Image.Data)

	opts := s.Options()
	require.Len(t, opts, 3)
	assert.False(t, opts[0].Correct)
	assert.True(t, opts[1].Correct)
	require.NotNil(t, opts[1].Image)
	assert.Equal(t, "b.png", opts[1].Image.Name)
	assert.Equal(t, []byte("bbb"), opts[1].Image.Data)
}

func TestParse_Errors(t *testing.T) {
	noImages := func(string) ([]byte, error) { return nil, os.ErrNotExist }

	_, err := Parse([]byte("options:\n  - {text: a, correct: true}\n  - {text: b, correct: true}\n"), noImages)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = Parse([]byte("images: [\"\"]\n"), func(string) ([]byte, error) { return []byte("x"), nil })
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = Parse([]byte("images: [missing.png]\n"), noImages)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Parse([]byte("question: [unclosed"), noImages)
	assert.Error(t, err)
}
