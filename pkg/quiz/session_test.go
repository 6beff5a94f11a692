package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quizsync/pkg/core"
)

func TestSession_Immutable(t *testing.T) {
	s := NewSession()
	s2 := s.WithQuestion("q").WithIcon("i")
	s3, err := s2.SetOptionText(0, "a")
	require.NoError(t, err)

	assert.Empty(t, s.Question())
	assert.Equal(t, "q", s2.Question())
	assert.Empty(t, s2.Options()[0].Text)
	assert.Equal(t, "a", s3.Options()[0].Text)

	opts := s3.Options()
	opts[0].Text = "mutated"
	assert.Equal(t, "a", s3.Options()[0].Text)
}

func TestSession_OptionBounds(t *testing.T) {
	s := NewSession()
	require.Len(t, s.Options(), MinOptions)

	_, err := s.RemoveOption(0)
	assert.ErrorIs(t, err, core.ErrValidation)

	for len(s.Options()) < MaxOptions {
		s, err = s.AddOption()
		require.NoError(t, err)
	}
	_, err = s.AddOption()
	assert.ErrorIs(t, err, core.ErrValidation)

	s, err = s.RemoveOption(MaxOptions - 1)
	require.NoError(t, err)
	assert.Len(t, s.Options(), MaxOptions-1)

	_, err = s.SetOptionText(42, "x")
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = s.ToggleCorrect(-1)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestSession_ToggleCorrect(t *testing.T) {
	const n = 4
	base := NewSession()
	for len(base.Options()) < n {
		var err error
		base, err = base.AddOption()
		require.NoError(t, err)
	}

	// Every starting combination of correct flags, every target index.
	for mask := 0; mask < 1<<n; mask++ {
		start := base.clone()
		for j := 0; j < n; j++ {
			start.options[j].Correct = mask&(1<<j) != 0
		}
		for i := 0; i < n; i++ {
			got, err := start.ToggleCorrect(i)
			require.NoError(t, err)
			for j, opt := range got.Options() {
				assert.Equal(t, j == i, opt.Correct, "mask=%04b toggle=%d option=%d", mask, i, j)
			}
		}
	}
}

func TestSession_QuestionImages(t *testing.T) {
	s, tokens := NewSession().AddQuestionImages(Image{Name: "a.png"}, Image{Name: "b.png"})
	assert.Equal(t, []string{"[image-1]", "[image-2]"}, tokens)

	s, ok := s.RemoveQuestionImage("[image-1]")
	require.True(t, ok)
	_, ok = s.RemoveQuestionImage("[image-1]")
	assert.False(t, ok)

	s, tokens = s.AddQuestionImages(Image{Name: "c.png"})
	assert.Equal(t, []string{"[image-3]"}, tokens)

	var got []string
	for _, img := range s.Images() {
		got = append(got, img.Token)
	}
	assert.Equal(t, []string{"[image-2]", "[image-3]"}, got)
}
