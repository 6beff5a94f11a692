package quiz

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aretw0/quizsync/pkg/core"
)

// Build is an assembled quiz block together with the assets it references.
type Build struct {
	Text    string
	Uploads []core.AssetUploadItem
}

// Build resolves every image to a unique filename under dir exactly once,
// then assembles the text from those same names. Uploading Build.Uploads
// therefore produces the files the text points at.
//
// Images of options without text are not uploaded since the text omits
// those options.
func (s Session) Build(dir string, now time.Time) (Build, error) {
	for _, qi := range s.images {
		if baseName(qi.Image.Name) == "" {
			return Build{}, core.Invalid("image", fmt.Sprintf("%s has no file name", qi.Token))
		}
	}
	for i, opt := range s.options {
		if opt.Image != nil && strings.TrimSpace(opt.Text) != "" && baseName(opt.Image.Name) == "" {
			return Build{}, core.Invalid("image", fmt.Sprintf("option %d image has no file name", i+1))
		}
	}

	names := newNamer(now)
	in := Input{Question: s.question, Icon: s.icon}
	var uploads []core.AssetUploadItem

	for _, qi := range s.images {
		filename := names.name(qi.Image.Name)
		in.Images = append(in.Images, BoundImage{Token: qi.Token, Path: joinDir(dir, filename)})
		uploads = append(uploads, core.AssetUploadItem{
			ID:        "questionImage-" + strings.Trim(qi.Token, "[]"),
			Payload:   qi.Image.Data,
			Filename:  filename,
			Directory: dir,
		})
	}

	for i, opt := range s.options {
		oi := OptionInput{Text: opt.Text, Correct: opt.Correct}
		if opt.Image != nil && strings.TrimSpace(opt.Text) != "" {
			filename := names.name(opt.Image.Name)
			oi.ImagePath = joinDir(dir, filename)
			uploads = append(uploads, core.AssetUploadItem{
				ID:        fmt.Sprintf("option%d", i),
				Payload:   opt.Image.Data,
				Filename:  filename,
				Directory: dir,
			})
		}
		in.Options = append(in.Options, oi)
	}

	text, err := Assemble(in)
	if err != nil {
		return Build{}, err
	}
	return Build{Text: text, Uploads: uploads}, nil
}

func joinDir(dir, filename string) string {
	if dir == "" {
		return filename
	}
	return path.Join(dir, filename)
}
