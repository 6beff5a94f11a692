package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aretw0/quizsync/internal/platform"
	"github.com/aretw0/quizsync/pkg/codec"
	"github.com/aretw0/quizsync/pkg/core"
	"github.com/aretw0/quizsync/pkg/quiz"
)

type credentialRequest struct {
	Token string `json:"token"`
}

type fileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
	// Message overrides the commit message of this write.
	Message string `json:"message,omitempty"`
}

type replaceRequest struct {
	fileRequest
	Search      string `json:"search"`
	Replacement string `json:"replacement"`
}

type uploadItem struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Directory string `json:"directory"`
	// Content is base64-encoded.
	Content string `json:"content"`
}

type uploadRequest struct {
	Items []uploadItem `json:"items"`
}

type uploadResponse struct {
	Results map[string]bool `json:"results"`
}

type imagePayload struct {
	Name string `json:"name"`
	// Data is base64-encoded.
	Data string `json:"data"`
}

type quizOption struct {
	Text    string        `json:"text"`
	Correct bool          `json:"correct"`
	Image   *imagePayload `json:"image,omitempty"`
}

type quizRequest struct {
	Question string         `json:"question"`
	Icon     string         `json:"icon"`
	Images   []imagePayload `json:"images"`
	Options  []quizOption   `json:"options"`
	// Upload pushes the referenced images right after assembling.
	Upload bool `json:"upload"`
}

type assetRef struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type quizResponse struct {
	Text    string          `json:"text"`
	Assets  []assetRef      `json:"assets"`
	Results map[string]bool `json:"results,omitempty"`
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (s *Server) setCredential(c echo.Context) error {
	var req credentialRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Token) == "" {
		return core.Invalid("token", "must not be empty")
	}
	s.svc.SetCredential(req.Token)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getFile(c echo.Context) error {
	file, err := s.svc.FetchFile(c.Request().Context(), c.QueryParam("path"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file)
}

func (s *Server) putFile(c echo.Context) error {
	var req fileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if req.Message != "" {
		ctx = platform.WithChangeReason(ctx, platform.AppendFooter(req.Message))
	}

	file, err := s.svc.WriteFile(ctx, core.RemoteFile{Path: req.Path, Content: req.Content, VersionTag: req.SHA})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file)
}

// replace edits the given content without writing it back.
func (s *Server) replace(c echo.Context) error {
	var req replaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	file, err := s.svc.Replace(core.RemoteFile{Path: req.Path, Content: req.Content, VersionTag: req.SHA}, req.Search, req.Replacement)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file)
}

func (s *Server) upload(c echo.Context) error {
	var req uploadRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	items := make([]core.AssetUploadItem, 0, len(req.Items))
	for _, it := range req.Items {
		payload, err := codec.Decode(it.Content)
		if err != nil {
			return core.Invalid("content", "item "+it.ID+" is not valid base64")
		}
		items = append(items, core.AssetUploadItem{
			ID:        it.ID,
			Payload:   payload,
			Filename:  it.Filename,
			Directory: it.Directory,
		})
	}

	results, err := s.svc.UploadAll(c.Request().Context(), items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, uploadResponse{Results: results})
}

func (s *Server) assemble(c echo.Context) error {
	var req quizRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := req.session()
	if err != nil {
		return err
	}

	build, err := session.Build(s.config.AssetDir, s.config.Now())
	if err != nil {
		return err
	}

	resp := quizResponse{Text: build.Text, Assets: make([]assetRef, 0, len(build.Uploads))}
	for _, u := range build.Uploads {
		resp.Assets = append(resp.Assets, assetRef{ID: u.ID, Path: u.Path()})
	}

	if req.Upload && len(build.Uploads) > 0 {
		resp.Results, err = s.svc.UploadAll(c.Request().Context(), build.Uploads)
		if err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (req quizRequest) session() (quiz.Session, error) {
	s := quiz.NewSession().WithQuestion(req.Question).WithIcon(req.Icon)

	imgs := make([]quiz.Image, 0, len(req.Images))
	for _, p := range req.Images {
		img, err := p.decode()
		if err != nil {
			return quiz.Session{}, err
		}
		imgs = append(imgs, img)
	}
	s, _ = s.AddQuestionImages(imgs...)

	var err error
	for len(s.Options()) < len(req.Options) {
		if s, err = s.AddOption(); err != nil {
			return quiz.Session{}, err
		}
	}

	for i, opt := range req.Options {
		if s, err = s.SetOptionText(i, opt.Text); err != nil {
			return quiz.Session{}, err
		}
		if opt.Image != nil {
			img, err := opt.Image.decode()
			if err != nil {
				return quiz.Session{}, err
			}
			if s, err = s.SetOptionImage(i, &img); err != nil {
				return quiz.Session{}, err
			}
		}
		if opt.Correct {
			if s, err = s.ToggleCorrect(i); err != nil {
				return quiz.Session{}, err
			}
		}
	}
	return s, nil
}

func (p imagePayload) decode() (quiz.Image, error) {
	if strings.TrimSpace(p.Name) == "" {
		return quiz.Image{}, core.Invalid("image", "name must not be empty")
	}
	data, err := codec.Decode(p.Data)
	if err != nil {
		return quiz.Image{}, core.Invalid("image", p.Name+" is not valid base64")
	}
	return quiz.Image{Name: p.Name, Data: data}, nil
}

func (s *Server) logs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Log().Entries())
}

func (s *Server) state(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.State())
}
