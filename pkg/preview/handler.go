package preview

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/shrewx/crudx/pkg/logx"
	"github.com/shrewx/crudx/pkg/templates"
	"github.com/shrewx/crudx/pkg/tmpl"
)

const (
	CodeBadRequest              = "BadRequest"
	CodeMalformedPlaceholder    = "MalformedPlaceholder"
	CodeUnterminatedPlaceholder = "UnterminatedPlaceholder"
	CodeMissingKey              = "MissingKey"
	CodeRoleDisabled            = "RoleDisabled"
	CodeInternal                = "InternalError"
)

// templateKey names the rendered template on the request span.
const templateKey = "crudx.template"

type RenderRequest struct {
	Name     string            `json:"name"`
	Template string            `json:"template"`
	Context  map[string]string `json:"context"`
}

type RenderResponse struct {
	Path   string `json:"path,omitempty"`
	Output string `json:"output"`
}

type TemplateInfo struct {
	Role templates.Role `json:"role"`
	Keys []string       `json:"keys"`
}

type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Template string `json:"template,omitempty"`
	Key      string `json:"key,omitempty"`

	*tmpl.Position
}

func (s *Server) listTemplates(c *gin.Context) {
	keys := s.set.Keys()
	out := make([]TemplateInfo, 0, len(keys))
	for _, role := range templates.Roles() {
		if k, ok := keys[role]; ok {
			out = append(out, TemplateInfo{Role: role, Keys: k})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: err.Error()})
		return
	}

	c.Set(templateKey, req.Name)
	out, err := tmpl.Render(req.Name, req.Template, req.Context)
	if err != nil {
		abortWithRenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, RenderResponse{Output: out})
}

func (s *Server) renderEntity(c *gin.Context) {
	role, err := templates.ParseRole(c.Param("role"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, ErrorResponse{Code: CodeBadRequest, Message: err.Error()})
		return
	}

	var ent entity.Entity
	if err := c.ShouldBindJSON(&ent); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: err.Error()})
		return
	}

	c.Set(templateKey, role.FileName())
	out, err := s.emitter.Render(ent, role)
	if err != nil {
		abortWithRenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, RenderResponse{Path: s.emitter.Path(ent, role), Output: out})
}

// abortWithRenderError maps the renderer error taxonomy to status codes:
// template errors are 400, missing keys and disabled roles 422.
func abortWithRenderError(c *gin.Context, err error) {
	var (
		syntaxErr  *tmpl.SyntaxError
		missingErr *tmpl.MissingKeyError
	)
	switch {
	case errors.As(err, &syntaxErr):
		code := CodeMalformedPlaceholder
		if errors.Is(syntaxErr.Kind, tmpl.ErrUnterminatedPlaceholder) {
			code = CodeUnterminatedPlaceholder
		}
		pos := syntaxErr.Pos
		abortWithError(c, http.StatusBadRequest, ErrorResponse{
			Code:     code,
			Message:  err.Error(),
			Template: syntaxErr.Template,
			Key:      syntaxErr.Name,
			Position: &pos,
		})
	case errors.As(err, &missingErr):
		pos := missingErr.Pos
		abortWithError(c, http.StatusUnprocessableEntity, ErrorResponse{
			Code:     CodeMissingKey,
			Message:  err.Error(),
			Template: missingErr.Template,
			Key:      missingErr.Name,
			Position: &pos,
		})
	case errors.Is(err, entity.ErrRoleDisabled):
		abortWithError(c, http.StatusUnprocessableEntity, ErrorResponse{Code: CodeRoleDisabled, Message: err.Error()})
	default:
		abortWithError(c, http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: err.Error()})
	}
}

func abortWithError(c *gin.Context, status int, body ErrorResponse) {
	logx.Warnf("handle %s %s err: %s", c.Request.Method, c.FullPath(), body.Message)
	c.Abort()
	c.PureJSON(status, body)
}
