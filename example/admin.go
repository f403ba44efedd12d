package example

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shaogx/bocadillo/example/models"
	"github.com/shaogx/bocadillo/views"
	"github.com/shaogx/bocadillo/web"
)

const (
	keyAdmin           = "admin.key"
	keyAuthorizeHeader = "Authorization"
)

type listResponse struct {
	Success bool          `json:"success"`
	Items   []models.Link `json:"items"`
}

// authorize checks the Authorization header against the configured admin
// key.
func authorize(req *web.Request) error {
	header := req.Header().Get(keyAuthorizeHeader)
	if len(header) == 0 || header != viper.GetString(keyAdmin) {
		return web.NewHTTPError(http.StatusForbidden, "")
	}
	return nil
}

// AdminLinksView lists links for operators.
type AdminLinksView struct {
	links *models.Links
	log   *zap.Logger
}

// Get lists links, optionally filtered by ?code= and ?term=.
func (v *AdminLinksView) Get(req *web.Request, res *web.Response, _ views.Params) error {
	if err := authorize(req); err != nil {
		return err
	}

	queries := req.Query()
	items, err := v.links.List(req.Context(), queries.Get("code"), queries.Get("term"))
	if err != nil {
		v.log.With(zap.Error(err)).Error("failed to get list by criteria")
		return web.NewHTTPError(http.StatusBadGateway, "")
	}

	res.Media(listResponse{Success: true, Items: items})
	return nil
}

// AdminLinkView manages one link for operators.
type AdminLinkView struct {
	links *models.Links
	log   *zap.Logger
}

// Delete soft deletes the link carrying the code.
func (v *AdminLinkView) Delete(req *web.Request, res *web.Response, params views.Params) error {
	if err := authorize(req); err != nil {
		return err
	}

	code := params.Get("code")
	if _, err := v.links.Deactivate(req.Context(), code); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return web.NewHTTPError(http.StatusNotFound, "no such link")
		}
		v.log.With(zap.Error(err), zap.String("code", code)).Error("fail to deactivate link")
		return web.NewHTTPError(http.StatusBadRequest, "")
	}

	res.Status(http.StatusNoContent)
	return nil
}
