// Package example is the showcase service built on the framework: a link
// shortener with live hit watching, the whole route surface flowing through
// the routing core.
package example

import (
	"net/http"
	"regexp"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shaogx/bocadillo"
	"github.com/shaogx/bocadillo/example/models"
	"github.com/shaogx/bocadillo/views"
	"github.com/shaogx/bocadillo/web"
)

const (
	keyBlacklist = "blacklistUrls"
	timeFormat   = "2006-01-02 15:04:05"
)

type createRequest struct {
	Target string `valid:"required,url" json:"target"`
	Expire string `valid:"time,optional" json:"expire,omitempty"`
}

type createResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	ShortURL string `json:"short_url,omitempty"`
	Code     string `json:"code,omitempty"`
}

// LinksView handles the link collection.
type LinksView struct {
	app   *bocadillo.App
	links *models.Links
	log   *zap.Logger
}

// Post creates a new shortened link from a JSON body.
func (v *LinksView) Post(req *web.Request, res *web.Response, _ views.Params) error {
	var body createRequest
	if err := req.JSON(&body); err != nil {
		return web.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if _, err := govalidator.ValidateStruct(&body); err != nil {
		return web.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	for _, blocked := range viper.GetStringSlice(keyBlacklist) {
		matched, err := regexp.MatchString(regexp.QuoteMeta(blocked), body.Target)
		if err != nil {
			v.log.With(zap.String("blacklist_pattern", blocked)).Error("failed to matching")
			continue
		}
		if matched {
			return web.NewHTTPError(http.StatusBadRequest, "target is blacklisted")
		}
	}

	var expiry *time.Time
	if len(body.Expire) != 0 {
		expireTime, _ := time.Parse(timeFormat, body.Expire)
		expiry = &expireTime
	}

	link, err := v.links.Generate(req.Context(), body.Target, expiry)
	if err != nil {
		return web.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shortURL, err := v.app.URLFor("redirect", map[string]interface{}{"code": link.Code})
	if err != nil {
		return errors.Wrap(err, "app.URLFor")
	}

	v.log.With(zap.String("code", link.Code)).Info("New shortened link generated")
	res.Status(http.StatusCreated)
	res.Media(createResponse{
		Success:  true,
		ShortURL: shortURL,
		Code:     link.Code,
	})
	return nil
}

// LinkView handles one link's detail.
type LinkView struct {
	links *models.Links
}

// Get returns the link carrying the code, hit count included.
func (v *LinkView) Get(req *web.Request, res *web.Response, params views.Params) error {
	link, err := v.links.Resolve(req.Context(), params.Get("code"), false)
	if err != nil {
		return translateLinkError(err)
	}
	res.Media(link)
	return nil
}

// WatchView streams hit events for one link over a websocket.
type WatchView struct {
	links *models.Links
	feed  *models.Feed
	log   *zap.Logger
}

// Websocket upgrades the connection and forwards hits from the feed until
// the watcher goes away.
func (v *WatchView) Websocket(req *web.Request, res *web.Response, params views.Params) error {
	code := params.Get("code")
	if _, err := v.links.Resolve(req.Context(), code, false); err != nil {
		return translateLinkError(err)
	}

	ws, err := web.Upgrade(req, res)
	if err != nil {
		return errors.Wrap(err, "web.Upgrade")
	}
	defer func() {
		if err := ws.Close(); err != nil {
			v.log.With(zap.Error(err)).Debug("ws.Close")
		}
	}()

	hits, closeSub := v.feed.Subscribe(req.Context(), code)
	defer func() {
		if err := closeSub(); err != nil {
			v.log.With(zap.Error(err)).Debug("feed subscription close")
		}
	}()

	for hit := range hits {
		if err := ws.SendJSON(hit); err != nil {
			// Watcher hung up; nothing to surface.
			return nil
		}
	}
	return nil
}

func translateLinkError(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return web.NewHTTPError(http.StatusNotFound, "no such link")
	case errors.Is(err, models.ErrExpired):
		return web.NewHTTPError(http.StatusGone, "link has expired")
	default:
		return err
	}
}
