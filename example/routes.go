package example

import (
	"github.com/asaskevich/govalidator"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shaogx/bocadillo"
	"github.com/shaogx/bocadillo/example/models"
	"github.com/shaogx/bocadillo/routing"
	"github.com/shaogx/bocadillo/views"
	"github.com/shaogx/bocadillo/web"
)

func init() {
	govalidator.TagMap["time"] = func(str string) bool {
		if len(str) == 0 {
			return true
		}
		return govalidator.IsTime(str, timeFormat)
	}
}

// home reports service liveness.
func home(req *web.Request, res *web.Response, _ views.Params) error {
	res.Media(map[string]string{"status": "ok"})
	return nil
}

// Register declares the showcase routes on the app: the public link surface,
// the redirect endpoint, the hit watcher and the admin recipe.
func Register(app *bocadillo.App, log *zap.Logger, links *models.Links) error {
	if _, err := app.RouteFunc("/", home); err != nil {
		return errors.Wrap(err, "route home")
	}

	createView, err := views.Of(&LinksView{app: app, links: links, log: log})
	if err != nil {
		return errors.Wrap(err, "adapt LinksView")
	}
	if _, err := app.Route("/links", createView, routing.WithName("links")); err != nil {
		return errors.Wrap(err, "route links")
	}

	detailView, err := views.Of(&LinkView{links: links}, "code")
	if err != nil {
		return errors.Wrap(err, "adapt LinkView")
	}
	if _, err := app.Route("/links/{code}", detailView, routing.WithName("link")); err != nil {
		return errors.Wrap(err, "route link")
	}

	redirect := views.Func(func(req *web.Request, res *web.Response, params views.Params) error {
		link, err := links.Resolve(req.Context(), params.Get("code"), true)
		if err != nil {
			return translateLinkError(err)
		}
		res.Redirect(link.Target)
		return nil
	}, "code").Methods(views.GET, views.HEAD)
	if _, err := app.Route("/r/{code}", redirect, routing.WithName("redirect")); err != nil {
		return errors.Wrap(err, "route redirect")
	}

	if feed := links.Feed(); feed != nil {
		watchView, err := views.Of(&WatchView{links: links, feed: feed, log: log}, "code")
		if err != nil {
			return errors.Wrap(err, "adapt WatchView")
		}
		if _, err := app.Route("/links/{code}/watch", watchView, routing.WithName("watch")); err != nil {
			return errors.Wrap(err, "route watch")
		}
	}

	admin := bocadillo.NewRecipe("admin")
	adminList, err := views.Of(&AdminLinksView{links: links, log: log})
	if err != nil {
		return errors.Wrap(err, "adapt AdminLinksView")
	}
	admin.Route("/links", adminList, routing.WithName("links"))

	adminLink, err := views.Of(&AdminLinkView{links: links, log: log}, "code")
	if err != nil {
		return errors.Wrap(err, "adapt AdminLinkView")
	}
	admin.Route("/links/{code}", adminLink, routing.WithName("link"))

	return errors.Wrap(app.Mount(admin), "mount admin recipe")
}
