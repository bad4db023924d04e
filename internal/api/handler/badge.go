package handler

import (
	"nguoisaigon/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBadge struct {
	container *do.Injector
}

// GetBadges returns the catalog together with the caller's earned badges.
func (gr *groupBadge) GetBadges(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBadge, err := do.Invoke[*services.ServiceBadge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	catalog, err := serviceBadge.GetCatalog(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	earned, err := serviceBadge.GetUserBadges(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"catalog": catalog,
		"earned":  earned,
	}, nil)
}

func (gr *groupBadge) Evaluate(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBadge, err := do.Invoke[*services.ServiceBadge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	newBadges, err := serviceBadge.Evaluate(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"new_badges": newBadges,
	}, nil)
}
