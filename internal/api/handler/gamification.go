package handler

import (
	"errors"

	"nguoisaigon/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupGamification struct {
	container *do.Injector
}

type performActionRequest struct {
	DedupeKey string                 `json:"dedupe_key"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func (gr *groupGamification) PerformAction(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var req performActionRequest
	if err := c.Bind(&req); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceGamification, err := do.Invoke[*services.ServiceGamification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	action := c.Param("action")
	result, err := serviceGamification.PerformAction(ctx, user.ID, action, req.DedupeKey, req.Metadata)
	if err != nil {
		if errors.Is(err, services.ErrUnknownAction) {
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
		}
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}
