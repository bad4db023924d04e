package handler

import (
	"errors"

	"nguoisaigon/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupConfig struct {
	container *do.Injector
}

type updateConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (gr *groupConfig) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req updateConfigRequest
	if err := c.Bind(&req); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if req.Key == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("key is required"), errorx.Invalid))
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	config, err := serviceConfig.SetConfig(ctx, req.Key, req.Value)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, config, nil)
}
