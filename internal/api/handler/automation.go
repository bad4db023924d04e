package handler

import (
	"nguoisaigon/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAutomation struct {
	container *do.Injector
}

func (gr *groupAutomation) Run(c echo.Context) error {
	ctx := c.Request().Context()

	var opts services.AutomationOptions
	if err := c.Bind(&opts); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceAutomation, err := do.Invoke[*services.ServiceAutomation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	report, err := serviceAutomation.Run(ctx, opts)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, report, nil)
}

func (gr *groupAutomation) LastReport(c echo.Context) error {
	ctx := c.Request().Context()

	serviceAutomation, err := do.Invoke[*services.ServiceAutomation](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	report, err := serviceAutomation.LastReport(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, report, nil)
}
