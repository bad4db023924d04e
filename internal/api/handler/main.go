package handler

import (
	"context"
	"net/http"

	"nguoisaigon/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container      *do.Injector
	Mode           string
	Origins        []string
	InternalAPIKey string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())

	serviceConfig, err := do.Invoke[*services.ServiceConfig](cfg.Container)
	if err != nil {
		return nil, err
	}

	// SERVER_MODE in the config table overrides the env mode
	mode, _ := serviceConfig.GetStringConfig(context.Background(), services.CONFIG_SERVER_MODE, cfg.Mode)
	if mode == services.SERVER_MODE_DEVELOPMENT {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🍜")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}

		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		u := groupUser{cfg.Container}
		routesAPIv1.GET("/user/me", u.Me)

		g := groupGamification{cfg.Container}
		routesAPIv1.POST("/actions/:action", g.PerformAction)

		ci := groupCheckin{cfg.Container}
		routesAPIv1.POST("/checkin", ci.CheckIn)
		routesAPIv1.GET("/checkin/streak", ci.GetStreak)

		b := groupBadge{cfg.Container}
		routesAPIv1.GET("/badges", b.GetBadges)
		routesAPIv1.POST("/badges/evaluate", b.Evaluate)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/overall", l.GetOverallLeaderboard)
		routesAPIv1.GET("/leaderboard/overall_weekly", l.GetWeeklyOverallLeaderboard)
	}

	routesInternal := r.Group("/internal")
	{
		routesInternal.Use(AuthnInternal(cfg.InternalAPIKey))

		a := groupAutomation{cfg.Container}
		routesInternal.POST("/automation/run", a.Run)
		routesInternal.GET("/automation/report", a.LastReport)

		cf := groupConfig{cfg.Container}
		routesInternal.PUT("/config", cf.Update)
	}

	return r, nil
}
