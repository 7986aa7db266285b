package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/tixpool-lab/backend/config"
	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/logger"
	"github.com/tixpool-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context which
// is passed to the next middleware and the handler. Returning an error stops
// the chain and responds that error to the client.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is sent. The context carries the
// response object and the handler error, if any.
type CloserFunc func(ctx context.Context)

type Router struct {
	Inner gin.IRouter

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		Inner:  engine,
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// Branch returns a copy of this router. Middlewares and closers registered on
// the branch do not affect the original router.
func (r *Router) Branch() *Router {
	return &Router{
		Inner:   r.Inner,
		cfg:     r.cfg,
		logger:  r.logger,
		db:      r.db,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	return cors.AllowAll().Handler(r.Inner.(*gin.Engine))
}

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := context.Background()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithHTTPRequest(ctx, gctx.Request)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		finish := func(ctx context.Context) {
			for _, closer := range r.closers {
				closer(ctx)
			}
		}

		var err error
		for _, m := range r.befores {
			if ctx, err = m(ctx); err != nil {
				gctx.JSON(http.StatusOK, newErrorResponse(err))
				finish(xcontext.WithError(ctx, err))
				return
			}
		}

		var req Request
		switch method {
		case http.MethodGet:
			err = gctx.BindQuery(&req)
		default:
			err = gctx.BindJSON(&req)
		}
		if err != nil {
			err = errorx.New(errorx.BadRequest, "Cannot bind the request")
			gctx.JSON(http.StatusOK, newErrorResponse(err))
			finish(xcontext.WithError(ctx, err))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			gctx.JSON(http.StatusOK, newErrorResponse(err))
			finish(xcontext.WithError(ctx, err))
			return
		}

		gctx.JSON(http.StatusOK, newResponse(resp))
		finish(xcontext.WithResponse(ctx, resp))
	}
}
