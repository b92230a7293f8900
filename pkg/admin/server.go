package admin

import (
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/gmodb/rwdb/pkg/config"
	"github.com/gmodb/rwdb/pkg/util/logutil"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HttpApiServer struct {
	cfg      *config.AdminServer
	listener net.Listener
	closeCh  chan struct{}

	engine *gin.Engine
}

type CommonJsonResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func CreateHttpApiServer(clusters ClusterManager, cfgCenter ClusterSource, cfg *config.AdminServer) (*HttpApiServer, error) {
	apiServer := &HttpApiServer{
		cfg:     cfg,
		closeCh: make(chan struct{}),
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}
	apiServer.listener = listener
	apiServer.engine = NewEngine(clusters, cfgCenter, cfg)
	return apiServer, nil
}

// NewEngine builds the admin routes without binding a listener.
func NewEngine(clusters ClusterManager, cfgCenter ClusterSource, cfg *config.AdminServer) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	clusterRouteGroup := engine.Group("/admin/cluster")
	wrapBasicAuthGinMiddleware(cfg, clusterRouteGroup)
	NewClusterHttpHandler(clusters, cfgCenter).AddHandlersToRouteGroup(clusterRouteGroup)

	metricsRouteGroup := engine.Group("/metrics")
	metricsRouteGroup.GET("/", gin.WrapF(promhttp.Handler().ServeHTTP))

	pprofRouteGroup := engine.Group("/debug/pprof")
	wrapBasicAuthGinMiddleware(cfg, pprofRouteGroup)
	pprofRouteGroup.Any("/", gin.WrapF(pprof.Index))
	pprofRouteGroup.Any("/cmdline", gin.WrapF(pprof.Cmdline))
	pprofRouteGroup.Any("/profile", gin.WrapF(pprof.Profile))
	pprofRouteGroup.Any("/symbol", gin.WrapF(pprof.Symbol))
	pprofRouteGroup.Any("/trace", gin.WrapF(pprof.Trace))
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		pprofRouteGroup.Any("/"+name, gin.WrapF(pprof.Handler(name).ServeHTTP))
	}

	return engine
}

func wrapBasicAuthGinMiddleware(cfg *config.AdminServer, group *gin.RouterGroup) {
	if !cfg.EnableBasicAuth {
		return
	}
	if cfg.User != "" && cfg.Password != "" {
		group.Use(gin.BasicAuth(gin.Accounts{cfg.User: cfg.Password}))
	}
}

func (h *HttpApiServer) Addr() string {
	return h.listener.Addr().String()
}

// Run serves until Close is called. It returns the serve error if serving stops on its own.
func (h *HttpApiServer) Run() error {
	defer func() {
		if err := h.listener.Close(); err != nil {
			logutil.BgLogger().Warn("close http api server listener error", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- http.Serve(h.listener, h.engine)
	}()

	logutil.BgLogger().Info("http api server started", zap.String("addr", h.Addr()))
	select {
	case <-h.closeCh:
		logutil.BgLogger().Info("closing http api server")
		return nil
	case err := <-errCh:
		logutil.BgLogger().Error("http api server exit on error", zap.Error(err))
		return err
	}
}

func (h *HttpApiServer) Close() {
	close(h.closeCh)
}

func CreateJsonResp(code int, msg string) CommonJsonResp {
	return CommonJsonResp{
		Code: code,
		Msg:  msg,
	}
}

func CreateSuccessJsonResp() CommonJsonResp {
	return CreateJsonResp(http.StatusOK, "success")
}
