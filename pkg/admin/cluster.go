package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmodb/rwdb/pkg/config"
	"github.com/gmodb/rwdb/pkg/util/logutil"
	"go.uber.org/zap"
)

const ParamCluster = "cluster"

// ClusterManager is the part of cluster.Manager the admin api drives.
type ClusterManager interface {
	Names() []string
	Ping(ctx context.Context, name string) error
	PrepareReload(ctx context.Context, cfg *config.Cluster) error
	CommitReload(names []string) error
	Remove(name string) error
}

// ClusterSource loads cluster configs, usually a configcenter.ConfigCenter.
type ClusterSource interface {
	GetCluster(ctx context.Context, name string) (*config.Cluster, error)
}

type ClusterHttpHandler struct {
	clusters  ClusterManager
	cfgCenter ClusterSource
}

type ListClustersResp struct {
	CommonJsonResp
	Clusters []string `json:"clusters"`
}

func NewClusterHttpHandler(clusters ClusterManager, cfgCenter ClusterSource) *ClusterHttpHandler {
	return &ClusterHttpHandler{
		clusters:  clusters,
		cfgCenter: cfgCenter,
	}
}

func (n *ClusterHttpHandler) AddHandlersToRouteGroup(group *gin.RouterGroup) {
	group.GET("/list", n.HandleListClusters)
	group.POST("/ping/:cluster", n.HandlePingCluster)
	group.POST("/remove/:cluster", n.HandleRemoveCluster)
	group.POST("/reload/prepare/:cluster", n.HandlePrepareReload)
	group.POST("/reload/commit/:cluster", n.HandleCommitReload)
}

func (n *ClusterHttpHandler) HandleListClusters(c *gin.Context) {
	c.JSON(http.StatusOK, ListClustersResp{
		CommonJsonResp: CreateSuccessJsonResp(),
		Clusters:       n.clusters.Names(),
	})
}

func (n *ClusterHttpHandler) HandlePingCluster(c *gin.Context) {
	name := c.Param(ParamCluster)
	if err := n.clusters.Ping(c.Request.Context(), name); err != nil {
		errMsg := "ping cluster error"
		logutil.BgLogger().Error(errMsg, zap.Error(err), zap.String("cluster", name))
		c.JSON(http.StatusOK, CreateJsonResp(http.StatusInternalServerError, errMsg+": "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, CreateSuccessJsonResp())
}

func (n *ClusterHttpHandler) HandleRemoveCluster(c *gin.Context) {
	name := c.Param(ParamCluster)
	if err := n.clusters.Remove(name); err != nil {
		errMsg := "remove cluster error"
		logutil.BgLogger().Error(errMsg, zap.Error(err), zap.String("cluster", name))
		c.JSON(http.StatusOK, CreateJsonResp(http.StatusInternalServerError, errMsg))
		return
	}

	logutil.BgLogger().Info("remove cluster success", zap.String("cluster", name))
	c.JSON(http.StatusOK, CreateSuccessJsonResp())
}

func (n *ClusterHttpHandler) HandlePrepareReload(c *gin.Context) {
	name := c.Param(ParamCluster)
	ctx := c.Request.Context()

	cfg, err := n.cfgCenter.GetCluster(ctx, name)
	if err != nil {
		errMsg := "get cluster value from configcenter error"
		logutil.BgLogger().Error(errMsg, zap.Error(err), zap.String("cluster", name))
		c.JSON(http.StatusOK, CreateJsonResp(http.StatusInternalServerError, errMsg))
		return
	}
	if err := n.clusters.PrepareReload(ctx, cfg); err != nil {
		errMsg := "prepare reload cluster error"
		logutil.BgLogger().Error(errMsg, zap.Error(err), zap.String("cluster", name))
		c.JSON(http.StatusOK, CreateJsonResp(http.StatusInternalServerError, errMsg))
		return
	}

	logutil.BgLogger().Info("prepare reload success", zap.String("cluster", name))
	c.JSON(http.StatusOK, CreateSuccessJsonResp())
}

func (n *ClusterHttpHandler) HandleCommitReload(c *gin.Context) {
	name := c.Param(ParamCluster)
	if err := n.clusters.CommitReload([]string{name}); err != nil {
		errMsg := "commit reload cluster error"
		logutil.BgLogger().Error(errMsg, zap.Error(err), zap.String("cluster", name))
		c.JSON(http.StatusOK, CreateJsonResp(http.StatusInternalServerError, errMsg))
		return
	}

	logutil.BgLogger().Info("commit reload success", zap.String("cluster", name))
	c.JSON(http.StatusOK, CreateSuccessJsonResp())
}
