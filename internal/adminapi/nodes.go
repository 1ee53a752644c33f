package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oltwatch/oltwatch/internal/domain"
	"github.com/oltwatch/oltwatch/internal/poller"
)

func (s *Server) listNodes(c echo.Context) error {
	db := s.app.DB().Model(&domain.OltNode{})
	if region := c.QueryParam("region"); region != "" {
		db = db.Where("region = ?", region)
	}
	if class := c.QueryParam("vendor_class"); class != "" {
		db = db.Where("vendor_class = ?", class)
	}

	var nodes []domain.OltNode
	if err := db.Order("id ASC").Find(&nodes).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "failed to query nodes")
	}
	return ok(c, nodes)
}

func (s *Server) getNode(c echo.Context) error {
	node, err := s.loadNode(c)
	if err != nil {
		return err
	}
	return ok(c, node)
}

func (s *Server) getNodeTelemetry(c echo.Context) error {
	node, err := s.loadNode(c)
	if err != nil {
		return err
	}

	var onus []domain.OnuSerial
	if err := s.app.DB().Where("node_id = ?", node.ID).Order("onu_id ASC").Find(&onus).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "failed to query telemetry")
	}
	return ok(c, onus)
}

func (s *Server) triggerPoll(c echo.Context) error {
	node, err := s.loadNode(c)
	if err != nil {
		return err
	}

	filter := poller.InventoryFilter{NodeID: node.ID}
	zap.L().Info("manual poll triggered", zap.Int64("node_id", node.ID), zap.String("ip", node.Ipaddr))
	go s.app.RunPollCycle(filter)
	return ok(c, map[string]interface{}{"node_id": node.ID, "mode": "poll"})
}

func (s *Server) triggerDiscovery(c echo.Context) error {
	node, err := s.loadNode(c)
	if err != nil {
		return err
	}

	filter := poller.InventoryFilter{NodeID: node.ID}
	zap.L().Info("manual discovery triggered", zap.Int64("node_id", node.ID), zap.String("ip", node.Ipaddr))
	go s.app.RunDiscoveryCycle(filter)
	return ok(c, map[string]interface{}{"node_id": node.ID, "mode": "discovery"})
}

func (s *Server) loadNode(c echo.Context) (*domain.OltNode, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil, fail(c, http.StatusBadRequest, "invalid node id")
	}

	var node domain.OltNode
	if err := s.app.DB().First(&node, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fail(c, http.StatusNotFound, "node not found")
	} else if err != nil {
		return nil, fail(c, http.StatusInternalServerError, "failed to query node")
	}
	return &node, nil
}
