package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docgate/src/apierror"
	"docgate/src/gateway"
	"docgate/src/models"
)

// DocumentHandler decodes requests, hands them to the document service
// and writes either the success envelope or the mapped error envelope.
// Every request produces a "received" log line and exactly one
// "completed" or "failed" line with the resulting status.
type DocumentHandler struct {
	service *gateway.DocumentService
	logger  *zap.SugaredLogger
}

func NewDocumentHandler(service *gateway.DocumentService, logger *zap.SugaredLogger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *DocumentHandler) InsertOne(c *gin.Context) {
	var req models.InsertOneRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields, "payload_items", 1)
	resp, err := h.service.InsertOne(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", 1)
}

func (h *DocumentHandler) InsertMany(c *gin.Context) {
	var req models.InsertManyRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields, "payload_items", len(req.Documents))
	resp, err := h.service.InsertMany(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", len(resp.InsertedIDs))
}

func (h *DocumentHandler) FindOne(c *gin.Context) {
	var req models.FindOneRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields)
	resp, err := h.service.FindOne(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", 1)
}

func (h *DocumentHandler) FindMany(c *gin.Context) {
	var req models.FindManyRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields)
	resp, err := h.service.FindMany(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", len(resp.Documents))
}

func (h *DocumentHandler) UpdateOne(c *gin.Context) {
	var req models.UpdateRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields)
	resp, err := h.service.UpdateOne(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", resp.ModifiedCount)
}

func (h *DocumentHandler) UpdateMany(c *gin.Context) {
	var req models.UpdateRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields)
	resp, err := h.service.UpdateMany(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", resp.ModifiedCount)
}

func (h *DocumentHandler) ReplaceOne(c *gin.Context) {
	var req models.ReplaceOneRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields)
	resp, err := h.service.ReplaceOne(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", resp.ModifiedCount)
}

func (h *DocumentHandler) DeleteOne(c *gin.Context) {
	var req models.DeleteRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields)
	resp, err := h.service.DeleteOne(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", resp.DeletedCount)
}

func (h *DocumentHandler) DeleteMany(c *gin.Context) {
	var req models.DeleteRequest
	if !h.bind(c, &req) {
		return
	}
	h.logReceived(c, req.NamespaceFields)
	resp, err := h.service.DeleteMany(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, req.NamespaceFields, err)
		return
	}
	h.complete(c, req.NamespaceFields, resp, "affected", resp.DeletedCount)
}

func (h *DocumentHandler) ListCollections(c *gin.Context) {
	database := c.Query("database")
	h.logger.Infow("received request",
		"endpoint", c.FullPath(),
		"database", strings.TrimSpace(database))
	resp, err := h.service.ListCollections(c.Request.Context(), database)
	if err != nil {
		apiErr := apierror.From(err)
		h.logger.Warnw("request failed",
			"endpoint", c.FullPath(),
			"database", strings.TrimSpace(database),
			"status", apiErr.Status,
			"error", apiErr.Error())
		c.JSON(apiErr.Status, apiErr)
		return
	}
	h.logger.Infow("request completed",
		"endpoint", c.FullPath(),
		"database", strings.TrimSpace(database),
		"status", http.StatusOK,
		"collections", len(resp.Collections))
	c.JSON(http.StatusOK, resp)
}

// bind decodes the JSON body. A body the decoder rejects never reaches
// the service; it is a client defect, answered as a validation error.
func (h *DocumentHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apiErr := apierror.Validation("invalid request body: " + err.Error())
		h.logger.Warnw("request failed",
			"endpoint", c.FullPath(),
			"status", apiErr.Status,
			"error", apiErr.Error())
		c.JSON(apiErr.Status, apiErr)
		return false
	}
	return true
}

func (h *DocumentHandler) logReceived(c *gin.Context, ns models.NamespaceFields, extra ...interface{}) {
	kv := append(h.namespaceFields(c, ns), extra...)
	h.logger.Infow("received request", kv...)
}

func (h *DocumentHandler) complete(c *gin.Context, ns models.NamespaceFields, resp interface{}, extra ...interface{}) {
	kv := append(h.namespaceFields(c, ns), "status", http.StatusOK)
	kv = append(kv, extra...)
	h.logger.Infow("request completed", kv...)
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) fail(c *gin.Context, ns models.NamespaceFields, err error) {
	apiErr := apierror.From(err)
	kv := append(h.namespaceFields(c, ns), "status", apiErr.Status, "error", apiErr.Error())
	h.logger.Warnw("request failed", kv...)
	c.JSON(apiErr.Status, apiErr)
}

func (h *DocumentHandler) namespaceFields(c *gin.Context, ns models.NamespaceFields) []interface{} {
	return []interface{}{
		"endpoint", c.FullPath(),
		"database", strings.TrimSpace(ns.Database),
		"collection", strings.TrimSpace(ns.Collection),
	}
}
