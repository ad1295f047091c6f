// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vector

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/answer-engine/pkg/types"
)

const topKDefault = 5

// Server serves the similarity demo API over an injected Index.
type Server struct {
	idx     *Index
	topKMax int
}

// NewServer wires the API around an already-populated index.
func NewServer(idx *Index, cfg types.ServeConfig) *Server {
	max := cfg.TopKMax
	if max <= 0 {
		max = 20
	}
	return &Server{idx: idx, topKMax: max}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.home)
	r.GET("/health", s.health)
	r.GET("/docs", s.docs)
	r.POST("/search", s.search)
	r.GET("/search", func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "Use POST /search with JSON body. See /docs",
		})
	})
	return r
}

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"message":      fmt.Sprintf(`Server is running. Use POST /search with JSON {"query": [%d floats]}`, s.idx.Dim()),
		"dim":          s.idx.Dim(),
		"topk_default": topKDefault,
		"index_size":   s.idx.Len(),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) docs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoints": gin.H{
			"GET /":        "basic info",
			"GET /health":  "health check",
			"GET /docs":    "this help",
			"POST /search": fmt.Sprintf(`JSON {"query":[%d floats], "topk": optional int<=%d}`, s.idx.Dim(), s.topKMax),
		},
	})
}

type searchRequest struct {
	Query []float32 `json:"query"`
	TopK  *int      `json:"topk"`
}

func (s *Server) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body. Expect a JSON object."})
		return
	}
	if req.Query == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Field 'query' must be a list of length %d.", s.idx.Dim()),
		})
		return
	}
	if len(req.Query) != s.idx.Dim() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Query vector must be of dimension %d, got %d", s.idx.Dim(), len(req.Query)),
		})
		return
	}

	topK := topKDefault
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field 'topk' must be a positive integer."})
		return
	}
	if topK > s.topKMax {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("topk too large. Max is %d.", s.topKMax),
		})
		return
	}

	hits, err := s.idx.Search(req.Query, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	indices := make([]int, len(hits))
	distances := make([]float32, len(hits))
	for i, h := range hits {
		indices[i] = h.Position
		distances[i] = h.Distance
	}
	c.JSON(http.StatusOK, gin.H{"indices": indices, "distances": distances})
}
