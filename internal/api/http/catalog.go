package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

var categories = map[string]types.Category{
	string(types.CategorySystem):       types.CategorySystem,
	string(types.CategoryProductivity): types.CategoryProductivity,
	string(types.CategoryMedia):        types.CategoryMedia,
	string(types.CategoryGame):         types.CategoryGame,
}

// ListCatalog lists catalog apps, optionally filtered by ?category=
func (h *Handlers) ListCatalog(c *gin.Context) {
	var filter *types.Category
	if q := c.Query("category"); q != "" {
		cat, ok := categories[q]
		if !ok {
			fail(c, http.StatusBadRequest, "unknown category: "+q)
			return
		}
		filter = &cat
	}

	apps := h.catalog.List(filter)
	c.JSON(http.StatusOK, gin.H{"apps": apps, "count": len(apps)})
}

// GetCatalogApp returns one catalog entry with its install state and open windows
func (h *Handlers) GetCatalogApp(c *gin.Context) {
	appID := c.Param("id")
	app, ok := h.catalog.Get(appID)
	if !ok {
		fail(c, http.StatusNotFound, "app not found: "+appID)
		return
	}

	s := h.store.State()
	windows := s.WindowsOf(appID)
	if windows == nil {
		windows = []types.Window{}
	}
	c.JSON(http.StatusOK, gin.H{
		"app":       app,
		"core":      h.catalog.IsCore(appID),
		"singleton": h.catalog.IsSingleton(appID),
		"installed": s.IsInstalled(appID),
		"pinned":    s.IsPinned(appID),
		"windows":   windows,
	})
}
