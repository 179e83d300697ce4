package handlers

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the CRM resources under /api
func RegisterRoutes(e *echo.Echo, products *ProductHandlers, prospects *ProspectHandlers) {
	api := e.Group("/api")

	p := api.Group("/products")
	p.POST("", products.CreateProduct)
	p.GET("", products.ListProducts)
	p.GET("/:id", products.GetProduct)
	p.PATCH("/:id", products.UpdateProduct)
	p.DELETE("/:id", products.DeleteProduct)

	pr := api.Group("/prospects")
	pr.POST("", prospects.CreateProspect)
	pr.GET("", prospects.ListProspects)
	pr.GET("/:id", prospects.GetProspect)
	pr.PATCH("/:id", prospects.UpdateProspect)
	pr.DELETE("/:id", prospects.DeleteProspect)
	pr.POST("/:id/products", prospects.LinkProduct)
	pr.GET("/:id/products", prospects.ListProspectProducts)
}
