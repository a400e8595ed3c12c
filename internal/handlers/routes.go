package handlers

import "github.com/gin-gonic/gin"

// Routes bundles the handlers of the shop API.
type Routes struct {
	Kunden       *KundeHandler
	Artikel      *ArtikelHandler
	Bestellungen *BestellungHandler
	Health       gin.HandlerFunc
	// Guard protects the mutating routes. nil leaves them open.
	Guard gin.HandlerFunc
}

func (rt Routes) Register(r *gin.Engine, prefix string) {
	if rt.Health != nil {
		r.GET("/health", rt.Health)
	}

	api := r.Group(prefix)
	rt.Kunden.Register(api, rt.Guard)
	rt.Artikel.Register(api, rt.Guard)
	rt.Bestellungen.Register(api, rt.Guard)
}
