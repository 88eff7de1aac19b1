// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"github.com/gin-gonic/gin"

	"ndjele/internal/ai"
	"ndjele/internal/geo"
	"ndjele/internal/http/handlers"
	"ndjele/internal/http/middleware"
	"ndjele/internal/modules/matching"
	"ndjele/internal/modules/negotiation"
	"ndjele/internal/modules/order"
	"ndjele/internal/modules/profile"
	"ndjele/internal/modules/wallet"
)

type ServerDeps struct {
	Order       *order.Service
	Wallet      *wallet.Service
	Matching    *matching.Service
	Negotiation *negotiation.Service
	Profile     *profile.Service
	Geocoder    *geo.Geocoder
	Advisor     ai.Advisor
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	orderH := handlers.NewOrderHandler(s.deps.Order)
	driverH := handlers.NewDriverHandler(s.deps.Order, s.deps.Matching)
	walletH := handlers.NewWalletHandler(s.deps.Wallet)
	profileH := handlers.NewProfileHandler(s.deps.Profile)
	negotiationH := handlers.NewNegotiationHandler(s.deps.Negotiation)
	aiH := handlers.NewAIHandler(s.deps.Advisor)
	geoH := handlers.NewGeoHandler(s.deps.Geocoder)
	searchH := handlers.NewSearchHandler(s.deps.Matching)

	api := r.Group("/api")

	orders := api.Group("/orders")
	orders.POST("", orderH.Create)
	orders.GET("/active", orderH.ListActive)
	orders.GET("/:id", orderH.Get)
	orders.POST("/:id/cancel", orderH.Cancel)
	orders.POST("/:id/complete", orderH.Complete)
	orders.POST("/:id/dispute", orderH.Dispute)
	orders.POST("/:id/confirm_delivery", orderH.ConfirmDelivery)
	orders.PUT("/:id/location_shared", orderH.SetLocationShared)

	orders.POST("/:id/accept", driverH.Accept)
	orders.POST("/:id/reject", driverH.Reject)
	orders.POST("/:id/start", driverH.Start)
	orders.POST("/:id/pickup", driverH.PickUp)
	orders.POST("/:id/mark_delivered", driverH.MarkDelivered)

	drivers := api.Group("/drivers")
	drivers.PUT("/:id/direction", driverH.SetDirection)
	drivers.POST("/:id/direction/auto", driverH.AutoDetectDirection)
	drivers.GET("/:id/requests", driverH.MatchedRequests)

	wallets := api.Group("/wallets")
	wallets.GET("/:id", walletH.Balance)
	wallets.POST("/:id/withdraw", walletH.Withdraw)

	profiles := api.Group("/profiles")
	profiles.GET("/:id", profileH.Get)
	profiles.PUT("/:id", profileH.Save)
	profiles.PUT("/:id/role", profileH.SetRole)
	profiles.PUT("/:id/subscription", profileH.SetSubscription)
	profiles.POST("/:id/terms", profileH.AcceptTerms)
	profiles.GET("/:id/contacts", profileH.Contacts)
	profiles.POST("/:id/contacts", profileH.AddContact)

	users := api.Group("/users")
	users.GET("/:id/searches", searchH.List)
	users.POST("/:id/searches", searchH.Record)

	api.POST("/negotiate", negotiationH.Negotiate)

	aiGroup := api.Group("/ai")
	aiGroup.POST("/chat", aiH.Chat)
	aiGroup.POST("/medical", aiH.MedicalOrientation)
	aiGroup.POST("/artisan", aiH.ArtisanDiagnosis)

	api.GET("/geo/neighborhood", geoH.Neighborhood)

	return r
}
