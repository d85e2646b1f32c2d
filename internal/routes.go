package internal

import (
	"net/http"
	"panelkeeper/internal/controllers"
	"panelkeeper/internal/providers"
)

func InitRoutes(panelController *controllers.PanelController, adminController *controllers.AdminController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/panels", http.HandlerFunc(panelController.GetPanels))
	routers.Post("/panels/place", http.HandlerFunc(panelController.Place))
	routers.Post("/panels/fix", http.HandlerFunc(panelController.Fix))
	routers.Post("/actions", http.HandlerFunc(panelController.LogAction))
	routers.Get("/actions/catalog", http.HandlerFunc(panelController.GetActions))
	routers.Get("/leaderboard", http.HandlerFunc(panelController.GetLeaderboard))
	routers.Get("/leaderboard/lifetime", http.HandlerFunc(panelController.GetLifetimeLeaderboard))
	routers.Get("/history", http.HandlerFunc(panelController.GetHistory))
	routers.Post("/dashboard", http.HandlerFunc(panelController.PostDashboard))

	routers.Post("/admin/reset", http.HandlerFunc(adminController.ForceReset))
	routers.Post("/admin/clear-panels", http.HandlerFunc(adminController.ClearPanels))
	routers.Get("/admin/export", http.HandlerFunc(adminController.Export))
	return routers
}
