//go:build wireinject
// +build wireinject

package di

import (
	"panelkeeper/internal"
	"panelkeeper/internal/controllers"
	"panelkeeper/internal/notify"
	"panelkeeper/internal/persistence"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/reports"
	"panelkeeper/internal/scheduler"
	"panelkeeper/internal/services"
	"panelkeeper/internal/structures"

	wire "github.com/google/wire"
)

var storageSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewClockProvider,
	persistence.NewZstdCompressor,
	persistence.NewSnapshotStore,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		storageSet,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		services.NewPanelService,
		notify.NewNotifierProvider,
		reports.NewPublisher,
		scheduler.NewScheduler,
		controllers.NewPanelController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

// InitExporter builds just enough to read the stored snapshot.
func InitExporter(cfg *structures.CliFlags) (*Exporter, func(), error) {

	wire.Build(
		storageSet,
		NewExporter,
	)

	return nil, nil, nil
}
