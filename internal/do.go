package internal

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/willie68/go_heightmap/internal/config"
	"github.com/willie68/go_heightmap/internal/logging"
	"github.com/willie68/go_heightmap/internal/shttp"
	"github.com/willie68/go_heightmap/internal/tiles"
)

// Init wires all services of the loaded config into a new injector
func Init() (do.Injector, error) {
	inj := do.New()

	config.Init(inj)
	logging.Init(inj)
	shttp.Init(inj)
	if err := tiles.Init(inj); err != nil {
		return nil, fmt.Errorf("error on init heightmaps: %w", err)
	}
	return inj, nil
}

type shutdowner interface {
	Shutdown() error
}

// Stop closes the tile sources and the log outputs
func Stop(inj do.Injector) {
	ts := do.MustInvokeAs[shutdowner](inj)
	err := ts.Shutdown()
	if err != nil {
		logging.New("internal").Error(fmt.Sprintf("error on close heightmaps: %v", err))
	}
	logging.Close()
}
