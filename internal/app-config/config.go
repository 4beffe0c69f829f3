package appconfig

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/utxoforge/coinsource/internal/core/application"
	"github.com/utxoforge/coinsource/internal/core/ports"
	http_assets "github.com/utxoforge/coinsource/internal/infrastructure/assets-service/http"
)

// AppConfig is the struct holding all configuration options for the
// datasource service. This data structure acts also as a factory of the
// service and the portable assets service consumed by it.
// Public config args:
//   - Network - (required) The Bitcoin network (mainnet, testnet3, signet, regtest).
//   - AssetsServiceType - (required) One of the supported assets service types.
//   - AssetsServiceConfig - (optional) Custom config args for the assets service based on its type.
type AppConfig struct {
	Network *chaincfg.Params

	AssetsServiceType   string
	AssetsServiceConfig interface{}

	svc        ports.AssetsService
	datasource *application.DataSource
}

var supportedAssetsServices = map[string]struct{}{
	"http": {},
}

func (c *AppConfig) Validate() error {
	if c.Network == nil {
		return fmt.Errorf("missing network")
	}
	if len(c.AssetsServiceType) == 0 {
		return fmt.Errorf("missing assets service type")
	}
	if _, ok := supportedAssetsServices[c.AssetsServiceType]; !ok {
		return fmt.Errorf("assets service type not supported, must be: http")
	}
	if _, err := c.assetsService(); err != nil {
		return err
	}
	return nil
}

func (c *AppConfig) AssetsService() ports.AssetsService {
	svc, _ := c.assetsService()
	return svc
}

func (c *AppConfig) DataSource() *application.DataSource {
	if c.datasource != nil {
		return c.datasource
	}

	svc, _ := c.assetsService()
	c.datasource = application.NewDataSource(svc, c.Network)
	return c.datasource
}

func (c *AppConfig) assetsService() (ports.AssetsService, error) {
	if c.svc != nil {
		return c.svc, nil
	}

	switch c.AssetsServiceType {
	case "http":
		if c.AssetsServiceConfig == nil {
			return nil, fmt.Errorf("missing assets service config args")
		}
		args, ok := c.AssetsServiceConfig.(http_assets.ServiceArgs)
		if !ok {
			return nil, fmt.Errorf(
				"invalid assets service config type, must be http_assets.ServiceArgs",
			)
		}
		svc, err := http_assets.NewService(args)
		if err != nil {
			return nil, err
		}
		c.svc = svc
		return c.svc, nil
	default:
		return nil, fmt.Errorf("unknown assets service type")
	}
}
