package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
)

const (
	// ServiceURLKey is the key to set the base url of the remote assets
	// service.
	ServiceURLKey = "SERVICE_URL"
	// ServiceTokenKey is the key to set a ready-to-use auth token for the
	// remote assets service. Alternative to app credentials.
	ServiceTokenKey = "SERVICE_TOKEN"
	// AppIDKey is the key to set the app id used to generate an auth token.
	AppIDKey = "APP_ID"
	// AppSecretKey is the key to set the app secret used to generate an
	// auth token.
	AppSecretKey = "APP_SECRET"
	// NetworkKey is the key to customize the Bitcoin network.
	NetworkKey = "NETWORK"
	// LogLevelKey is the key to customize the log level to catch more
	// specific or more high level logs.
	LogLevelKey = "LOG_LEVEL"
	// MinUtxoValueKey is the key to customize the default threshold under
	// which utxos are excluded from coin selection.
	MinUtxoValueKey = "MIN_UTXO_VALUE"
)

var (
	vip *viper.Viper

	defaultNetwork  = chaincfg.MainNetParams.Name
	defaultLogLevel = 4

	supportedNetworks = map[string]*chaincfg.Params{
		chaincfg.MainNetParams.Name:       &chaincfg.MainNetParams,
		chaincfg.TestNet3Params.Name:      &chaincfg.TestNet3Params,
		chaincfg.SigNetParams.Name:        &chaincfg.SigNetParams,
		chaincfg.RegressionNetParams.Name: &chaincfg.RegressionNetParams,
	}
)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("COINSOURCE")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, defaultNetwork)
	vip.SetDefault(LogLevelKey, defaultLogLevel)

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
}

func validate() error {
	net := GetString(NetworkKey)
	if len(net) == 0 {
		return fmt.Errorf("network must not be null")
	}
	if _, ok := supportedNetworks[net]; !ok {
		nets := make([]string, 0, len(supportedNetworks))
		for net := range supportedNetworks {
			nets = append(nets, net)
		}
		return fmt.Errorf(
			"unknown network, must be one of: %s", strings.Join(nets, " | "),
		)
	}
	return nil
}

func GetNetwork() *chaincfg.Params {
	return supportedNetworks[GetString(NetworkKey)]
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func Set(key string, val interface{}) {
	vip.Set(key, val)
}

func IsSet(key string) bool {
	return vip.IsSet(key)
}
