package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	appconfig "github.com/utxoforge/coinsource/internal/app-config"
	"github.com/utxoforge/coinsource/internal/config"
	"github.com/utxoforge/coinsource/internal/core/application"
	"github.com/utxoforge/coinsource/internal/core/domain"
	http_assets "github.com/utxoforge/coinsource/internal/infrastructure/assets-service/http"
)

var colorRed = string("\033[31m")

func getDataSource() (*application.DataSource, error) {
	cfg := &appconfig.AppConfig{
		Network:           config.GetNetwork(),
		AssetsServiceType: "http",
		AssetsServiceConfig: http_assets.ServiceArgs{
			BaseURL:   config.GetString(config.ServiceURLKey),
			Token:     config.GetString(config.ServiceTokenKey),
			AppID:     config.GetString(config.AppIDKey),
			AppSecret: config.GetString(config.AppSecretKey),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg.DataSource(), nil
}

func parseOutpoints(outpoints []string) ([]domain.OutputKey, error) {
	keys := make([]domain.OutputKey, 0, len(outpoints))
	for _, outpoint := range outpoints {
		parts := strings.Split(outpoint, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid outpoint %q, must be txid:vout", outpoint)
		}
		vout, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid outpoint %q: %s", outpoint, err)
		}
		keys = append(keys, domain.OutputKey{TxID: parts[0], VOut: uint32(vout)})
	}
	return keys, nil
}

func printJSON(v interface{}) {
	buf, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(buf))
}

func printErr(err error) {
	fmt.Printf("%serror: %s\n", colorRed, err)
}
