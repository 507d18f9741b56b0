package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/maio/mopub-adapter/config"
	"github.com/maio/mopub-adapter/router"
	"github.com/maio/mopub-adapter/server"
	"github.com/spf13/viper"
)

// Rev holds binary revision string
// Set manually at build time using:
//
//	go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	err = serve(Rev, cfg)
	if err != nil {
		glog.Exitf("maio-adapter failed: %v", err)
	}
}

const configFileName = "maio-adapter"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(revision string, cfg *config.Configuration) error {
	r, err := router.New(cfg, revision)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	handler := router.NoCache{Handler: router.SupportCORS(r)}
	return server.Listen(cfg, handler, r.MetricsEngine)
}
