package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	flag "github.com/spf13/pflag"
	"github.com/willie68/go_heightmap/configs"
	"github.com/willie68/go_heightmap/internal"
	"github.com/willie68/go_heightmap/internal/api"
	"github.com/willie68/go_heightmap/internal/config"
	"github.com/willie68/go_heightmap/internal/logging"
	"github.com/willie68/go_heightmap/internal/shttp"
	"github.com/willie68/go_heightmap/pkg/fileutils"
)

var (
	log         *slog.Logger
	configFile  string
	showVersion bool
	initConfig  bool
	heightmaps  string
	port        int
	inj         do.Injector
)

func init() {
	flag.BoolVarP(&initConfig, "init", "i", false, "init config, writes out a default config.")
	flag.BoolVarP(&showVersion, "version", "v", false, "showing the version")
	flag.StringVarP(&configFile, "config", "c", "config.yaml", "this is the path and filename to the config file")
	flag.IntVarP(&port, "port", "p", 0, "overwrite the port (8580) of the config")
	flag.StringVarP(&heightmaps, "heightmaps", "m", "", "serve only these heightmaps of the config, csv if more than one needed.")
	flag.Usage = func() {
		fmt.Printf("Usage of %s:\n", os.Args[0])
		fmt.Println("more on https://github.com/willie68/go_heightmap")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("examples:")
		fmt.Println("write the default config, add your heightmap tile servers and run")
		fmt.Printf("%s -i > config.yaml\n", os.Args[0])
		fmt.Printf("%s -c config.yaml\n", os.Args[0])
		fmt.Println("serve only some of the configured heightmaps on another port")
		fmt.Printf("%s -c config.yaml -m terrain,local -p 8080\n", os.Args[0])
	}
}

func main() {
	flag.Parse()
	if showVersion {
		fmt.Println(config.NewVersion().String())
		os.Exit(0)
	}
	if initConfig {
		fmt.Println(configs.ConfigFile)
		os.Exit(0)
	}
	if !fileutils.FileExists(configFile) {
		fmt.Fprint(os.Stderr, "no config given or dosn't exists.\r\n\r\n")
		flag.Usage()
		os.Exit(1)
	}
	err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	config.SetParameter(config.WithPort(port), config.WithHeightmaps(heightmaps))
	ys := config.YAML()
	if ys == "" {
		panic("error on marshal config to yaml")
	}
	fmt.Printf("Config:\n%s\n", ys)

	inj, err = internal.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\r\n", err)
		os.Exit(1)
	}
	log = logging.New("main")
	log.Info("starting heightmap service")

	router, err := api.APIRoutes(inj)
	if err != nil {
		log.Error(fmt.Sprintf("could not create api routes: %v", err))
		os.Exit(1)
	}
	healthRouter := api.HealthRoutes(inj)

	sh := do.MustInvoke[*shttp.SHttp](inj)
	sh.StartServers(router, healthRouter)

	log.Info("waiting for clients")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	sh.ShutdownServers()
	log.Info("server finished")

	internal.Stop(inj)
	os.Exit(0)
}
