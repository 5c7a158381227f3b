package main

import (
	"chatrelay"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var config *chatrelay.Config

func init() {
	configFilePath := flag.String("c", "", "path to configuration file (.toml or .yaml).")
	metricsAddress := flag.String("metrics", "", "address of the prometheus endpoint, empty to disable.")
	flag.Usage = func() {
		_, _ = os.Stderr.WriteString("usage: relay [-c config] [-metrics address] [ip_address port_number]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *configFilePath != "" {
		var err error
		config, err = chatrelay.LoadConfig(*configFilePath)
		if err != nil {
			log.Fatal().Msgf("can't load config: %+v", err)
		}
	} else {
		config = chatrelay.DefaultConfig()
	}
	if *metricsAddress != "" {
		config.Metrics.Address = *metricsAddress
	}
	applyArgs(config, flag.Args())
	initLog(config)
}

func applyArgs(config *chatrelay.Config, args []string) {
	if len(args) == 0 {
		return
	}
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}
	port, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal().Msgf("invalid port number %q: %v", args[1], err)
	}
	config.Relay.Address = args[0]
	config.Relay.Port = port
}

func initLog(config *chatrelay.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(config.Global.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func serveMetrics(address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Msgf("serving metrics on %s", address)
	err := http.ListenAndServe(address, mux)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Msgf("metrics endpoint stopped: %+v", err)
	}
}

func main() {
	log.Info().Msg("starting relay...")
	listenFd, err := chatrelay.Listen(config.Relay.Address, config.Relay.Port, config.Relay.Backlog)
	if err != nil {
		log.Fatal().Msgf("can't listen on %s:%d: %+v", config.Relay.Address, config.Relay.Port, err)
	}
	relay, err := chatrelay.NewRelay(listenFd, config.Relay)
	if err != nil {
		log.Fatal().Msgf("can't init relay: %+v", err)
	}
	if address, err := chatrelay.ListenAddr(listenFd); err == nil {
		log.Info().Msgf("listening on %s", address)
	}
	if config.Metrics.Address != "" {
		go serveMetrics(config.Metrics.Address)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.Info().Msgf("received %s, stopping relay", sig)
		relay.Stop()
	}()

	exitCode := 0
	if err := relay.Run(); err != nil {
		log.Error().Msgf("poll failure: %+v", err)
		exitCode = 1
	}
	if err := relay.Close(); err != nil {
		log.Error().Msgf("got error while closing relay: %+v", err)
	}
	stats := relay.Stats()
	log.Info().Msgf("relay finished: accepted %d, rejected %d, received %d bytes, sent %d bytes",
		stats.AcceptedTotal, stats.RejectedTotal, stats.ReceivedBytes, stats.SentBytes)
	os.Exit(exitCode)
}
