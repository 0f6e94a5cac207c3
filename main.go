package main

import (
	"flag"
	"os"

	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"losingmoney.com/server/game"
	"losingmoney.com/server/logging"
	"losingmoney.com/server/nats"
	"losingmoney.com/server/poker"
	"losingmoney.com/server/rest"
	"losingmoney.com/server/util"
	"losingmoney.com/server/ws"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

var settingsFile *string
var useLibEvaluator *bool

func init() {
	settingsFile = flag.String("settings", "", "YAML file with table settings (blinds, stacks, seats)")
	useLibEvaluator = flag.Bool("lib-evaluator", false, "rank hands with the lookup table library backend")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	zerolog.SetGlobalLevel(util.Env.GetZeroLogLogLevel())
	flag.Parse()

	settings := game.DefaultTableSettings()
	settingsPath := *settingsFile
	if settingsPath == "" {
		settingsPath = util.Env.GetTableSettingsFile()
	}
	if settingsPath != "" {
		var err error
		settings, err = game.ParseTableSettings(settingsPath)
		if err != nil {
			return errors.Wrap(err, "Error while parsing table settings")
		}
	}

	var evaluator poker.Evaluator = poker.DefaultEvaluator
	if *useLibEvaluator {
		mainLogger.Info().Msg("Using the library hand evaluator backend")
		evaluator = poker.LibEvaluator{}
	}

	gateway := ws.NewGateway()
	var messenger game.Messenger = gateway

	natsURL := util.Env.GetNatsURL()
	if natsURL != "" {
		mainLogger.Info().Msgf("Mirroring events to NATS at %s", natsURL)
		nc, err := natsgo.Connect(natsURL)
		if err != nil {
			return errors.Wrap(err, "Error connecting to NATS server")
		}
		messenger = game.MultiMessenger{gateway, nats.NewMessenger(nc)}
	}

	manager, err := game.NewManager(messenger, settings, evaluator)
	if err != nil {
		return errors.Wrap(err, "Error while creating room manager")
	}
	gateway.SetManager(manager)

	return rest.RunServer(util.Env.GetPort(), util.Env.GetClientURL(), manager, gateway)
}
