package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/dancing_birds/birds"
	. "github.com/elijahnyp/dancing_birds/util"
)

func main() {
	LogInit("info")
	SetupConfig()
	RegisterNewConfigListener(func() { LogInit(Config.GetString("log_level")) })
	OnNewConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		Logger.Error().Err(err).Msg("exhibit failed")
		stop()
		os.Exit(1)
	}
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			Logger.Warn().Err(err).Msg("error during shutdown")
		}
	}
}

func run(ctx context.Context) error {
	src, srcCloser, err := BuildSource()
	if err != nil {
		return err
	}
	defer closeAll(srcCloser)

	var client MQTT.Client
	if NeedsMQTT() {
		if err := MqttInit(); err != nil {
			Logger.Warn().Err(err).Msg("broker not reachable yet, retrying in the background")
		}
		client = Client
		defer MqttClose()
	}

	backend, backendCloser, err := BuildBackend(ctx, client)
	if err != nil {
		return err
	}
	defer closeAll(backendCloser)

	exhibit := birds.New(backend,
		birds.WithTiming(TimingFromConfig()),
		birds.WithAngleRange(AngleRangeFromConfig()),
		birds.WithLogger(ComponentLogger("exhibit")),
	)
	RegisterNewConfigListener(func() { exhibit.SetTiming(TimingFromConfig()) })

	if client != nil {
		publisher := NewStatusPublisher(client, Topic("status"), exhibit)
		exhibit.OnChange(publisher.Publish)
		go publisher.Run(ctx)
		RegisterMQTTConnectHook("status", publisher.OnConnect)
		if client.IsConnected() {
			publisher.OnConnect(client)
		}
		go publisher.OnlinePinger(ctx, time.Duration(Config.GetInt("online_interval"))*time.Second)
	}

	if Config.GetBool("monitor_enabled") {
		hub := NewHub()
		go hub.Run(ctx)
		api := NewAPI(exhibit, hub)
		exhibit.OnChange(api.Broadcast)

		monitor := NewMonitorServer()
		api.Register(monitor)
		if err := monitor.Start(); err != nil {
			Logger.Error().Msgf("Error starting monitor server: %v", err)
		}
		RegisterNewConfigListener(func() { monitor.Restart() })
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := monitor.Shutdown(shutdownCtx); err != nil {
				Logger.Warn().Err(err).Msg("monitor shutdown")
			}
		}()
	}

	Logger.Info().Msg("ready")
	err = exhibit.Run(ctx, src)

	// leave the exhibit at rest whatever ended the run
	if stopErr := exhibit.Dispatch(context.Background(), birds.CmdStop); stopErr != nil && !errors.Is(stopErr, birds.ErrStopped) {
		Logger.Warn().Err(stopErr).Msg("could not return to rest")
	}
	exhibit.Wait()

	if errors.Is(err, context.Canceled) {
		Logger.Info().Msg("shutdown requested")
		return nil
	}
	return err
}
