// cmd/doorctl/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goburrow/serial"
	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/config"
	"github.com/tamzrod/modbus-doorctl/internal/gpio"
	"github.com/tamzrod/modbus-doorctl/internal/mqtt"
	"github.com/tamzrod/modbus-doorctl/internal/poller"
	pmodbus "github.com/tamzrod/modbus-doorctl/internal/poller/modbus"
	"github.com/tamzrod/modbus-doorctl/internal/report"
	"github.com/tamzrod/modbus-doorctl/internal/status"
	"github.com/tamzrod/modbus-doorctl/internal/web"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: doorctl <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	lvl, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Error("doorctl stopped")
		stop()
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// run wires the components and blocks in the polling task until ctx is done.
func run(ctx context.Context, cfg *config.Config) error {
	// --------------------
	// Transceiver direction line (optional)
	// --------------------

	if g := cfg.Bus.DirectionGPIO; g != nil {
		pin, err := gpio.NewRealPin(g.Chip, g.Line, g.High)
		if err != nil {
			return fmt.Errorf("direction gpio failed: %w", err)
		}
		defer pin.Close()

		if err := gpio.Setup(pin, g.High); err != nil {
			return fmt.Errorf("direction gpio failed: %w", err)
		}
	}

	// --------------------
	// Serial bus
	// --------------------

	bus, err := pmodbus.New(pmodbus.Config{
		Device:   cfg.Bus.Device,
		BaudRate: cfg.Bus.BaudRate,
		DataBits: cfg.Bus.DataBits,
		StopBits: cfg.Bus.StopBits,
		Parity:   cfg.Bus.Parity,
		RS485:    rs485(cfg.Bus.RS485),
		Debug:    cfg.Bus.Debug,
		Timeout:  config.Ms(cfg.Timing.ReadTimeoutMs),
	})
	if err != nil {
		return fmt.Errorf("modbus bus failed: %w", err)
	}
	defer bus.Close()

	store := status.NewStore()

	// --------------------
	// Cloud link (optional)
	// --------------------

	var (
		replier poller.Replier = mqtt.LogReplier{}
		conn    mqtt.ConnectionStatus
		client  *mqtt.RealClient
		replies *mqtt.Replier
		topics  mqtt.Topics
	)
	if cfg.MQTT.Enabled() {
		client, err = mqtt.NewRealClient(mqtt.Options{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      cfg.MQTT.QoS,
		})
		if err != nil {
			return fmt.Errorf("mqtt connect failed: %w", err)
		}
		defer client.Close()

		topics = mqtt.NewTopics(cfg.MQTT.ProductKey, cfg.MQTT.DeviceName)
		replies = mqtt.NewReplier(client, topics)
		replier = replies
		conn = client
	} else {
		log.Warn("no mqtt broker configured, command outcomes are only logged")
	}

	// --------------------
	// Polling task
	// --------------------

	p, queue, err := poller.Build(cfg, bus, store, replier)
	if err != nil {
		return fmt.Errorf("poller build failed: %w", err)
	}

	if client != nil {
		cmds := mqtt.NewCommands(queue, replies)
		if err := cmds.Register(client, topics); err != nil {
			return fmt.Errorf("mqtt subscribe failed: %w", err)
		}

		rep, err := report.New(client, topics, store, config.Ms(cfg.MQTT.ReportIntervalMs))
		if err != nil {
			return fmt.Errorf("reporter build failed: %w", err)
		}
		go rep.Run(ctx)
	}

	// --------------------
	// Diagnostic table (optional)
	// --------------------

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, store, conn)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				log.WithError(err).Error("http server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		log.WithField("addr", cfg.HTTP.Addr).Info("http status server listening")
	}

	// --------------------
	// Run until signalled
	// --------------------

	err = p.Run(ctx)
	queue.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("polling task died: %w", err)
	}
	return nil
}

func rs485(c *config.RS485Config) *serial.RS485Config {
	if c == nil {
		return nil
	}
	return &serial.RS485Config{
		Enabled:            true,
		DelayRtsBeforeSend: config.Ms(c.DelayBeforeSendMs),
		DelayRtsAfterSend:  config.Ms(c.DelayAfterSendMs),
		RtsHighDuringSend:  c.RTSHighDuringSend,
		RtsHighAfterSend:   c.RTSHighAfterSend,
		RxDuringTx:         c.RxDuringTx,
	}
}
