package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/likesweetie/zed-f9r-parser/internal/config"
	"github.com/likesweetie/zed-f9r-parser/internal/ddc"
	"github.com/likesweetie/zed-f9r-parser/internal/gps"
)

// RunProducer reads the receiver byte stream, runs the NMEA pipeline
// and publishes one combined fix per closed epoch as JSON to MQTT.
func RunProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("producer: connected to MQTT broker at %s", cfg.MQTT.Broker)

	// ---- 2) Open the receiver transport ----
	source, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	// ---- 3) Pipeline ----
	pipe := gps.NewPipeline(gps.PipelineConfig{
		VerifyChecksum: cfg.Pipeline.VerifyChecksum,
		DropFiller:     cfg.Pipeline.DropFiller,
		SyncOnStart:    cfg.Pipeline.SyncOnStart,
		MaxLineBytes:   cfg.Pipeline.MaxLineBytes,
		FixedZone:      cfg.Pipeline.FixedZone,
		RolloverTag:    cfg.Pipeline.RolloverTag,
	})

	idle := time.Duration(cfg.Receiver.PollIntervalMS) * time.Millisecond
	topic := cfg.MQTT.TopicFix
	log.Printf("producer: polling %s receiver, publishing to %s", cfg.Receiver.Transport, topic)

	for {
		avail, err := source.Available()
		if err != nil {
			// Transport errors are transient; the next poll is a fresh
			// attempt with no carried-over state.
			log.Printf("producer: receiver poll error: %v", err)
			time.Sleep(idle)
			continue
		}
		if avail <= 0 {
			time.Sleep(idle)
			continue
		}

		n := avail
		if n > cfg.Receiver.MaxChunk {
			n = cfg.Receiver.MaxChunk
		}
		chunk, err := source.ReadChunk(n)
		if err != nil {
			log.Printf("producer: receiver read error: %v", err)
			time.Sleep(idle)
			continue
		}

		for _, fix := range pipe.Feed(chunk) {
			payload, err := json.Marshal(fix)
			if err != nil {
				log.Printf("producer: fix JSON marshal error: %v", err)
				continue
			}

			token := client.Publish(topic, 0, true, payload)
			token.Wait()
			if token.Error() != nil {
				log.Printf("producer: publish error: %v", token.Error())
				continue
			}

			if fix.LocalValid {
				log.Printf("producer: epoch %d local x=%.3f y=%.3f (%d sats)",
					fix.Epoch, fix.LocalX, fix.LocalY, fix.Satellites)
			} else {
				log.Printf("producer: epoch %d no usable fix", fix.Epoch)
			}
		}
	}
}

func openSource(cfg *config.Config) (ddc.Source, error) {
	switch cfg.Receiver.Transport {
	case "i2c":
		src, err := ddc.OpenI2C(ddc.I2CConfig{
			Bus:           cfg.Receiver.I2CBus,
			Addr:          cfg.Receiver.I2CAddr,
			CountLSBFirst: cfg.Receiver.CountLSBFirst,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("producer: DDC port open on I2C bus %q addr 0x%02X", cfg.Receiver.I2CBus, ddcAddr(cfg))
		return src, nil
	case "serial":
		src, err := ddc.OpenSerial(ddc.SerialConfig{
			Port: cfg.Receiver.SerialPort,
			Baud: cfg.Receiver.BaudRate,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("producer: serial port open on %s at %d baud", cfg.Receiver.SerialPort, cfg.Receiver.BaudRate)
		return src, nil
	default:
		return nil, fmt.Errorf("unknown receiver transport %q", cfg.Receiver.Transport)
	}
}

func ddcAddr(cfg *config.Config) uint16 {
	if cfg.Receiver.I2CAddr == 0 {
		return ddc.DefaultAddr
	}
	return cfg.Receiver.I2CAddr
}
