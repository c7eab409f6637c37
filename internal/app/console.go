package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/likesweetie/zed-f9r-parser/internal/config"
	"github.com/likesweetie/zed-f9r-parser/internal/gps"
)

// RunConsole subscribes to the fix topic and prints each fix.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTT.Broker)

	token := client.Subscribe(cfg.MQTT.TopicFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var fix gps.Fix
		if err := json.Unmarshal(msg.Payload(), &fix); err != nil {
			log.Printf("console: fix unmarshal error: %v", err)
			return
		}

		if fix.LocalValid {
			fmt.Printf("[FIX] epoch=%-6d x=%9.3f y=%9.3f  lat=%10.6f lon=%11.6f  sats=%2d hdop=%4.1f\n",
				fix.Epoch, fix.LocalX, fix.LocalY, fix.Lat, fix.Lon, fix.Satellites, fix.HDOP)
		} else {
			fmt.Printf("[FIX] epoch=%-6d no local fix\n", fix.Epoch)
		}
		if fix.NavValid {
			fmt.Printf("[NAV] epoch=%-6d speed=%6.2f m/s course=%6.1f\n",
				fix.Epoch, fix.SpeedMPS, fix.CourseDeg)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.MQTT.TopicFix)

	// Block until Ctrl-C
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	client.Disconnect(250)
	log.Println("console: shutting down")
	return nil
}
