package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/likesweetie/zed-f9r-parser/internal/config"
	"github.com/likesweetie/zed-f9r-parser/internal/gps"
)

// RunDisplay shows the latest fix on an SSD1306 OLED.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(cfg.Display.I2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized on I2C bus %q", cfg.Display.I2CBus)

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	var (
		mu      sync.RWMutex
		lastFix gps.Fix
		haveFix bool
	)

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTT.Broker)

	token := client.Subscribe(cfg.MQTT.TopicFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var fix gps.Fix
		if err := json.Unmarshal(msg.Payload(), &fix); err != nil {
			log.Printf("display: fix unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastFix = fix
		haveFix = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.MQTT.TopicFix)

	ticker := time.NewTicker(time.Duration(cfg.Display.UpdateIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		mu.RLock()
		fix, have := lastFix, haveFix
		mu.RUnlock()

		if err := updateFixDisplay(dev, fix, have); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func newDrawer() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := 0; i < 1024; i++ {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func updateFixDisplay(dev *ssd1306.Dev, fix gps.Fix, haveData bool) error {
	img, drawer := newDrawer()

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("GNSS Fix"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
		return dev.Draw(dev.Bounds(), img, image.Point{})
	}

	// Latitude / longitude
	drawer.Dot = fixed.P(0, 13)
	latDir, lat := "N", fix.Lat
	if lat < 0 {
		latDir, lat = "S", -lat
	}
	lonDir, lon := "E", fix.Lon
	if lon < 0 {
		lonDir, lon = "W", -lon
	}
	if fix.FixValid {
		drawer.DrawBytes([]byte(fmt.Sprintf("%.4f%s %.4f%s", lat, latDir, lon, lonDir)))
	} else {
		drawer.DrawBytes([]byte("no fix"))
	}

	// Local frame
	drawer.Dot = fixed.P(0, 26)
	if fix.LocalValid {
		drawer.DrawBytes([]byte(fmt.Sprintf("x%8.1f y%8.1f", fix.LocalX, fix.LocalY)))
	} else {
		drawer.DrawBytes([]byte("no local frame"))
	}

	// Satellites / quality
	drawer.Dot = fixed.P(0, 39)
	drawer.DrawBytes([]byte(fmt.Sprintf("sats:%2d q:%d", fix.Satellites, fix.Quality)))

	// Speed
	drawer.Dot = fixed.P(0, 52)
	if fix.NavValid {
		drawer.DrawBytes([]byte(fmt.Sprintf("%5.2f m/s %5.1f deg", fix.SpeedMPS, fix.CourseDeg)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img, drawer := newDrawer()

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("ZED-F9R"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Looking for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("sats"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
