package util

import (
	"crypto/rand"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "BIRDS"

var Config = viper.New()

var (
	config_listeners []func()
	listenersMu      sync.Mutex
)

func RegisterNewConfigListener(new_listener func()) {
	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, listener := range config_listeners {
		if reflect.ValueOf(new_listener).Pointer() == reflect.ValueOf(listener).Pointer() {
			Logger.Warn().Msg("config listener already registered")
			return
		}
	}
	config_listeners = append(config_listeners, new_listener)
}

func OnNewConfig() {
	listenersMu.Lock()
	listeners := append([]func(){}, config_listeners...)
	listenersMu.Unlock()
	for _, listener := range listeners {
		listener()
	}
}

func GetRandString(n int) string {
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		randBytes := make([]byte, 1)
		if _, err := rand.Read(randBytes); err != nil {
			b[i] = letterBytes[i%len(letterBytes)]
		} else {
			b[i] = letterBytes[int(randBytes[0])%len(letterBytes)]
		}
	}
	return string(b)
}

// SetDefaults installs the built in value of every setting. Split from
// SetupConfig so tests and the console can run without a config file.
func SetDefaults() {
	Config.SetDefault("log_level", "info")

	// mqtt
	Config.SetDefault("mqtt_enabled", true)
	Config.SetDefault("broker_uri", "tcp://mqtt:1883")
	Config.SetDefault("cleansess", false)
	Config.SetDefault("id_base", "dancing_birds")
	Config.SetDefault("username", "")
	Config.SetDefault("password", "")
	Config.SetDefault("topic_prefix", "dancing_birds")
	Config.SetDefault("ha_discovery", true)
	Config.SetDefault("online_interval", 30)

	// command source: mqtt, serial or none
	Config.SetDefault("source", "mqtt")
	Config.SetDefault("serial_port", "/dev/ttyUSB0")
	Config.SetDefault("serial_baud", 9600)

	// actuator backend: log, mqtt or feetech
	Config.SetDefault("backend", "log")
	Config.SetDefault("feetech_port", "/dev/ttyACM0")
	Config.SetDefault("feetech_baud", 1000000)
	Config.SetDefault("feetech_ids", map[string]interface{}{
		"bird1":        1,
		"bird2":        2,
		"bird3":        3,
		"bird4":        4,
		"platform":     5,
		"music_button": 6,
	})
	Config.SetDefault("servo_min_angle", 0)
	Config.SetDefault("servo_max_angle", 150)

	// timing, milliseconds
	Config.SetDefault("jump_hold_ms", 500)
	Config.SetDefault("button_hold_ms", 600)
	Config.SetDefault("dance_step_ms", 400)
	Config.SetDefault("dance_rest_ms", 300000)

	// monitor
	Config.SetDefault("monitor_enabled", true)
	Config.SetDefault("monitor_port", 8080)
}

func SetupConfig() {
	Config.SetEnvPrefix(ENV_PREFIX)
	Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	SetDefaults()

	// config file
	Config.SetConfigName("dancing_birds")
	Config.AddConfigPath("/")
	Config.AddConfigPath("./")
	Config.AddConfigPath("./config")
	Config.AddConfigPath("/etc")
	Config.AddConfigPath("/dancing_birds")
	Config.AddConfigPath("/dancing_birds/config")

	err := Config.ReadInConfig()
	if err != nil {
		Logger.Error().Msgf("unable to read config file: %v", fmt.Errorf("%v", err))
	}

	// environment variables
	Config.AutomaticEnv()

	// watch for changes
	Config.WatchConfig()
	Config.OnConfigChange(func(e fsnotify.Event) {
		Logger.Info().Msgf("Config file changed: %v", e.Name)
		Logger.Debug().Msgf("Config Additional Info: %v", e.String())
		OnNewConfig()
	})
}
