package config

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/dxgrid/airlink/internal/rx"
)

// Load reads the configuration from path (or the default search locations
// when path is empty), applies AIRLINK_* environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("airlink")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/airlink")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AIRLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file anywhere; run on defaults and env.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHooks()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("capture.type", "pcap")
	v.SetDefault("capture.snaplen", 4096)
	v.SetDefault("capture.buffer_size", 4*1024*1024)
	v.SetDefault("capture.promiscuous", true)
	v.SetDefault("capture.poll_timeout", "20ms")

	v.SetDefault("receiver.block_size", 1024)
	v.SetDefault("receiver.control_frame_size", 256)
	v.SetDefault("receiver.buffer_size", 1024*1024)
	v.SetDefault("receiver.ordered", true)
	v.SetDefault("receiver.fill_gaps", true)
	v.SetDefault("receiver.fill_value", 0xAA)
	v.SetDefault("receiver.auth_threshold", 8)
	v.SetDefault("receiver.classify_threshold", 0.66)
	v.SetDefault("receiver.batch_size", 64)
	v.SetDefault("receiver.wait_timeout", "5s")

	v.SetDefault("output.path", "-")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", ":9221")
}

func decodeHooks() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
		stringToAddressHookFunc(),
	))
}

// stringToAddressHookFunc decodes "aa:bb:cc:dd:ee:ff" into an rx.Address.
func stringToAddressHookFunc() mapstructure.DecodeHookFunc {
	addressType := reflect.TypeOf(rx.Address{})
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != addressType {
			return data, nil
		}
		s := data.(string)
		if s == "" {
			return rx.Address{}, nil
		}
		hw, err := net.ParseMAC(s)
		if err != nil {
			return nil, fmt.Errorf("invalid sender address %q: %w", s, err)
		}
		if len(hw) != len(rx.Address{}) {
			return nil, fmt.Errorf("sender address %q must be 6 bytes", s)
		}
		var addr rx.Address
		copy(addr[:], hw)
		return addr, nil
	}
}
