package ircore

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DCCConfig is the security-relevant policy for file transfers.
type DCCConfig struct {
	DownloadDir string `yaml:"download-dir"`

	// PortMin/PortMax bound the listener range for outgoing sends;
	// zero means any free port.
	PortMin int `yaml:"port-min"`
	PortMax int `yaml:"port-max"`

	// RateLimit caps outgoing throughput in bytes per second; zero
	// means unthrottled.
	RateLimit int `yaml:"rate-limit"`

	// HostOverride is advertised to peers instead of the bound
	// address.  It must not contain whitespace.
	HostOverride string `yaml:"host-override"`

	// AllowLocalPeers disables the private-address guard for incoming
	// transfers.  Off by default on purpose.
	AllowLocalPeers bool `yaml:"allow-local-peers"`

	// CacheDirs are the only directories the engine may delete sent
	// files from once a transfer ends.
	CacheDirs []string `yaml:"cache-dirs"`
}

type Config struct {
	Addr     string
	Nick     string
	AltNick  string `yaml:"altnick"`
	User     string
	Real     string
	Password *string

	// SASLMechanism selects PLAIN (default when a password is set),
	// EXTERNAL or SCRAM-SHA-256.
	SASLMechanism string `yaml:"sasl-mechanism"`

	NoTLS bool `yaml:"no-tls"`
	Debug bool

	DCC DCCConfig `yaml:"dcc"`
}

func ParseConfig(buf []byte) (cfg Config, err error) {
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return
	}
	err = cfg.validate()
	return
}

func LoadConfigFile(filename string) (cfg Config, err error) {
	var buf []byte

	buf, err = os.ReadFile(filename)
	if err != nil {
		return
	}

	cfg, err = ParseConfig(buf)

	return
}

func (cfg *Config) validate() error {
	if cfg.Addr == "" {
		return fmt.Errorf("missing addr")
	}
	if cfg.Nick == "" {
		return fmt.Errorf("missing nick")
	}
	if strings.ContainsAny(cfg.DCC.HostOverride, " \t") {
		return fmt.Errorf("dcc host-override must not contain whitespace")
	}
	if cfg.DCC.PortMax != 0 && cfg.DCC.PortMax < cfg.DCC.PortMin {
		return fmt.Errorf("dcc port range is inverted")
	}
	return nil
}
