package ircore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
addr: irc.libera.chat:6697
nick: alice
altnick: alice_
user: alice
password: hunter2
sasl-mechanism: SCRAM-SHA-256
dcc:
  download-dir: /tmp/dl
  port-min: 49500
  port-max: 49600
  rate-limit: 65536
  host-override: 198.51.100.7
  cache-dirs: [/tmp/dcc-cache]
`))
	require.NoError(t, err)
	assert.Equal(t, "irc.libera.chat:6697", cfg.Addr)
	assert.Equal(t, "alice", cfg.Nick)
	assert.Equal(t, "alice_", cfg.AltNick)
	require.NotNil(t, cfg.Password)
	assert.Equal(t, "hunter2", *cfg.Password)
	assert.Equal(t, "SCRAM-SHA-256", cfg.SASLMechanism)
	assert.Equal(t, "/tmp/dl", cfg.DCC.DownloadDir)
	assert.Equal(t, 49500, cfg.DCC.PortMin)
	assert.Equal(t, 65536, cfg.DCC.RateLimit)
	assert.Equal(t, "198.51.100.7", cfg.DCC.HostOverride)
	assert.Equal(t, []string{"/tmp/dcc-cache"}, cfg.DCC.CacheDirs)
	assert.False(t, cfg.DCC.AllowLocalPeers)
}

func TestParseConfigMissingFields(t *testing.T) {
	_, err := ParseConfig([]byte("nick: alice"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("addr: irc.example.org:6697"))
	assert.Error(t, err)
}

func TestParseConfigRejectsHostOverrideWithWhitespace(t *testing.T) {
	_, err := ParseConfig([]byte(`
addr: irc.example.org:6697
nick: alice
dcc:
  host-override: "198.51.100.7 evil"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host-override")
}

func TestParseConfigRejectsInvertedPortRange(t *testing.T) {
	_, err := ParseConfig([]byte(`
addr: irc.example.org:6697
nick: alice
dcc:
  port-min: 5000
  port-max: 4000
`))
	assert.Error(t, err)
}

func TestParseCTCP(t *testing.T) {
	tests := []struct {
		input   string
		command string
		args    string
		ok      bool
	}{
		{"\x01VERSION\x01", "VERSION", "", true},
		{"\x01ACTION waves\x01", "ACTION", "waves", true},
		{"\x01dcc SEND file.txt 2130706433 5000 1024\x01", "DCC", "SEND file.txt 2130706433 5000 1024", true},
		{"\x01PING 12345", "PING", "12345", true},
		{"hello", "", "", false},
		{"", "", "", false},
		{"\x01\x01", "", "", false},
	}

	for _, tt := range tests {
		command, args, ok := ParseCTCP(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.command, command, "input %q", tt.input)
		assert.Equal(t, tt.args, args, "input %q", tt.input)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"file.txt", "file.txt"},
		{"../../etc/passwd", "passwd"},
		{"/etc/shadow", "shadow"},
		{`..\..\windows\system32\cmd.exe`, "cmd.exe"},
		{"..", "download"},
		{"", "download"},
	}

	for _, tt := range tests {
		if got := safeFilename(tt.input); got != tt.want {
			t.Errorf("safeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
