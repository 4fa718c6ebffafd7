package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"

	"git.sr.ht/~okote/ircore"
	"git.sr.ht/~okote/ircore/dcc"
	"git.sr.ht/~okote/ircore/irc"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.Parse()

	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			log.Panicln(err)
		}
		configPath = configDir + "/ircore/ircore.yaml"
	}

	cfg, err := ircore.LoadConfigFile(configPath)
	if err != nil {
		log.Panicln(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var conn net.Conn
	if cfg.NoTLS {
		conn, err = net.Dial("tcp", cfg.Addr)
	} else {
		conn, err = tls.Dial("tcp", cfg.Addr, nil)
	}
	if err != nil {
		log.Panicln(err)
	}
	defer conn.Close()

	cli, err := ircore.NewClient(cfg, conn, logger)
	if err != nil {
		log.Panicln(err)
	}
	defer cli.Close()

	for ev := range cli.Poll() {
		switch ev := ev.(type) {
		case irc.RawMessageEvent:
			if !cfg.Debug {
				continue
			}
			if ev.Outgoing {
				fmt.Printf("C  > S: %s\n", ev.Message)
			} else {
				fmt.Printf("C <  S: %s\n", ev.Message)
			}
		case irc.RegisteredEvent:
			logger.Info("registered", "nick", cli.Session().Nick())
		case irc.MessageAppend:
			fmt.Printf("%s [%s] %s\n", ev.Time.Format("15:04:05"), ev.Type, ev.Text)
		case dcc.Update:
			logger.Info("transfer",
				"id", ev.ID, "file", ev.Filename, "status", ev.Status.String(),
				"bytes", ev.Bytes, "size", ev.Size)
			if ev.Status == dcc.Pending && ev.Direction == dcc.Incoming && cfg.DCC.DownloadDir != "" {
				if err := cli.AcceptTransfer(ev.ID); err != nil {
					logger.Error("accept failed", "id", ev.ID, "err", err)
				}
			}
		default:
			fmt.Printf("=EVENT: %T%+v\n", ev, ev)
		}
	}
	fmt.Println("Disconnected")
}
