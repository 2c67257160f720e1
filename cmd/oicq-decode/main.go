// Command oicq-decode decodes captured command payloads offline and prints
// the outcome. Payloads are read as hex (whitespace ignored) or raw bytes.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opd-ai/oicq"
	"github.com/opd-ai/oicq/config"
	"github.com/opd-ai/oicq/interfaces"
	"github.com/sirupsen/logrus"
)

// CLI configuration
type CLIConfig struct {
	configPath string
	devicePath string
	kind       string
	input      string
	raw        bool
	logLevel   string
	help       bool
}

var kinds = []string{"login", "qrcode", "exchange", "system", "message"}

func parseCLIFlags(args []string) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet("oicq-decode", flag.ContinueOnError)
	fs.StringVar(&cfg.configPath, "config", "", "TOML config file")
	fs.StringVar(&cfg.devicePath, "device", "", "Device identity file (overrides config)")
	fs.StringVar(&cfg.kind, "kind", "login", "Frame kind: "+strings.Join(kinds, ", "))
	fs.StringVar(&cfg.input, "in", "-", "Input file, - for stdin")
	fs.BoolVar(&cfg.raw, "raw", false, "Input is raw bytes instead of hex")
	fs.StringVar(&cfg.logLevel, "log-level", "", "Log level (overrides config)")
	fs.BoolVar(&cfg.help, "help", false, "Show help message")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "oicq-decode: decode captured protocol frames")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s -kind login -in frame.hex\n", os.Args[0])
	fmt.Fprintf(w, "  xxd -p frame.bin | %s -kind qrcode\n", os.Args[0])
}

func validateCLIConfig(cfg *CLIConfig) error {
	for _, k := range kinds {
		if cfg.kind == k {
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q, want one of %s", cfg.kind, strings.Join(kinds, ", "))
}

func loadConfig(cli *CLIConfig) (config.Config, error) {
	cfg := config.Default()
	if cli.configPath != "" {
		var err error
		if cfg, err = config.Load(cli.configPath); err != nil {
			return cfg, err
		}
	}
	if cli.devicePath != "" {
		cfg.DevicePath = cli.devicePath
	}
	if cli.logLevel != "" {
		level, err := logrus.ParseLevel(cli.logLevel)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func readPayload(cli *CLIConfig, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	if cli.input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(cli.input)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if cli.raw {
		return data, nil
	}
	text := strings.Join(strings.Fields(string(data)), "")
	payload, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return payload, nil
}

// offlineBuilder reports the device-lock state instead of building a packet.
func offlineBuilder(out io.Writer) interfaces.IPacketBuilder {
	return interfaces.PacketBuilderFunc(func(state interfaces.DeviceLockState) (uint16, []byte, error) {
		fmt.Fprintf(out, "device lock follow-up needed: t104=%x rand_seed=%x\n", state.T104, state.RandSeed)
		return 0, nil, nil
	})
}

func decode(client *oicq.Client, kind string, payload []byte, out io.Writer) error {
	switch kind {
	case "login":
		resp, err := client.DecodeLogin(payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%T %+v\n", resp, resp)
		if acct := client.Account(); client.Online() {
			fmt.Fprintf(out, "account: uin=%d nick=%q\n", acct.Uin, acct.Nickname)
		}
	case "qrcode":
		state, err := client.DecodeQRCode(payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%T %+v\n", state, state)
	case "exchange":
		if err := client.DecodeExchange(payload); err != nil {
			return err
		}
		fmt.Fprintln(out, "credentials renewed")
	case "system":
		msgs, err := client.DecodeSystemMessages(payload)
		if err != nil {
			return err
		}
		for _, r := range msgs.JoinGroupRequests {
			fmt.Fprintf(out, "join request %+v\n", r)
		}
		for _, r := range msgs.SelfInvited {
			fmt.Fprintf(out, "self invited %+v\n", r)
		}
	case "message":
		elems, err := client.DecodeMessage(payload)
		if err != nil {
			return err
		}
		for _, el := range elems {
			fmt.Fprintf(out, "%T %+v\n", el, el)
		}
	}
	return nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli, err := parseCLIFlags(args)
	if err != nil {
		return 2
	}
	if cli.help {
		printUsage(stdout)
		return 0
	}
	if err := validateCLIConfig(cli); err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	logrus.SetOutput(stderr)
	cfg.ConfigureLogger(logrus.StandardLogger())

	payload, err := readPayload(cli, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	opts := oicq.NewOptions()
	opts.Config = cfg
	opts.Builder = offlineBuilder(stdout)
	client, err := oicq.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "create client: %v\n", err)
		return 1
	}
	defer client.Close()

	if err := decode(client, cli.kind, payload, stdout); err != nil {
		fmt.Fprintf(stderr, "decode %s: %v\n", cli.kind, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
