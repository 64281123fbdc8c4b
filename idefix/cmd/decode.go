// cmd/decode.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-asterix/gobelix/asterix"
	"github.com/go-asterix/gobelix/demux"
	"github.com/go-asterix/gobelix/descriptor"
	"github.com/go-asterix/gobelix/encode"
	"github.com/go-asterix/gobelix/idefix/internal/netsource"
	"github.com/go-asterix/gobelix/idefix/internal/stats"
	"github.com/go-asterix/gobelix/internal/config"
)

var (
	inputPath     string
	listenAddr    string
	outputFile    string
	encapsulation string
	format        string
	mode          string
	categories    []string
	timeoutSec    int
	statsEvery    int
)

func init() {
	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode ASTERIX data from a file, stdin, or a socket",
		Long: `Decode reads ASTERIX data, de-multiplexes it according to --encapsulation,
parses it against the loaded description library, and writes one of four
output forms.

Examples:
  idefix decode -i capture.raw --format json
  idefix decode -i capture.pcap --encapsulation pcap --format line
  idefix decode --listen 2000/udp --format text --mode extensive`,
		RunE: runDecode,
	}

	decodeCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file path ('-' for stdin)")
	decodeCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen for input on PORT/PROTOCOL, e.g. 2000/udp")
	decodeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	decodeCmd.Flags().StringVar(&encapsulation, "encapsulation", "raw", "Input framing: raw, pcap, hdlc, final, or gps")
	decodeCmd.Flags().StringVar(&format, "format", "line", "Output format: line, text, json, or xml")
	decodeCmd.Flags().StringVar(&mode, "mode", "human", "Output detail: compact, human, or extensive")
	decodeCmd.Flags().StringSliceVar(&categories, "categories", nil, "Only emit these categories (e.g. 48,62); default all")
	decodeCmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Stop after N seconds (0 = run until input ends)")
	decodeCmd.Flags().IntVar(&statsEvery, "stats", 0, "Log statistics every N seconds (0 = only at exit)")

	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if ConfigFile != "" {
		var err error
		cfg, err = config.Load(ConfigFile)
		if err != nil {
			return err
		}
	}

	verbose, jsonLogs := Verbose, JsonLogs
	if cfg != nil && !cmd.Flags().Changed("verbose") {
		verbose = cfg.Verbose
	}
	if cfg != nil && !cmd.Flags().Changed("json") {
		jsonLogs = cfg.JSONLogs
	}
	logger := ConfigureLogger(verbose, jsonLogs)
	if cfg != nil {
		logger = logger.With("config", ConfigFile)
	}

	if inputPath == "" && listenAddr == "" {
		return fmt.Errorf("one of --input or --listen is required")
	}
	if inputPath != "" && listenAddr != "" {
		return fmt.Errorf("--input and --listen are mutually exclusive")
	}

	var parserOpts []asterix.Option
	var demuxEncap demux.Encapsulation
	if cfg != nil && !cmd.Flags().Changed("encapsulation") {
		_, dEncap, err := parseEncapsulation(string(cfg.Encapsulation))
		if err != nil {
			return err
		}
		demuxEncap = dEncap
		opts, err := cfg.Options(logger)
		if err != nil {
			return err
		}
		parserOpts = opts
	} else {
		asterixEncap, dEncap, err := parseEncapsulation(encapsulation)
		if err != nil {
			return err
		}
		demuxEncap = dEncap
		parserOpts = []asterix.Option{
			asterix.WithEncapsulation(asterixEncap),
			asterix.WithVerbose(verbose),
			asterix.WithLogger(logger),
		}
	}

	encMode, err := parseMode(mode)
	if err != nil {
		return err
	}
	encoder, err := parseEncoder(format, encMode)
	if err != nil {
		return err
	}
	wantCats, err := parseCategories(categories)
	if err != nil {
		return err
	}

	descDirs := DescriptionDir
	if cfg != nil {
		descDirs = append(append([]string{}, descDirs...), cfg.Descriptions...)
	}
	lib, err := buildLibrary(descDirs)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput()
	if err != nil {
		return err
	}
	defer closeIn()

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	parser, err := asterix.New(lib, parserOpts...)
	if err != nil {
		return fmt.Errorf("creating parser: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if timeoutSec > 0 {
		go func() {
			select {
			case <-time.After(time.Duration(timeoutSec) * time.Second):
				logger.Info("timeout reached, stopping")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	msgStats := stats.New()
	if statsEvery > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(statsEvery) * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					msgStats.LogStats(logger, false)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	done := make(chan error, 1)
	go func() {
		done <- processInput(ctx, in, demux.New(demuxEncap), parser, lib, encoder, wantCats, out, logger, msgStats)
	}()

	var result error
	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
		cancel()
		select {
		case result = <-done:
		case <-time.After(2 * time.Second):
			logger.Warn("forced shutdown after timeout")
		}
	case result = <-done:
	}

	msgStats.LogStats(logger, true)
	return result
}

func processInput(
	ctx context.Context,
	in io.Reader,
	dm demux.Demuxer,
	parser *asterix.Parser,
	lib *descriptor.Library,
	encoder encode.Encoder,
	wantCats map[descriptor.Category]bool,
	out io.Writer,
	logger *slog.Logger,
	msgStats *stats.MessageStats,
) error {
	for frame, frameErr := range dm.Frames(in) {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if frameErr != nil {
			logger.Warn("frame error", "error", frameErr)
			continue
		}

		for rec, recErr := range parser.Feed(frame.Payload) {
			if rec == nil {
				if recErr != nil {
					logger.Error("decode error", "error", recErr)
				}
				continue
			}
			if len(wantCats) > 0 && !wantCats[rec.Category] {
				continue
			}

			msgStats.Increment(rec.Category)

			data, err := encoder.Encode(rec, lib)
			if err != nil {
				logger.Error("encode error", "error", err)
				continue
			}
			fmt.Fprintln(out, string(data))
		}
	}
	return nil
}

func openInput() (io.Reader, func() error, error) {
	if listenAddr != "" {
		parts := strings.SplitN(listenAddr, "/", 2)
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("invalid --listen format, want PORT/PROTOCOL (e.g. 2000/udp)")
		}
		port, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid port in --listen: %w", err)
		}
		conn, err := netsource.Listen(strings.ToLower(parts[1]), port)
		if err != nil {
			return nil, nil, err
		}
		return conn, conn.Close, nil
	}

	if inputPath == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, f.Close, nil
}

func parseEncapsulation(s string) (asterix.Encapsulation, demux.Encapsulation, error) {
	switch strings.ToLower(s) {
	case "", "raw":
		return asterix.Raw, demux.Raw, nil
	case "pcap":
		return asterix.Pcap, demux.PCAP, nil
	case "hdlc":
		return asterix.Hdlc, demux.HDLC, nil
	case "final":
		return asterix.Final, demux.Final, nil
	case "gps":
		return asterix.Gps, demux.GPS, nil
	default:
		return 0, 0, fmt.Errorf("invalid --encapsulation %q (want raw, pcap, hdlc, final, or gps)", s)
	}
}

func parseEncoder(s string, m encode.Mode) (encode.Encoder, error) {
	switch strings.ToLower(s) {
	case "", "line":
		return encode.LineEncoder{}, nil
	case "text":
		return encode.TextEncoder{}, nil
	case "json":
		return encode.JSONEncoder{Mode: m}, nil
	case "xml":
		return encode.XMLEncoder{Mode: m}, nil
	default:
		return nil, fmt.Errorf("invalid --format %q (want line, text, json, or xml)", s)
	}
}

func parseMode(s string) (encode.Mode, error) {
	switch strings.ToLower(s) {
	case "", "human":
		return encode.Human, nil
	case "compact":
		return encode.Compact, nil
	case "extensive":
		return encode.Extensive, nil
	default:
		return 0, fmt.Errorf("invalid --mode %q (want compact, human, or extensive)", s)
	}
}

func parseCategories(raw []string) (map[descriptor.Category]bool, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	want := make(map[descriptor.Category]bool, len(raw))
	for _, s := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 || n > 255 {
			return nil, fmt.Errorf("invalid category %q", s)
		}
		want[descriptor.Category(n)] = true
	}
	return want, nil
}
