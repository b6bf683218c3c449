package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/emmett/voxset/internal/app"
	"github.com/emmett/voxset/internal/audio"
	"github.com/emmett/voxset/internal/config"
	"github.com/emmett/voxset/internal/dataset"
	"github.com/emmett/voxset/internal/narrate"
	"github.com/emmett/voxset/internal/output"
	"github.com/emmett/voxset/internal/validate"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

var (
	configFile   = flag.String("config", "", "Path to configuration file (default: ~/.config/voxset/config.json)")
	basePath     = flag.String("base-path", "", "Dataset root for this invocation (overrides config)")
	setBasePath  = flag.String("set-base-path", "", "Set and persist the dataset root")
	setAPIKey    = flag.String("set-api-key", "", "Store the OpenAI API key in the OS keychain")
	deleteAPIKey = flag.Bool("delete-api-key", false, "Remove the stored OpenAI API key")
	testAPI      = flag.Bool("test-api", false, "Verify the stored API key with a minimal request")

	listDevices = flag.Bool("list-devices", false, "List all available audio input devices")
	testDevice  = flag.Int("test-device", -1, "Record a 3-second test clip from the given device index")
	deviceName  = flag.String("device", "", "Audio input device name (use --list-devices to see available devices)")
	setDevice   = flag.String("set-device", "", "Set and persist the preferred input device by name")
	sampleRate  = flag.Int("sample-rate", 0, "Recording sample rate in Hz (default: from config)")

	record    = flag.Bool("record", false, "Start an interactive recording session")
	textFile  = flag.String("text", "", "File containing narration text to record against")
	hotkeyStr = flag.String("hotkey", "", "Global hotkey that toggles recording (e.g. ctrl+shift+r)")

	generate  = flag.Bool("generate", false, "Generate narration text (pairs with --record, or prints standalone)")
	duration  = flag.Float64("duration", 0, "Target reading duration in minutes (default: from config)")
	wpm       = flag.Int("wpm", 0, "Words per minute (default: from config)")
	style     = flag.String("style", "", "Text style: General Purpose, Colloquial, Voice Note, Technical, Prose")
	vocabFile = flag.String("vocab", "", "YAML vocabulary file whose words the text must include")

	stats        = flag.Bool("stats", false, "Show dataset statistics")
	listSamples  = flag.Bool("list-samples", false, "List all samples in the dataset")
	sampleInfo   = flag.Int("sample-info", 0, "Show one sample's details by number")
	deleteSample = flag.Int("delete-sample", 0, "Delete a sample by number and renumber the rest")
	outputFormat = flag.String("format", "text", "Listing format: text, json")
	outputFile   = flag.String("output", "", "Output file (default: stdout)")

	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("voxset v%s\n", Version)
		fmt.Printf("  Commit:  %s\n", GitCommit)
		fmt.Printf("  Branch:  %s\n", GitBranch)
		fmt.Printf("  Built:   %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.LoadWithFallback(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	applyConfigDefaults(cfg)

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyConfigDefaults fills flag values the user did not set from the
// loaded configuration.
func applyConfigDefaults(cfg *config.Config) {
	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		flagsSet[f.Name] = true
	})

	if !flagsSet["sample-rate"] && cfg.SampleRate > 0 {
		*sampleRate = cfg.SampleRate
	}
	if !flagsSet["wpm"] && cfg.DefaultWPM > 0 {
		*wpm = cfg.DefaultWPM
	}
	if !flagsSet["duration"] && cfg.DefaultDuration > 0 {
		*duration = cfg.DefaultDuration
	}
	if !flagsSet["style"] && cfg.DefaultStyle != "" {
		*style = cfg.DefaultStyle
	}
	if !flagsSet["base-path"] && cfg.BasePath != "" {
		*basePath = cfg.BasePath
	}
	if !flagsSet["device"] && cfg.PreferredDeviceName != "" {
		*deviceName = cfg.PreferredDeviceName
	}
}

func run(cfg *config.Config) error {
	switch {
	case *setBasePath != "":
		return doSetBasePath(cfg, *setBasePath)
	case *setAPIKey != "":
		return config.SetAPIKey(*setAPIKey)
	case *deleteAPIKey:
		return config.DeleteAPIKey()
	case *testAPI:
		return doTestAPI(cfg)
	case *setDevice != "":
		return doSetDevice(cfg, *setDevice)
	case *listDevices:
		return app.NewDeviceManager().ListDevices()
	case *testDevice >= 0:
		return doTestDevice(*testDevice)
	case *stats:
		return doStats()
	case *listSamples:
		return doListSamples()
	case *sampleInfo > 0:
		return doSampleInfo(*sampleInfo)
	case *deleteSample > 0:
		return doDeleteSample(*deleteSample)
	case *record:
		return doRecord(cfg)
	case *generate:
		return doGenerate(cfg)
	}

	flag.Usage()
	return nil
}

func requireBasePath() (*dataset.Store, error) {
	if *basePath == "" {
		return nil, fmt.Errorf("no dataset base path configured; set one with --set-base-path")
	}
	return dataset.NewStore(*basePath)
}

func doSetBasePath(cfg *config.Config, path string) error {
	if err := validate.ValidateBasePath(path); err != nil {
		return err
	}
	cfg.BasePath = path

	configPath := *configFile
	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Printf("Dataset base path set to %s\n", path)
	return nil
}

func doSetDevice(cfg *config.Config, name string) error {
	device, err := audio.FindDeviceByName(name)
	if err != nil {
		return err
	}

	idx := device.Index
	cfg.PreferredDeviceIndex = &idx
	cfg.PreferredDeviceName = device.Name

	configPath := *configFile
	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Printf("Preferred device set to %s\n", device.String())
	return nil
}

func doTestAPI(cfg *config.Config) error {
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	if err := gen.TestConnection(context.Background()); err != nil {
		return err
	}
	fmt.Println("API connection OK")
	return nil
}

func doTestDevice(index int) error {
	rate := *sampleRate
	fmt.Printf("Recording 3-second test clip from device %d...\n", index)

	data, err := app.NewDeviceManager().TestDevice(index, 3.0, rate)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("device produced no audio")
	}

	peak := audio.Peak(data)
	fmt.Printf("Captured %.1fs, peak amplitude %.4f\n", float64(len(data))/float64(rate), peak)
	if err := validate.ValidateAudioData(data); err != nil {
		fmt.Printf("Warning: %v\n", err)
	} else {
		fmt.Println("Device looks healthy")
	}
	return nil
}

func doStats() error {
	store, err := requireBasePath()
	if err != nil {
		return err
	}
	fmt.Printf("Dataset: %s\n", store.BasePath())
	fmt.Printf("Samples: %d\n", store.TotalSamples())
	fmt.Printf("Duration: %.1f minutes\n", store.EstimateTotalDuration())
	return nil
}

func doListSamples() error {
	store, err := requireBasePath()
	if err != nil {
		return err
	}

	writer := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	var formatter output.Formatter
	switch strings.ToLower(*outputFormat) {
	case "json":
		formatter = output.NewJSONFormatter(writer)
	case "text":
		formatter = output.NewPlainTextFormatter(writer)
	default:
		return fmt.Errorf("unknown output format: %s (valid: text, json)", *outputFormat)
	}
	defer formatter.Close()

	samples, err := store.AllSamples()
	if err != nil {
		return err
	}
	for _, sample := range samples {
		if err := formatter.WriteSample(sample); err != nil {
			return err
		}
	}
	return formatter.WriteSummary(output.DatasetSummary{
		BasePath:             store.BasePath(),
		TotalSamples:         store.TotalSamples(),
		TotalDurationMinutes: store.EstimateTotalDuration(),
	})
}

func doSampleInfo(number int) error {
	store, err := requireBasePath()
	if err != nil {
		return err
	}

	info, err := store.SampleInfo(number)
	if err != nil {
		if errors.Is(err, dataset.ErrSampleNotFound) {
			return fmt.Errorf("sample %d does not exist", number)
		}
		return err
	}

	fmt.Printf("Sample %03d (%s)\n", info.Number, info.Folder)
	fmt.Printf("  Audio:    %v (%d bytes)\n", info.HasAudio, info.AudioSize)
	fmt.Printf("  Text:     %v (%d chars)\n", info.HasText, info.TextLength)
	fmt.Printf("  Metadata: %v\n", info.HasMetadata)
	if info.HasText {
		fmt.Printf("\n%s\n", info.Text)
	}
	if info.Metadata != nil {
		fmt.Printf("\nRecorded at %s\n", info.Metadata.Timestamp)
	}
	return nil
}

func doDeleteSample(number int) error {
	store, err := requireBasePath()
	if err != nil {
		return err
	}

	if err := store.Delete(number); err != nil {
		if errors.Is(err, dataset.ErrSampleNotFound) {
			return fmt.Errorf("sample %d does not exist", number)
		}
		return err
	}
	fmt.Printf("Deleted sample %d; %d sample(s) remain\n", number, store.TotalSamples())
	return nil
}

func newGenerator(cfg *config.Config) (*narrate.Generator, error) {
	key, err := config.APIKey()
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("no API key configured; store one with --set-api-key")
	}
	return narrate.NewGenerator(key, cfg.OpenAIModel), nil
}

func buildRequest() (narrate.Request, error) {
	st := narrate.StyleGeneralPurpose
	if *style != "" {
		parsed, err := narrate.ParseStyle(*style)
		if err != nil {
			return narrate.Request{}, err
		}
		st = parsed
	}

	req := narrate.Request{
		DurationMinutes: *duration,
		WPM:             *wpm,
		Style:           st,
	}

	if *vocabFile != "" {
		vf, err := narrate.LoadVocabulary(*vocabFile)
		if err != nil {
			return narrate.Request{}, err
		}
		req.Vocabulary = vf.Words
	}

	return req, nil
}

func generateText(ctx context.Context, cfg *config.Config) (string, *dataset.Metadata, error) {
	gen, err := newGenerator(cfg)
	if err != nil {
		return "", nil, err
	}
	req, err := buildRequest()
	if err != nil {
		return "", nil, err
	}

	text, err := gen.Generate(ctx, req)
	if err != nil {
		return "", nil, err
	}

	meta := dataset.NewMetadata(map[string]any{
		"duration":        req.DurationMinutes,
		"wpm":             req.WPM,
		"style":           string(req.Style),
		"vocabulary_used": req.Vocabulary,
		"model":           gen.Model(),
		"sample_rate":     *sampleRate,
	})
	return text, meta, nil
}

func doGenerate(cfg *config.Config) error {
	text, _, err := generateText(context.Background(), cfg)
	if err != nil {
		return err
	}

	if *outputFile != "" {
		return os.WriteFile(*outputFile, []byte(text), 0644)
	}
	fmt.Println(text)
	return nil
}

func doRecord(cfg *config.Config) error {
	store, err := requireBasePath()
	if err != nil {
		return err
	}
	cfg.BasePath = store.BasePath()
	cfg.SampleRate = *sampleRate

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nExiting...")
		cancel()
	}()

	// Resolve narration text: explicit file first, generation second.
	var text string
	var meta *dataset.Metadata
	switch {
	case *textFile != "":
		data, err := os.ReadFile(*textFile)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		text = strings.TrimSpace(string(data))
	case *generate:
		fmt.Println("Generating narration text...")
		text, meta, err = generateText(ctx, cfg)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("provide narration with --text FILE or --generate")
	}

	if err := validate.ValidateTextContent(text); err != nil {
		return err
	}

	deviceIndex := -1
	if *deviceName != "" || cfg.PreferredDeviceIndex != nil {
		device, err := app.NewDeviceManager().SelectDevice(cfg, *deviceName)
		if err != nil {
			return err
		}
		deviceIndex = device.Index
		fmt.Printf("Using device: %s\n", device.Name)
	}

	session := app.NewSession(app.SessionConfig{
		Config:      cfg,
		Store:       store,
		Text:        text,
		Meta:        meta,
		DeviceIndex: deviceIndex,
		Hotkey:      *hotkeyStr,
		NextText: func() (string, *dataset.Metadata, error) {
			return generateText(ctx, cfg)
		},
	})

	saved, err := session.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("\nSession finished: %d sample(s) saved\n", saved)
	return nil
}
