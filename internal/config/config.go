package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Options struct {
	RunAddress     string        `validate:"required"`
	Level          string        `validate:"required,oneof=debug info warn error"`
	ProductBaseURL string        `validate:"required,url"`
	OrderBaseURL   string        `validate:"required,url"`
	ProductIDList  []string      `validate:"required,min=1,dive,required"`
	Delay          time.Duration `validate:"gte=0"`
	Variant        string        `validate:"oneof=flat nested"`
	Timeout        time.Duration `validate:"gt=0"`
	DSN            string

	productIDs string
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	o.Register(flag.CommandLine)
	flag.Parse()
	o.productIDsFromFlag()
}

// Register binds the options to fs. Environment variables (optionally from a
// .env file) provide the defaults that flags override.
func (o *Options) Register(fs *flag.FlagSet) {
	loadEnvFile()

	fs.StringVar(&o.RunAddress, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	fs.StringVar(&o.Level, "l", getEnvOrDefault("LOG_LEVEL", "debug"), "log level")
	fs.StringVar(&o.ProductBaseURL, "p", getEnvOrDefault("PRODUCT_BASE_URL", "http://localhost:8081"), "product service base url")
	fs.StringVar(&o.OrderBaseURL, "o", getEnvOrDefault("ORDER_BASE_URL", "http://localhost:8082"), "order service base url")
	fs.StringVar(&o.productIDs, "i", getEnvOrDefault("PRODUCT_IDS", "1,2"), "comma separated product ids to load into the cart")
	fs.DurationVar(&o.Delay, "w", getDurationOrDefault("CHECKOUT_DELAY", 2*time.Second), "processing delay before an order is submitted")
	fs.StringVar(&o.Variant, "v", getEnvOrDefault("ORDER_PAYLOAD", "flat"), "order payload shape: flat or nested")
	fs.DurationVar(&o.Timeout, "t", getDurationOrDefault("REQUEST_TIMEOUT", 10*time.Second), "upstream request timeout")
	fs.StringVar(&o.DSN, "d", getEnvOrDefault("DATABASE_URI", ""), "database connection string for the product catalog")
}

func (o *Options) productIDsFromFlag() {
	o.ProductIDList = SplitIDs(o.productIDs)
}

// Parse registers the options on a fresh flag set and parses args.
func (o *Options) Parse(args []string) error {
	fs := flag.NewFlagSet("plantcart", flag.ContinueOnError)
	o.Register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	o.productIDsFromFlag()
	return nil
}

// Validate checks the parsed options.
func (o *Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (o *Options) RunAddr() string {
	return o.RunAddress
}

func (o *Options) LogLevel() string {
	return o.Level
}

func (o *Options) DataBaseDSN() string {
	return o.DSN
}

func (o *Options) ProductIDs() []string {
	return o.ProductIDList
}

func (o *Options) CheckoutDelay() time.Duration {
	return o.Delay
}

func (o *Options) OrderPayload() string {
	return o.Variant
}

func (o *Options) RequestTimeout() time.Duration {
	return o.Timeout
}

// SplitIDs turns "1, 2,,3" into [1 2 3].
func SplitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := getEnvOrDefault(key, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration %q in %s, using %s", value, key, defaultValue)
		return defaultValue
	}
	return d
}

// loadEnvFile loads environment variables from a .env file in the working
// directory. Variables already set in the environment win.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Printf("Cannot determine working directory: %v", err)
		return
	}
	envPath := filepath.Join(cwd, ".env")

	if err := godotenv.Load(envPath); err == nil {
		log.Printf(".env file loaded from %s", envPath)
	}
}
