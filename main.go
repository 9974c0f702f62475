package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/allora-network/cosmos-txn-decoder/decoder"
	"github.com/allora-network/cosmos-txn-decoder/provider"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"
)

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envUint(key string, def uint64) uint64 {
	v, err := strconv.ParseUint(envOr(key, ""), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	var (
		nodeFlag        string
		lcdFlag         string
		connectionFlag  string
		denomFlag       string
		decimalsFlag    uint32
		prefixFlag      string
		minGasDenomFlag string
		txFlags         []string
		blockFlags      []string
		s3Bucket        string
		s3Key           string
		s3Region        string
		workersNum      uint
		metricsFlag     string
		timeoutFlag     time.Duration
		logLevelFlag    string
	)

	flag.StringVar(&nodeFlag, "node", envOr("NODE_RPC", "http://localhost:26657"), "CometBFT RPC address")
	flag.StringVar(&lcdFlag, "lcd", envOr("NODE_LCD", "http://localhost:1317"), "REST gateway address")
	flag.StringVar(&connectionFlag, "conn", envOr("DATABASE_URL", ""), "Database connection string; results go to stdout when empty")
	flag.StringVar(&denomFlag, "denom", envOr("NATIVE_DENOM", ""), "Native fee denomination")
	flag.Uint32Var(&decimalsFlag, "decimals", uint32(envUint("NATIVE_DECIMALS", 6)), "Decimals of the native denomination")
	flag.StringVar(&prefixFlag, "prefix", envOr("BECH32_PREFIX", ""), "Bech32 account prefix")
	flag.StringVar(&minGasDenomFlag, "min-gas-denom", envOr("MIN_GAS_PRICE_DENOM", ""), "Denomination accepted for fees (defaults to --denom)")
	flag.StringSliceVar(&txFlags, "tx", nil, "Transaction hashes to decode")
	flag.StringSliceVar(&blockFlags, "block", nil, "Block hashes to look up")
	flag.StringVar(&s3Bucket, "s3-bucket", envOr("S3_BUCKET", ""), "S3 bucket holding a hash list")
	flag.StringVar(&s3Key, "s3-key", envOr("S3_KEY", "latest"), "S3 key of the hash list")
	flag.StringVar(&s3Region, "s3-region", envOr("AWS_REGION", "us-east-1"), "S3 region")
	flag.UintVar(&workersNum, "workersNum", uint(envUint("WORKERS_NUM", 5)), "Number of workers to process hashes concurrently")
	flag.StringVar(&metricsFlag, "metrics", envOr("METRICS_ADDR", ""), "Address to serve Prometheus metrics on, e.g. :9100")
	flag.DurationVar(&timeoutFlag, "timeout", 15*time.Second, "Timeout for node requests")
	flag.StringVar(&logLevelFlag, "log-level", envOr("LOG_LEVEL", "info"), "Log level")
	flag.Parse()

	level, err := zerolog.ParseLevel(logLevelFlag)
	if err != nil {
		log.Fatal().Err(err).Str("level", logLevelFlag).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	dec, err := decoder.New(decoder.Config{
		NativeDenom:          denomFlag,
		NativeDecimals:       decimalsFlag,
		Bech32Prefix:         prefixFlag,
		MinimumGasPriceDenom: minGasDenomFlag,
	}, log.Logger.With().Str("component", "decoder").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid decoder configuration")
	}

	p := provider.New(
		NewRPCClient(nodeFlag, timeoutFlag),
		NewLCDClient(lcdFlag, timeoutFlag),
		dec,
		log.Logger.With().Str("component", "provider").Logger(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs, err := jobsFromHashes(jobTx, txFlags)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --tx")
	}
	blockJobs, err := jobsFromHashes(jobBlock, blockFlags)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --block")
	}
	jobs = append(jobs, blockJobs...)

	if s3Bucket != "" {
		s3Jobs, err := loadJobsFromS3(ctx, s3Source{
			Bucket:    s3Bucket,
			Key:       s3Key,
			Region:    s3Region,
			AccessKey: os.Getenv("AWS_ACCESS_KEY"),
			SecretKey: os.Getenv("AWS_SECRET_KEY"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load hash list from S3")
		}
		jobs = append(jobs, s3Jobs...)
	}

	if len(jobs) == 0 {
		log.Fatal().Msg("Nothing to do: pass --tx, --block or --s3-bucket")
	}

	// Init DB
	if connectionFlag != "" {
		if err := initDB(ctx, connectionFlag); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer closeDB()
		if err := setupDB(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to set up database")
		}
	}

	chain := prefixFlag
	initChainMetrics(chain)
	if metricsFlag != "" {
		startMetricsServer(metricsFlag)
	}

	bar := progressbar.Default(int64(len(jobs)), "Decoding")
	failed := runJobs(ctx, jobs, workersNum, bar, func(ctx context.Context, j job) error {
		switch j.Kind {
		case jobBlock:
			return processBlock(ctx, p, chain, j.Hash)
		default:
			return processTx(ctx, p, chain, j.Hash)
		}
	})

	log.Info().Int("total", len(jobs)).Int("failed", failed).Msg("Done")
	if failed > 0 {
		closeDB()
		os.Exit(1)
	}
}
