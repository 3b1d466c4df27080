package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rag-nar1/dhbloom/filter"
	"github.com/rag-nar1/dhbloom/filter/bloom"
	"github.com/rag-nar1/dhbloom/internal/config"
	"github.com/sirupsen/logrus"
)

const charset = "abcdefghijklmnopqrstuvwxyz" + "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" + "0123456789"

func RandomString(rng *rand.Rand, length int, charset string) []byte {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rng.Intn(len(charset))]
	}
	return b
}

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	hash := flag.String("hash", "", "hash algorithm: murmur3, xxh3, metro, city")
	items := flag.Int("items", -1, "number of elements to insert")
	probes := flag.Int("probes", -1, "number of absent elements to query")
	fpRate := flag.Float64("fp", 0, "target false-positive rate")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logrus.WithError(err).Fatal("loading config")
		}
	}
	if *hash != "" {
		cfg.Filter.Hash = *hash
	}
	if *items >= 0 {
		cfg.Experiment.Items = *items
		cfg.Filter.ExpectedItems = uint64(*items)
	}
	if *probes >= 0 {
		cfg.Experiment.Probes = *probes
	}
	if *fpRate > 0 {
		cfg.Filter.FPRate = *fpRate
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}

	log, err := cfg.Logger()
	if err != nil {
		logrus.WithError(err).Fatal("configuring logger")
	}
	if err := run(context.Background(), cfg, log); err != nil {
		log.WithError(err).Error("experiment failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	m, k, alg, err := cfg.Params()
	if err != nil {
		return err
	}
	seed := cfg.Experiment.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	n := cfg.Experiment.Items
	parts := make([][][]byte, cfg.Experiment.Partitions)
	inserted := make(map[string]bool, n)
	for i := range n {
		s := RandomString(rng, rng.Intn(cfg.Experiment.MaxLen), charset)
		p := i % len(parts)
		parts[p] = append(parts[p], s)
		inserted[string(s)] = true
	}

	startTime := time.Now()
	bf, err := bloom.BuildPartitioned(ctx, m, k, parts, bloom.WithAlgorithm(alg))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"m":          bf.Cap(),
		"k":          bf.K(),
		"hash":       bf.Algorithm(),
		"partitions": len(parts),
		"filter_mb":  float64(m) / 8 / 1024 / 1024,
		"took":       time.Since(startTime),
	}).Info("filter built")

	fn := 0
	for s := range inserted {
		if !bf.Contains([]byte(s)) {
			fn++
		}
	}

	probeData := make([][]byte, 0, cfg.Experiment.Probes)
	for range cfg.Experiment.Probes {
		s := uuid.NewString()
		if !inserted[s] {
			probeData = append(probeData, []byte(s))
		}
	}
	startTime = time.Now()
	measured := filter.MeasureFalsePositives(bf, probeData)

	log.WithFields(logrus.Fields{
		"inserted":        len(inserted),
		"lookups":         len(inserted) + len(probeData),
		"false_negatives": fn,
		"fp_rate":         measured,
		"fp_expected":     filter.FalsePositiveRate(bf.Cap(), bf.K(), uint64(len(inserted))),
		"estimated_count": bf.EstimatedCount(),
		"fill_ratio":      bf.FillRatio(),
		"probe_time":      time.Since(startTime),
	}).Info("experiment done")

	if fn > 0 {
		return fmt.Errorf("%d false negatives", fn)
	}
	return nil
}
