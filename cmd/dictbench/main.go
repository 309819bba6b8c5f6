// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dictbench drives a workload against a dict.Dict and reports
// its rehashing and chain-length behavior.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/zyhnesmr/dictkv/internal/config"
	"github.com/zyhnesmr/dictkv/internal/dict"
	"github.com/zyhnesmr/dictkv/internal/hashing"
	"github.com/zyhnesmr/dictkv/pkg/log"
	"github.com/zyhnesmr/dictkv/pkg/utils"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
)

// cli is the kong command model; flags override anything loaded from
// ConfigFile or the environment.
var cli struct {
	ConfigFile    string `help:"Optional config file (yaml/json/toml, viper-loaded)." short:"c" type:"path"`
	Keys          int    `help:"Number of keys to insert into the demo dictionary." short:"n"`
	Capacity      uint64 `help:"Initial capacity hint passed to Expand before inserting." short:"i"`
	DisableResize bool   `help:"Start with opportunistic resize disabled."`
	LogLevel      string `help:"debug, verbose, notice, warning or error." default:"notice" short:"l"`
	ScanBatch     int    `help:"Log a progress line every this many Scan calls." default:"64"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("dictbench"),
		kong.Description("Exercise a dictkv.Dict with incremental rehashing, cursor scanning and random sampling."),
		kong.UsageOnError(),
	)

	cfg := config.Instance()
	if err := cfg.Load(cli.ConfigFile); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "dictbench"))
		os.Exit(1)
	}
	// Flags are user-supplied and get clamped to sane bounds before they
	// reach the config: a negative or absurdly large key count is a typo,
	// not a request to allocate a table that size.
	const maxDemoKeys = 10_000_000
	clampedKeys := int(utils.Clamp(int64(cli.Keys), 0, maxDemoKeys))
	clampedCapacity := uint64(utils.Max(0, utils.Min(int64(cli.Capacity), maxDemoKeys)))

	cfg.Apply(config.Values{
		InitialCapacity:    clampedCapacity,
		SampleWorkloadSize: clampedKeys,
		LogLevel:           cli.LogLevel,
	})
	snap := cfg.Snapshot()

	log.SetLevelString(snap.LogLevel)
	log.Info("dictbench %s starting (build %s)", Version, BuildTime)

	if cli.DisableResize || !snap.ResizeEnabled {
		dict.DisableResize()
		log.Info("opportunistic resize disabled process-wide")
	}

	d := dict.NewDict[string, int](&dict.Descriptor[string, int]{
		Hash: hashing.String,
	}, nil)

	if snap.InitialCapacity > 0 {
		if err := d.Expand(snap.InitialCapacity); err != nil {
			log.Warn("initial Expand(%d) rejected: %v", snap.InitialCapacity, err)
		}
	}

	start := time.Now()
	runWorkload(d, snap.SampleWorkloadSize)
	log.Info("inserted %d keys in %s", snap.SampleWorkloadSize, utils.FormatDuration(time.Since(start)))

	drainRehash(d)

	demoScan(d, cli.ScanBatch)
	demoSampling(d)

	if _, err := d.WriteStats(os.Stdout); err != nil {
		log.Error("writing stats: %v", err)
	}
}

// runWorkload inserts n sequentially-named keys, letting expandIfNeeded
// grow the table and kick off incremental rehashing as it goes.
func runWorkload(d *dict.Dict[string, int], n int) {
	for i := 0; i < n; i++ {
		key := "key-" + strconv.Itoa(i)
		if err := d.Add(key, i); err != nil {
			log.Debug("Add(%s): %v", key, err)
		}
	}
}

// drainRehash forces any rehashing left in flight to completion in
// 100ms slices of wall clock, the way a caller would during an idle
// tick rather than on every operation.
func drainRehash(d *dict.Dict[string, int]) {
	if !d.IsRehashing() {
		return
	}
	log.Info("draining background rehash")
	for d.RehashMilliseconds(100) {
	}
}

// demoScan walks the whole dictionary once using the cursor API. batch
// only bounds how chatty the log is; Scan itself emits whatever a
// bucket (or a rehashing pair of buckets) holds per call.
func demoScan(d *dict.Dict[string, int], batch int) {
	var cursor uint64
	var visited int
	calls := 0

	// A scan driven by a reverse-bit cursor is guaranteed to terminate
	// in a bounded number of calls for a table of this size; the
	// safety bound below only guards against a logic error, not
	// expected behavior.
	safetyBound := int(d.Slots())*4 + 1024

	for {
		cursor = d.Scan(cursor, func(e *dict.Entry[string, int]) {
			visited++
		}, nil)
		calls++
		if batch > 0 && calls%batch == 0 {
			log.Debug("cursor scan in progress: %d entries over %d calls", visited, calls)
		}
		if cursor == 0 || calls > safetyBound {
			break
		}
	}

	log.Info("cursor scan visited %d entries over %d calls", visited, calls)
}

// demoSampling exercises the three random-sampling operations.
func demoSampling(d *dict.Dict[string, int]) {
	if e, ok := d.RandomKey(); ok {
		log.Info("RandomKey -> %s", e.Key())
	}
	if e, ok := d.FairRandomKey(); ok {
		log.Info("FairRandomKey -> %s", e.Key())
	}
	pool := d.SomeKeys(10)
	log.Info("SomeKeys(10) returned %d entries", len(pool))
}
