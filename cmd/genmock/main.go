// Command genmock writes a synthetic accident dataset for local runs and
// tests. The output is fully determined by -seed and -rows, and every row is
// checked with the same parser the dashboard uses.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/accident.csv -rows 500
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
)

var (
	reasons  = []string{"Overspeeding", "Drunk Driving", "Distracted Driving", "Fatigue", "Poor Road Conditions", "Signal Jumping", "Mechanical Failure"}
	states   = []string{"Uttar Pradesh", "Tamil Nadu", "Maharashtra", "Madhya Pradesh", "Karnataka", "Rajasthan", "Kerala", "Andhra Pradesh", "Gujarat", "West Bengal", "Bihar", "Telangana", "Odisha", "Punjab", "Goa"}
	weather  = []string{"Clear", "Rainy", "Foggy", "Cloudy", "Stormy", "Hazy"}
	roads    = []string{"Rural", "Urban", "Highway", "Residential", "Ring Road"}
	speeds   = []int{30, 40, 50, 60, 70, 80, 100, 120}
	alcohols = []string{"No", "No", "No", "Yes"}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 500, "number of accident records")
	seed := flag.Uint64("seed", 20240426, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := generate(f, *rows, *seed); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d records to %s", *rows, *out)
	return nil
}

// generate writes n records drawn from a PCG stream seeded with seed.
func generate(w io.Writer, n int, seed uint64) error {
	rng := rand.New(rand.NewPCG(seed, seed))
	records := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, []string{
			fmt.Sprintf("ACC%05d", i),
			pick(rng, reasons),
			pick(rng, states),
			pick(rng, weather),
			strconv.Itoa(speeds[rng.IntN(len(speeds))]),
			strconv.Itoa(deaths(rng)),
			pick(rng, alcohols),
			pick(rng, roads),
		})
	}

	ds := domain.NewDataset(domain.Columns, records)
	if _, err := ds.Records(); err != nil {
		return fmt.Errorf("generated invalid record: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// deaths skews towards zero: most accidents are not fatal.
func deaths(rng *rand.Rand) int {
	switch r := rng.IntN(10); {
	case r < 6:
		return 0
	case r < 9:
		return 1 + rng.IntN(2)
	default:
		return 3 + rng.IntN(4)
	}
}
