// Package main implements a standalone generator that writes a synthetic
// heavy-equipment parts catalog as CSV files (parts.csv, distributors.csv,
// listings.csv) consumable by cmd/seed.
//
// Run: go run scripts/gen_catalog.go -out testdata
//
//	(from the repo root, or: cd scripts && go run gen_catalog.go)
package main

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const totalParts = 5000

// ---------------------------------------------------------------------------
// Brand definitions
// ---------------------------------------------------------------------------

// brandDef is a manufacturer together with the part-number shapes it uses.
type brandDef struct {
	Name     string
	Prefixes []string
	Weight   float64 // share of total parts (sums to 1.0)
}

var brands = []brandDef{
	{"Caterpillar", []string{"1R-", "3E-", "7X-", "9X-"}, 0.25},
	{"Komatsu", []string{"600-", "708-", "20Y-"}, 0.15},
	{"John Deere", []string{"RE", "AT", "T"}, 0.15},
	{"Bosch", []string{"0 445 ", "F 00"}, 0.10},
	{"Donaldson", []string{"P55", "P77", "X77"}, 0.10},
	{"Fleetguard", []string{"LF", "FF", "AF"}, 0.10},
	{"Baldwin", []string{"B", "BF", "PA"}, 0.08},
	{"", []string{"PS-"}, 0.07}, // unbranded aftermarket
}

// ---------------------------------------------------------------------------
// Category definitions
// ---------------------------------------------------------------------------

type categoryDef struct {
	Name   string
	Titles []string
}

var categories = []categoryDef{
	{"filters", []string{"Oil Filter", "Fuel Filter", "Air Filter", "Hydraulic Filter", "Cabin Air Filter"}},
	{"engine", []string{"Piston Kit", "Cylinder Head Gasket", "Turbocharger", "Water Pump", "Injector Nozzle"}},
	{"hydraulics", []string{"Hydraulic Pump", "Control Valve", "Seal Kit", "Hose Assembly", "Cylinder Rod"}},
	{"undercarriage", []string{"Track Roller", "Idler Assembly", "Sprocket Segment", "Track Shoe", "Carrier Roller"}},
	{"electrical", []string{"Alternator", "Starter Motor", "Wiring Harness", "Pressure Sensor", "Relay Module"}},
	{"ground-engaging", []string{"Bucket Tooth", "Cutting Edge", "Ripper Shank", "Side Cutter", "Adapter"}},
}

// ---------------------------------------------------------------------------
// Distributor definitions
// ---------------------------------------------------------------------------

type distributorDef struct {
	Name    string
	Website string
	Email   string
	Regions []string
}

var distributors = []distributorDef{
	{"Heartland Equipment Parts", "https://heartlandparts.example.com", "sales@heartlandparts.example.com", []string{"US-MW", "US-S"}},
	{"Pacific Rim Machinery", "https://pacrimmachinery.example.com", "orders@pacrimmachinery.example.com", []string{"US-W", "APAC"}},
	{"Northline Diesel Supply", "https://northlinediesel.example.com", "parts@northlinediesel.example.com", []string{"CA", "US-NE"}},
	{"Gulf Coast Tractor", "https://gulfcoasttractor.example.com", "info@gulfcoasttractor.example.com", []string{"US-S"}},
	{"EuroTrak Components", "https://eurotrak.example.com", "verkauf@eurotrak.example.com", []string{"EU"}},
	{"Outback Heavy Spares", "https://outbackspares.example.com", "sales@outbackspares.example.com", []string{"AU", "NZ"}},
}

// ---------------------------------------------------------------------------
// Deterministic generation
// ---------------------------------------------------------------------------

// seededRand returns a rand.Rand whose sequence is stable for a given
// namespace and index, so re-runs always produce the same catalog.
func seededRand(namespace string, index int) *rand.Rand {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", namespace, index)))
	return rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(h[:8]))))
}

// brandFor picks a brand for the given part index following the weights.
func brandFor(r *rand.Rand) brandDef {
	roll := r.Float64()
	acc := 0.0
	for _, b := range brands {
		acc += b.Weight
		if roll < acc {
			return b
		}
	}
	return brands[len(brands)-1]
}

// partNumber builds a raw manufacturer part number in the brand's shape,
// punctuation included, so the seeder's normalization has work to do.
func partNumber(r *rand.Rand, b brandDef) string {
	prefix := b.Prefixes[r.Intn(len(b.Prefixes))]
	return fmt.Sprintf("%s%04d", prefix, 1000+r.Intn(9000))
}

// ---------------------------------------------------------------------------
// CSV writers
// ---------------------------------------------------------------------------

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func main() {
	outDir := flag.String("out", "testdata", "directory to write the CSV files into")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	// Parts. MPNs are deduplicated on their punctuation-stripped form so the
	// catalog never carries two spellings of the same part.
	seen := make(map[string]bool)
	partRows := make([][]string, 0, totalParts)
	mpns := make([]string, 0, totalParts)

	for i := 0; len(partRows) < totalParts; i++ {
		r := seededRand("part", i)
		b := brandFor(r)
		mpn := partNumber(r, b)

		key := normalizeKey(mpn)
		if seen[key] {
			continue
		}
		seen[key] = true

		cat := categories[r.Intn(len(categories))]
		title := cat.Titles[r.Intn(len(cat.Titles))]

		var synonyms []byte
		if r.Intn(4) == 0 {
			// Occasionally record a cross-reference spelling as a synonym.
			synonyms, _ = json.Marshal([]string{fmt.Sprintf("X-%s", key)})
		} else {
			synonyms = []byte("[]")
		}

		partRows = append(partRows, []string{
			mpn,
			b.Name,
			title,
			cat.Name,
			fmt.Sprintf("%s for heavy equipment, OEM quality replacement.", title),
			string(synonyms),
		})
		mpns = append(mpns, mpn)
	}

	// Distributors.
	distRows := make([][]string, 0, len(distributors))
	for _, d := range distributors {
		regions, _ := json.Marshal(d.Regions)
		distRows = append(distRows, []string{d.Name, d.Website, "", d.Email, string(regions)})
	}

	// Listings: each part is carried by zero to three distributors.
	listingRows := make([][]string, 0, totalParts)
	for i, mpn := range mpns {
		r := seededRand("listing", i)
		carried := r.Intn(4)
		picks := r.Perm(len(distributors))[:carried]
		for _, p := range picks {
			sku := fmt.Sprintf("%s-%s", distributors[p].Name[:4], normalizeKey(mpn))
			listingRows = append(listingRows, []string{distributors[p].Name, mpn, sku})
		}
	}

	type output struct {
		name   string
		header []string
		rows   [][]string
	}
	outputs := []output{
		{"parts.csv", []string{"mpn", "brand", "title", "category", "description", "synonyms"}, partRows},
		{"distributors.csv", []string{"name", "website", "phone", "email", "regions"}, distRows},
		{"listings.csv", []string{"distributor_name", "mpn", "sku"}, listingRows},
	}
	for _, o := range outputs {
		path := filepath.Join(*outDir, o.name)
		if err := writeCSV(path, o.header, o.rows); err != nil {
			log.Fatalf("write %s: %v", o.name, err)
		}
		log.Printf("wrote %s (%d rows)", path, len(o.rows))
	}
}

// normalizeKey strips punctuation and uppercases, mirroring how the seeder
// canonicalizes part numbers.
func normalizeKey(mpn string) string {
	out := make([]byte, 0, len(mpn))
	for i := 0; i < len(mpn); i++ {
		c := mpn[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			out = append(out, c)
		}
	}
	return string(out)
}
