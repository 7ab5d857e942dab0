package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/thatsimonsguy/ntc-thermostat/db"
	"github.com/thatsimonsguy/ntc-thermostat/internal/adc"
	"github.com/thatsimonsguy/ntc-thermostat/internal/config"
	"github.com/thatsimonsguy/ntc-thermostat/internal/sensor"
)

func main() {
	DebugCLI()
}

func DebugCLI() {
	var dbPath, command, configPath string
	var limit, days int
	flag.StringVar(&dbPath, "db", "data/readings.db", "Path to the SQLite readings database")
	flag.StringVar(&command, "cmd", "", "Command to run: recent-readings, purge-readings, show-params")
	flag.StringVar(&configPath, "config", "config.json", "Path to thermostat config file (show-params)")
	flag.IntVar(&limit, "limit", 20, "Number of readings to show (recent-readings)")
	flag.IntVar(&days, "days", 30, "Delete readings older than this many days (purge-readings)")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of ntc-debug:")
		fmt.Println("  -db string\tPath to the SQLite readings database (default 'data/readings.db')")
		fmt.Println("  -cmd string\tCommand to run: recent-readings, purge-readings, show-params")
		fmt.Println("  -config string\tPath to thermostat config file for show-params")
		fmt.Println("  -limit int\tNumber of readings to show")
		fmt.Println("  -days int\tPurge readings older than this many days")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	var err error
	switch command {
	case "recent-readings":
		err = recentReadings(dbPath, limit)
	case "purge-readings":
		err = purgeReadings(dbPath, days)
	case "show-params":
		err = showParams(configPath)
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
}

func recentReadings(dbPath string, limit int) error {
	dbConn, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	rows, err := db.RecentReadings(dbConn, limit)
	if err != nil {
		return err
	}

	fmt.Printf("%-24s %8s %12s %8s %8s\n", "recorded_at", "raw", "ohms", "C", "F")
	for _, r := range rows {
		fmt.Printf("%-24s %8d %12.1f %8.2f %8.2f\n",
			r.RecordedAt.Local().Format(time.RFC3339), r.RawCode, r.ResistanceOhms, r.Celsius, r.Fahrenheit)
	}
	return nil
}

func purgeReadings(dbPath string, days int) error {
	dbConn, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := db.PurgeBefore(dbConn, cutoff)
	if err != nil {
		return err
	}
	fmt.Printf("Purged %d readings older than %s\n", n, cutoff.Format(time.RFC3339))
	return nil
}

func showParams(configPath string) error {
	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	defer file.Close()

	var cfg config.Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// No hardware here; DescribeParams never reads the ADC.
	noHardware := adc.ReaderFunc(func() (int, error) {
		return 0, fmt.Errorf("no hardware attached")
	})

	ntc, err := sensor.New(
		sensor.CalibrationParams{
			SeriesResistanceOhms:  cfg.Sensor.SeriesResistanceOhms,
			NominalResistanceOhms: cfg.Sensor.NominalResistanceOhms,
			BetaCoefficient:       cfg.Sensor.BetaCoefficient,
			Topology:              cfg.Sensor.Topology,
		},
		sensor.ADCReadoutModel{
			MaxReading:          cfg.ADC.MaxReading,
			SupplyMillivolts:    cfg.ADC.SupplyMillivolts,
			ReferenceMillivolts: cfg.ADC.ReferenceMillivolts,
			OffsetMillivolts:    cfg.ADC.OffsetMillivolts,
		},
		noHardware,
	)
	if err != nil {
		return err
	}

	fmt.Println(ntc.DescribeParams())
	return nil
}
